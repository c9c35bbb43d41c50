package vm

import (
	"sync"
)

// Class represents a Pyrite class: a name, a superclass chain, and an
// attribute table. Method descriptors, property descriptors and plain
// values all live in the same table; the descriptor protocol decides what
// attribute access yields (see Context.GetAttr).
type Class struct {
	Name       string
	Superclass *Class

	mu    sync.RWMutex
	attrs map[string]Value

	// First-class wrapper, created lazily by AsValue.
	wrapOnce sync.Once
	wrapper  *Object
}

// NewClass creates a class with the given name and superclass.
// The superclass is nil only for the root Object class.
func NewClass(name string, superclass *Class) *Class {
	return &Class{
		Name:       name,
		Superclass: superclass,
		attrs:      make(map[string]Value),
	}
}

// SetAttr installs a value (typically a descriptor) in the class's
// attribute table. The table holds a shared reference; descriptors are
// never copied per lookup.
func (c *Class) SetAttr(name string, v Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attrs[name] = v
}

// OwnAttr looks up an attribute in this class only, ignoring superclasses.
func (c *Class) OwnAttr(name string) (Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.attrs[name]
	return v, ok
}

// Attr looks up an attribute along the superclass chain.
func (c *Class) Attr(name string) (Value, bool) {
	for cls := c; cls != nil; cls = cls.Superclass {
		if v, ok := cls.OwnAttr(name); ok {
			return v, true
		}
	}
	return NilValue(), false
}

// OwnAttrs returns a copy of this class's own attribute table.
func (c *Class) OwnAttrs() map[string]Value {
	c.mu.RLock()
	defer c.mu.RUnlock()
	attrs := make(map[string]Value, len(c.attrs))
	for k, v := range c.attrs {
		attrs[k] = v
	}
	return attrs
}

// IsSubclassOf reports whether c is other or a descendant of other.
func (c *Class) IsSubclassOf(other *Class) bool {
	for cls := c; cls != nil; cls = cls.Superclass {
		if cls == other {
			return true
		}
	}
	return false
}

// AsValue returns the first-class wrapper object for this class, creating
// it on first use. Repeated calls return the identical wrapper, so class
// values compare by identity.
func (c *Class) AsValue(ctx *Context) Value {
	c.wrapOnce.Do(func() {
		c.wrapper = NewObject(ctx.Types.Type, c)
	})
	return ObjectValue(c.wrapper)
}

// ClassFromValue extracts the *Class from a class wrapper value.
// Returns nil if the value is not a class wrapper.
func ClassFromValue(v Value) *Class {
	obj := v.Obj()
	if obj == nil {
		return nil
	}
	cls, _ := obj.Payload().(*Class)
	return cls
}
