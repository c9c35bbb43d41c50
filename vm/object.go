package vm

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Object represents a heap-allocated Pyrite object.
//
// Every object carries a class pointer and an opaque native payload. The
// payload is where the host side of the object lives: a *BuiltinFunction,
// a *BuiltinMethod, a *BoundMethod, a *Module, or any host value wrapped
// via Context.NewObject. Attribute storage is allocated lazily; most
// objects (notably callables) never touch it.
type Object struct {
	class   *Class
	payload any
	id      string

	mu   sync.RWMutex
	dict map[string]Value
}

// NewObject creates an object of the given class wrapping a native payload.
// Object IDs are uuids, assigned at creation; the image store keys persisted
// instances by them.
func NewObject(class *Class, payload any) *Object {
	return &Object{
		class:   class,
		payload: payload,
		id:      uuid.NewString(),
	}
}

// Class returns the object's class.
func (o *Object) Class() *Class {
	return o.class
}

// Payload returns the object's native payload.
func (o *Object) Payload() any {
	return o.payload
}

// ID returns the object's uuid.
func (o *Object) ID() string {
	return o.id
}

// ToValue wraps the object as a Value.
func (o *Object) ToValue() Value {
	return ObjectValue(o)
}

// GetAttr returns a value from the object's own attribute storage.
// This does not consult the class; use Context.GetAttr for full lookup.
func (o *Object) GetAttr(name string) (Value, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	v, ok := o.dict[name]
	return v, ok
}

// SetAttr stores a value in the object's own attribute storage.
func (o *Object) SetAttr(name string, v Value) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.dict == nil {
		o.dict = make(map[string]Value)
	}
	o.dict[name] = v
}

// Attrs returns a copy of the object's own attribute storage.
func (o *Object) Attrs() map[string]Value {
	o.mu.RLock()
	defer o.mu.RUnlock()
	attrs := make(map[string]Value, len(o.dict))
	for k, v := range o.dict {
		attrs[k] = v
	}
	return attrs
}

// String returns a debug representation.
func (o *Object) String() string {
	if s, ok := o.payload.(fmt.Stringer); ok {
		return s.String()
	}
	name := "?"
	if o.class != nil {
		name = o.class.Name
	}
	return fmt.Sprintf("<%s object>", name)
}
