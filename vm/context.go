package vm

import (
	"sync"

	"github.com/tliron/commonlog"
)

// Types is the registry of classes a context boots with.
type Types struct {
	Object *Class
	Type   *Class
	None   *Class
	Bool   *Class
	Int    *Class
	Float  *Class
	Str    *Class
	Module *Class

	BuiltinFunction  *Class // builtin_function_or_method
	MethodDescriptor *Class // method_descriptor
	BoundMethod      *Class
	ClassMethod      *Class
	GetSet           *Class
}

// Context is the runtime-context handle threaded through every call and
// attribute access. It owns the type registry, the interned string table
// and the module table. A context performs no suspension and spawns no
// work; the handle only needs to stay valid for the duration of each call.
type Context struct {
	Types   *Types
	strings *StringTable
	log     commonlog.Logger

	modulesMu sync.RWMutex
	modules   map[string]Value

	classesMu sync.RWMutex
	classes   []*Class
}

// NewContext boots a context: builds the type registry and installs the
// attribute surface of the callable classes.
func NewContext() *Context {
	ctx := &Context{
		strings: NewStringTable(),
		log:     commonlog.GetLogger("pyrite.vm"),
		modules: make(map[string]Value),
	}

	object := NewClass("object", nil)
	ctx.Types = &Types{
		Object: object,
		Type:   NewClass("type", object),
		None:   NewClass("NoneType", object),
		Bool:   NewClass("bool", object),
		Int:    NewClass("int", object),
		Float:  NewClass("float", object),
		Str:    NewClass("str", object),
		Module: NewClass("module", object),

		BuiltinFunction:  NewClass("builtin_function_or_method", object),
		MethodDescriptor: NewClass("method_descriptor", object),
		BoundMethod:      NewClass("bound_method", object),
		ClassMethod:      NewClass("classmethod", object),
		GetSet:           NewClass("getset_descriptor", object),
	}
	ctx.classes = []*Class{
		object, ctx.Types.Type, ctx.Types.None, ctx.Types.Bool, ctx.Types.Int,
		ctx.Types.Float, ctx.Types.Str, ctx.Types.Module,
		ctx.Types.BuiltinFunction, ctx.Types.MethodDescriptor,
		ctx.Types.BoundMethod, ctx.Types.ClassMethod, ctx.Types.GetSet,
	}

	initBuiltinFunc(ctx)
	ctx.log.Debug("context booted")
	return ctx
}

// None returns the none value.
func (ctx *Context) None() Value {
	return NilValue()
}

// InternedString interns text and returns it as a string value. Every
// wrapper exposing the same name or doc shares the canonical copy.
func (ctx *Context) InternedString(text string) Value {
	return StringValue(ctx.strings.Intern(text))
}

// Strings returns the context's interned string table.
func (ctx *Context) Strings() *StringTable {
	return ctx.strings
}

// RegisterClass creates a user class and records it in the context so
// image snapshots can enumerate it.
func (ctx *Context) RegisterClass(name string, superclass *Class) *Class {
	if superclass == nil {
		superclass = ctx.Types.Object
	}
	cls := NewClass(name, superclass)
	ctx.classesMu.Lock()
	ctx.classes = append(ctx.classes, cls)
	ctx.classesMu.Unlock()
	ctx.log.Debugf("registered class %s", name)
	return cls
}

// Classes returns a snapshot of every class the context knows about.
func (ctx *Context) Classes() []*Class {
	ctx.classesMu.RLock()
	defer ctx.classesMu.RUnlock()
	classes := make([]*Class, len(ctx.classes))
	copy(classes, ctx.classes)
	return classes
}

// ClassByName returns a registered class by name.
func (ctx *Context) ClassByName(name string) (*Class, bool) {
	ctx.classesMu.RLock()
	defer ctx.classesMu.RUnlock()
	for _, cls := range ctx.classes {
		if cls.Name == name {
			return cls, true
		}
	}
	return nil, false
}

// NewInstance allocates an instance of a class with an arbitrary native
// payload.
func (ctx *Context) NewInstance(cls *Class, payload any) Value {
	return ObjectValue(NewObject(cls, payload))
}

// GetAttr resolves attribute access on a value through the descriptor
// protocol. Lookup order: property descriptors on the class, the
// instance's own storage, then remaining class attributes (binding them
// when they carry the descriptor capability).
func (ctx *Context) GetAttr(v Value, name string) (Value, error) {
	cls := v.ClassOf(ctx)
	classAttr, found := cls.Attr(name)

	if found {
		if obj := classAttr.Obj(); obj != nil {
			if _, isProperty := obj.Payload().(*GetSet); isProperty {
				return obj.Payload().(Descriptor).DescrGet(ctx, obj, v, cls)
			}
		}
	}

	if recv := v.Obj(); recv != nil {
		if own, ok := recv.GetAttr(name); ok {
			return own, nil
		}
	}

	if found {
		if obj := classAttr.Obj(); obj != nil {
			if d, ok := obj.Payload().(Descriptor); ok {
				return d.DescrGet(ctx, obj, v, cls)
			}
		}
		return classAttr, nil
	}

	return Value{}, AttributeErrorf("'%s' object has no attribute '%s'", cls.Name, name)
}

// GetClassAttr resolves attribute access performed on a class itself: the
// descriptor protocol runs with no effective instance, so method
// descriptors come back unbound while classmethods bind to the class.
func (ctx *Context) GetClassAttr(cls *Class, name string) (Value, error) {
	attr, found := cls.Attr(name)
	if !found {
		return Value{}, AttributeErrorf("type '%s' has no attribute '%s'", cls.Name, name)
	}
	if obj := attr.Obj(); obj != nil {
		if d, ok := obj.Payload().(Descriptor); ok {
			return d.DescrGet(ctx, obj, NilValue(), cls)
		}
	}
	return attr, nil
}
