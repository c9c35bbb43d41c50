package vm

import (
	"fmt"
)

// NativeFunc is a host Go function exposed to the object model. It receives
// the runtime context and the raw argument bundle and returns a value or an
// error; the wrapper layer forwards both untouched.
type NativeFunc func(ctx *Context, args *Args) (Value, error)

// ---------------------------------------------------------------------------
// FuncDef: the immutable (entry point, name, doc) triple
// ---------------------------------------------------------------------------

// FuncDef bundles a native entry point with its optional name and docstring.
// A definition is built once per native function at bootstrap and consumed
// by exactly one of the Build* converters; the entry point never changes
// identity after construction.
type FuncDef struct {
	fn   NativeFunc
	name Value
	doc  Value
}

// NewFuncDef wraps a native entry point with no name or doc.
func NewFuncDef(fn NativeFunc) FuncDef {
	return FuncDef{fn: fn, name: NilValue(), doc: NilValue()}
}

// WithName attaches an interned name. Call at most once, before the
// definition is consumed.
func (d FuncDef) WithName(ctx *Context, name string) FuncDef {
	d.name = ctx.InternedString(name)
	return d
}

// WithDoc attaches an interned docstring. Call at most once, before the
// definition is consumed.
func (d FuncDef) WithDoc(ctx *Context, doc string) FuncDef {
	d.doc = ctx.InternedString(doc)
	return d
}

// IntoFunction consumes the definition into a plain builtin function
// wrapper with no module set.
func (d FuncDef) IntoFunction() *BuiltinFunction {
	return &BuiltinFunction{def: d, module: NilValue()}
}

// BuildFunction consumes the definition into a builtin_function_or_method
// object.
func (d FuncDef) BuildFunction(ctx *Context) Value {
	return d.IntoFunction().Build(ctx)
}

// BuildMethod consumes the definition into a method_descriptor object
// installed on behalf of the given owner class.
func (d FuncDef) BuildMethod(ctx *Context, owner *Class) Value {
	return ObjectValue(NewObject(ctx.Types.MethodDescriptor, &BuiltinMethod{def: d, owner: owner}))
}

// BuildClassMethod consumes the definition into a classmethod object
// wrapping a method descriptor, so attribute access binds the owner class
// rather than an instance.
func (d FuncDef) BuildClassMethod(ctx *Context, owner *Class) Value {
	return ctx.NewClassMethod(d.BuildMethod(ctx, owner))
}

// ---------------------------------------------------------------------------
// BuiltinFunction: plain callable, never binds
// ---------------------------------------------------------------------------

// BuiltinFunction wraps a FuncDef as an ordinary callable object with an
// optional defining module. It is not a descriptor: it behaves identically
// wherever it is accessed.
type BuiltinFunction struct {
	def    FuncDef
	module Value
}

var _ Callable = (*BuiltinFunction)(nil)

// WithModule attaches the defining module reference.
func (f *BuiltinFunction) WithModule(module Value) *BuiltinFunction {
	f.module = module
	return f
}

// Build wraps the function as a builtin_function_or_method object.
func (f *BuiltinFunction) Build(ctx *Context) Value {
	return ObjectValue(NewObject(ctx.Types.BuiltinFunction, f))
}

// Call forwards the context and argument bundle directly to the native
// entry point. The wrapper performs no argument validation and no error
// translation of its own.
func (f *BuiltinFunction) Call(ctx *Context, args *Args) (Value, error) {
	return f.def.fn(ctx, args)
}

// Module returns the attached module, or nil if none was attached.
func (f *BuiltinFunction) Module() Value {
	return f.module
}

// NameValue returns the definition's name, or nil.
func (f *BuiltinFunction) NameValue() Value {
	return f.def.name
}

// DocValue returns the definition's docstring, or nil.
func (f *BuiltinFunction) DocValue() Value {
	return f.def.doc
}

// Name returns the definition's name as a string, or "" if unnamed.
func (f *BuiltinFunction) Name() string {
	return f.def.name.AsString()
}

func (f *BuiltinFunction) String() string {
	name := "<unknown name>"
	if !f.def.name.IsNil() {
		name = f.def.name.AsString()
	}
	return fmt.Sprintf("<builtin function %s>", name)
}

// ---------------------------------------------------------------------------
// BuiltinMethod: callable + descriptor protocol
// ---------------------------------------------------------------------------

// BuiltinMethod wraps a FuncDef as a method descriptor. It is installed
// into exactly one class's attribute table and never mutated afterwards:
// each access either returns the descriptor itself or manufactures a fresh
// bound method, so the descriptor carries no per-access state.
//
// Unlike BuiltinFunction it has no module reference; method descriptors
// are not module-scoped.
type BuiltinMethod struct {
	def   FuncDef
	owner *Class
}

var (
	_ Callable   = (*BuiltinMethod)(nil)
	_ Descriptor = (*BuiltinMethod)(nil)
)

// NewMethodWithName builds a method_descriptor object for owner from a bare
// entry point and name. Convenience for class bootstrap code.
func NewMethodWithName(ctx *Context, fn NativeFunc, name string, owner *Class) Value {
	return NewFuncDef(fn).WithName(ctx, name).BuildMethod(ctx, owner)
}

// Call forwards directly to the native entry point, exactly as
// BuiltinFunction.Call does.
func (m *BuiltinMethod) Call(ctx *Context, args *Args) (Value, error) {
	return m.def.fn(ctx, args)
}

// DescrGet implements the descriptor protocol for method descriptors.
//
// The access is first validated against the owner class through the shared
// DescrCheck helper. With no effective instance the descriptor returns
// itself unbound, unless the requested class is the effective target's own
// class, which is the one case where the nil value is a genuine receiver
// (binding a method of the none class to none itself). Every other access
// allocates a fresh bound method pairing the descriptor with the target.
func (m *BuiltinMethod) DescrGet(ctx *Context, descr *Object, instance Value, cls *Class) (Value, error) {
	target, err := DescrCheck(ctx, descr, instance, m.owner)
	if err != nil {
		return Value{}, err
	}
	if target.IsNil() && !classIs(cls, target.ClassOf(ctx)) {
		return ObjectValue(descr), nil
	}
	return ctx.NewBoundMethod(ObjectValue(descr), target), nil
}

// Owner returns the class the descriptor was built for.
func (m *BuiltinMethod) Owner() *Class {
	return m.owner
}

// NameValue returns the definition's name, or nil.
func (m *BuiltinMethod) NameValue() Value {
	return m.def.name
}

// DocValue returns the definition's docstring, or nil.
func (m *BuiltinMethod) DocValue() Value {
	return m.def.doc
}

// Name returns the definition's name as a string, or "" if unnamed.
func (m *BuiltinMethod) Name() string {
	return m.def.name.AsString()
}

func (m *BuiltinMethod) String() string {
	return fmt.Sprintf("<method descriptor %s>", m.Name())
}

// ---------------------------------------------------------------------------
// Class bootstrap
// ---------------------------------------------------------------------------

// initBuiltinFunc installs the attribute surface of the two callable
// classes. Pure wiring: the call and descriptor behavior live on the
// payloads; only the property table is attached here.
func initBuiltinFunc(ctx *Context) {
	fn := ctx.Types.BuiltinFunction
	fn.SetAttr("__module__", ctx.newGetSet("__module__", func(ctx *Context, recv *Object) (Value, error) {
		f, err := builtinFunctionPayload(recv)
		if err != nil {
			return Value{}, err
		}
		return f.Module(), nil
	}))
	fn.SetAttr("__name__", ctx.newGetSet("__name__", func(ctx *Context, recv *Object) (Value, error) {
		f, err := builtinFunctionPayload(recv)
		if err != nil {
			return Value{}, err
		}
		return f.NameValue(), nil
	}))
	fn.SetAttr("__doc__", ctx.newGetSet("__doc__", func(ctx *Context, recv *Object) (Value, error) {
		f, err := builtinFunctionPayload(recv)
		if err != nil {
			return Value{}, err
		}
		return f.DocValue(), nil
	}))

	md := ctx.Types.MethodDescriptor
	md.SetAttr("__name__", ctx.newGetSet("__name__", func(ctx *Context, recv *Object) (Value, error) {
		m, err := builtinMethodPayload(recv)
		if err != nil {
			return Value{}, err
		}
		return m.NameValue(), nil
	}))
	md.SetAttr("__doc__", ctx.newGetSet("__doc__", func(ctx *Context, recv *Object) (Value, error) {
		m, err := builtinMethodPayload(recv)
		if err != nil {
			return Value{}, err
		}
		return m.DocValue(), nil
	}))
}

func builtinFunctionPayload(recv *Object) (*BuiltinFunction, error) {
	f, ok := recv.Payload().(*BuiltinFunction)
	if !ok {
		return nil, TypeErrorf("expected a builtin_function_or_method, got '%s'", recv.Class().Name)
	}
	return f, nil
}

func builtinMethodPayload(recv *Object) (*BuiltinMethod, error) {
	m, ok := recv.Payload().(*BuiltinMethod)
	if !ok {
		return nil, TypeErrorf("expected a method_descriptor, got '%s'", recv.Class().Name)
	}
	return m, nil
}
