package vm

import "fmt"

// Module is the payload of a module object. Functions registered in a
// module live in the module object's attribute dict; the module itself is
// what a builtin function's __module__ refers to.
type Module struct {
	name string
}

// NewModule creates and registers a module object with the given name.
// Registering the same name twice returns the existing module.
func (ctx *Context) NewModule(name string) Value {
	ctx.modulesMu.Lock()
	defer ctx.modulesMu.Unlock()
	if existing, ok := ctx.modules[name]; ok {
		return existing
	}
	obj := NewObject(ctx.Types.Module, &Module{name: name})
	obj.SetAttr("__name__", ctx.InternedString(name))
	v := ObjectValue(obj)
	ctx.modules[name] = v
	return v
}

// Module returns a registered module by name.
func (ctx *Context) Module(name string) (Value, bool) {
	ctx.modulesMu.RLock()
	defer ctx.modulesMu.RUnlock()
	v, ok := ctx.modules[name]
	return v, ok
}

// ModuleNames returns the registered module names.
func (ctx *Context) ModuleNames() []string {
	ctx.modulesMu.RLock()
	defer ctx.modulesMu.RUnlock()
	names := make([]string, 0, len(ctx.modules))
	for name := range ctx.modules {
		names = append(names, name)
	}
	return names
}

// AddFunction builds a plain function from a definition, attaches the
// module as its defining module, and installs it under its name in the
// module's attribute dict.
func (ctx *Context) AddFunction(module Value, def FuncDef) (Value, error) {
	obj := module.Obj()
	if obj == nil {
		return Value{}, TypeErrorf("expected a module, got '%s'", module.ClassOf(ctx).Name)
	}
	if _, ok := obj.Payload().(*Module); !ok {
		return Value{}, TypeErrorf("expected a module, got '%s'", obj.Class().Name)
	}
	if def.name.IsNil() {
		return Value{}, TypeErrorf("cannot install an unnamed function in a module")
	}
	fn := def.IntoFunction().WithModule(module).Build(ctx)
	obj.SetAttr(def.name.AsString(), fn)
	return fn, nil
}

// Name returns the module's name.
func (m *Module) Name() string {
	return m.name
}

func (m *Module) String() string {
	return fmt.Sprintf("<module %s>", m.name)
}
