package vm

// ClassMethod adapts a callable (typically a method descriptor) so that
// attribute access binds the class rather than the instance. Accessing a
// classmethod through either the class or an instance yields a bound
// method whose target is the class wrapper value.
type ClassMethod struct {
	callable Value
}

var _ Descriptor = (*ClassMethod)(nil)

// NewClassMethod allocates a classmethod object wrapping a callable value.
func (ctx *Context) NewClassMethod(callable Value) Value {
	return ObjectValue(NewObject(ctx.Types.ClassMethod, &ClassMethod{callable: callable}))
}

// DescrGet binds the wrapped callable to the class. The class comes from
// the requested class when given, otherwise from the instance's class.
func (c *ClassMethod) DescrGet(ctx *Context, descr *Object, instance Value, cls *Class) (Value, error) {
	bindClass := cls
	if bindClass == nil {
		if instance.IsNil() {
			return Value{}, TypeErrorf("classmethod access with neither instance nor class")
		}
		bindClass = instance.ClassOf(ctx)
	}
	return ctx.NewBoundMethod(c.callable, bindClass.AsValue(ctx)), nil
}

// Callable returns the wrapped callable value.
func (c *ClassMethod) Callable() Value {
	return c.callable
}

// Name returns the wrapped callable's name, if it has one.
func (c *ClassMethod) Name() string {
	type named interface{ Name() string }
	if obj := c.callable.Obj(); obj != nil {
		if n, ok := obj.Payload().(named); ok {
			return n.Name()
		}
	}
	return ""
}
