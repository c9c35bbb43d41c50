package vm

// Callable is the capability interface for invokable payloads.
//
// BuiltinFunction, BuiltinMethod and BoundMethod implement it independently;
// there is no shared base type because their attribute surfaces diverge
// (plain functions expose __module__, method descriptors do not). Anything
// that needs to call a value checks for the capability and uses it
// uniformly.
type Callable interface {
	Call(ctx *Context, args *Args) (Value, error)
}

// Call invokes a callable value with the given argument bundle. It fails
// with a type error when the value does not carry the Callable capability.
func (ctx *Context) Call(callee Value, args *Args) (Value, error) {
	obj := callee.Obj()
	if obj != nil {
		if c, ok := obj.Payload().(Callable); ok {
			return c.Call(ctx, args)
		}
	}
	return Value{}, TypeErrorf("'%s' object is not callable", callee.ClassOf(ctx).Name)
}

// IsCallable reports whether a value carries the Callable capability.
func IsCallable(v Value) bool {
	obj := v.Obj()
	if obj == nil {
		return false
	}
	_, ok := obj.Payload().(Callable)
	return ok
}
