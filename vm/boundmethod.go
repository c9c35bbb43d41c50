package vm

import "fmt"

// BoundMethod pairs a callable with a fixed target. Invoking it supplies
// the target as the first positional argument and forwards through the
// callable capability of the wrapped value.
//
// Bound methods are manufactured fresh on every descriptor access; the
// descriptor and target are shared references, the pairing object is not.
type BoundMethod struct {
	fn     Value // the callable object (method descriptor or function)
	target Value // the bound instance or class
}

var _ Callable = (*BoundMethod)(nil)

// NewBoundMethod allocates a bound-method object pairing a callable value
// with a target.
func (ctx *Context) NewBoundMethod(fn, target Value) Value {
	return ObjectValue(NewObject(ctx.Types.BoundMethod, &BoundMethod{fn: fn, target: target}))
}

// Call invokes the wrapped callable with the target prepended to the
// positional arguments.
func (b *BoundMethod) Call(ctx *Context, args *Args) (Value, error) {
	return ctx.Call(b.fn, args.Prepend(b.target))
}

// Func returns the wrapped callable value.
func (b *BoundMethod) Func() Value {
	return b.fn
}

// Target returns the bound target.
func (b *BoundMethod) Target() Value {
	return b.target
}

// Name returns the wrapped callable's name, if it has one.
func (b *BoundMethod) Name() string {
	type named interface{ Name() string }
	if obj := b.fn.Obj(); obj != nil {
		if n, ok := obj.Payload().(named); ok {
			return n.Name()
		}
	}
	return ""
}

func (b *BoundMethod) String() string {
	return fmt.Sprintf("<bound method %s of %s>", b.Name(), b.target.AsString())
}
