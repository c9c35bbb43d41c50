package vm

import (
	"errors"
	"strings"
	"testing"
)

// countingFunc returns a native entry point that records its calls and
// returns the given result.
func countingFunc(calls *int, lastArgs **Args, result Value, err error) NativeFunc {
	return func(ctx *Context, args *Args) (Value, error) {
		*calls++
		if lastArgs != nil {
			*lastArgs = args
		}
		return result, err
	}
}

func TestBuiltinFunctionForwardsToEntryPoint(t *testing.T) {
	ctx := NewContext()

	calls := 0
	var got *Args
	fn := NewFuncDef(countingFunc(&calls, &got, IntValue(42), nil)).BuildFunction(ctx)

	args := NewArgs(IntValue(1), StringValue("x"))
	result, err := ctx.Call(fn, args)
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("entry point called %d times, want 1", calls)
	}
	if got != args {
		t.Errorf("argument bundle was not forwarded unchanged")
	}
	if !result.Is(IntValue(42)) {
		t.Errorf("result = %s, want 42", result.AsString())
	}
}

func TestBuiltinFunctionPassesErrorThrough(t *testing.T) {
	ctx := NewContext()

	wantErr := errors.New("native failure")
	fn := NewFuncDef(func(ctx *Context, args *Args) (Value, error) {
		return Value{}, wantErr
	}).BuildFunction(ctx)

	_, err := ctx.Call(fn, NewArgs())
	if !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want the entry point's own error unchanged", err)
	}
}

func TestBuiltinFunctionModuleAttribute(t *testing.T) {
	ctx := NewContext()
	module := ctx.NewModule("math")

	tests := []struct {
		name       string
		fn         Value
		wantModule Value
	}{
		{
			name:       "without module",
			fn:         NewFuncDef(nopNative).BuildFunction(ctx),
			wantModule: NilValue(),
		},
		{
			name:       "with module",
			fn:         NewFuncDef(nopNative).IntoFunction().WithModule(module).Build(ctx),
			wantModule: module,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ctx.GetAttr(tt.fn, "__module__")
			if err != nil {
				t.Fatalf("GetAttr(__module__) failed: %v", err)
			}
			if !got.Is(tt.wantModule) {
				t.Errorf("__module__ = %s, want %s", got.AsString(), tt.wantModule.AsString())
			}
			// The value never changes after construction.
			again, _ := ctx.GetAttr(tt.fn, "__module__")
			if !again.Is(got) {
				t.Errorf("__module__ changed between accesses")
			}
		})
	}
}

func TestMethodDescriptorExposesNoModule(t *testing.T) {
	ctx := NewContext()
	owner := ctx.RegisterClass("Widget", nil)
	descr := NewMethodWithName(ctx, nopNative, "poke", owner)

	if _, err := ctx.GetAttr(descr, "__module__"); err == nil {
		t.Fatal("method descriptor exposed __module__, want attribute error")
	} else {
		var attrErr *AttributeError
		if !errors.As(err, &attrErr) {
			t.Errorf("error = %v, want AttributeError", err)
		}
	}

	name, err := ctx.GetAttr(descr, "__name__")
	if err != nil {
		t.Fatalf("GetAttr(__name__) failed: %v", err)
	}
	if name.AsString() != "poke" {
		t.Errorf("__name__ = %s, want poke", name.AsString())
	}
}

func TestDescrGetWithInstanceBinds(t *testing.T) {
	ctx := NewContext()
	owner := ctx.RegisterClass("Widget", nil)

	calls := 0
	var got *Args
	descr := NewFuncDef(countingFunc(&calls, &got, StringValue("ok"), nil)).
		WithName(ctx, "poke").
		BuildMethod(ctx, owner)
	owner.SetAttr("poke", descr)

	instance := ctx.NewInstance(owner, nil)
	bound, err := ctx.GetAttr(instance, "poke")
	if err != nil {
		t.Fatalf("GetAttr failed: %v", err)
	}

	bm, ok := bound.Obj().Payload().(*BoundMethod)
	if !ok {
		t.Fatalf("attribute access yielded %T, want a bound method", bound.Obj().Payload())
	}
	if !bm.Target().Is(instance) {
		t.Errorf("bound target is not the instance")
	}
	if !bm.Func().Is(descr) {
		t.Errorf("bound method does not share the descriptor")
	}

	// Invoking the bound method forwards to the same entry point, with the
	// instance supplied as the first argument.
	result, err := ctx.Call(bound, NewArgs(IntValue(7)))
	if err != nil {
		t.Fatalf("bound call failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("entry point called %d times, want 1", calls)
	}
	if !result.Is(StringValue("ok")) {
		t.Errorf("result = %s, want ok", result.AsString())
	}
	if got.Len() != 2 || !got.Get(0).Is(instance) || !got.Get(1).Is(IntValue(7)) {
		t.Errorf("entry point received %d args, want (instance, 7)", got.Len())
	}
}

func TestDescrGetThroughClassReturnsSelf(t *testing.T) {
	ctx := NewContext()
	owner := ctx.RegisterClass("Widget", nil)
	descr := NewMethodWithName(ctx, nopNative, "poke", owner)
	owner.SetAttr("poke", descr)

	got, err := ctx.GetClassAttr(owner, "poke")
	if err != nil {
		t.Fatalf("GetClassAttr failed: %v", err)
	}
	if !got.Is(descr) {
		t.Errorf("class-level access yielded a different value, want the descriptor itself")
	}
}

func TestDescrGetSubclassInstanceBinds(t *testing.T) {
	ctx := NewContext()
	owner := ctx.RegisterClass("Widget", nil)
	sub := ctx.RegisterClass("Gadget", owner)
	descr := NewMethodWithName(ctx, nopNative, "poke", owner)
	owner.SetAttr("poke", descr)

	instance := ctx.NewInstance(sub, nil)
	bound, err := ctx.GetAttr(instance, "poke")
	if err != nil {
		t.Fatalf("GetAttr on subclass instance failed: %v", err)
	}
	if _, ok := bound.Obj().Payload().(*BoundMethod); !ok {
		t.Errorf("subclass access yielded %T, want a bound method", bound.Obj().Payload())
	}
}

func TestDescrGetUnrelatedInstanceFails(t *testing.T) {
	ctx := NewContext()
	owner := ctx.RegisterClass("Widget", nil)
	other := ctx.RegisterClass("Unrelated", nil)

	descr := NewMethodWithName(ctx, nopNative, "poke", owner)
	m := descr.Obj().Payload().(*BuiltinMethod)

	stranger := ctx.NewInstance(other, nil)
	_, err := m.DescrGet(ctx, descr.Obj(), stranger, other)
	if err == nil {
		t.Fatal("descriptor access through an unrelated class succeeded, want type error")
	}
	var typeErr *TypeError
	if !errors.As(err, &typeErr) {
		t.Errorf("error = %v, want TypeError", err)
	}
	if !strings.Contains(err.Error(), "poke") || !strings.Contains(err.Error(), "Unrelated") {
		t.Errorf("error %q should name the descriptor and the offending class", err.Error())
	}
}

func TestRepeatedAccessAllocatesFreshBoundMethods(t *testing.T) {
	ctx := NewContext()
	owner := ctx.RegisterClass("Widget", nil)
	descr := NewMethodWithName(ctx, nopNative, "poke", owner)
	owner.SetAttr("poke", descr)

	instance := ctx.NewInstance(owner, nil)
	first, err := ctx.GetAttr(instance, "poke")
	if err != nil {
		t.Fatal(err)
	}
	second, err := ctx.GetAttr(instance, "poke")
	if err != nil {
		t.Fatal(err)
	}

	if first.Is(second) {
		t.Errorf("two accesses returned the identical bound method, want fresh allocations")
	}

	a := first.Obj().Payload().(*BoundMethod)
	b := second.Obj().Payload().(*BoundMethod)
	if !a.Func().Is(b.Func()) || !a.Target().Is(b.Target()) {
		t.Errorf("two accesses are not behaviorally equal")
	}
}

func TestMethodDescriptorInvokeMatchesDirectCall(t *testing.T) {
	ctx := NewContext()
	owner := ctx.RegisterClass("Widget", nil)

	calls := 0
	descr := NewFuncDef(countingFunc(&calls, nil, IntValue(5), nil)).
		WithName(ctx, "poke").
		BuildMethod(ctx, owner)

	// The descriptor is itself callable: same capability, same forwarding.
	result, err := ctx.Call(descr, NewArgs())
	if err != nil {
		t.Fatalf("direct call on descriptor failed: %v", err)
	}
	if calls != 1 || !result.Is(IntValue(5)) {
		t.Errorf("direct call: calls=%d result=%s, want 1 and 5", calls, result.AsString())
	}
}

func TestEndToEndPlainFunction(t *testing.T) {
	ctx := NewContext()
	module := ctx.NewModule("builtins")

	entry := func(ctx *Context, args *Args) (Value, error) {
		return IntValue(int64(len(args.Get(0).AsString()))), nil
	}
	fn, err := ctx.AddFunction(module, NewFuncDef(entry).
		WithName(ctx, "len").
		WithDoc(ctx, "return length"))
	if err != nil {
		t.Fatalf("AddFunction failed: %v", err)
	}

	name, _ := ctx.GetAttr(fn, "__name__")
	if name.AsString() != "len" {
		t.Errorf("__name__ = %s, want len", name.AsString())
	}
	doc, _ := ctx.GetAttr(fn, "__doc__")
	if doc.AsString() != "return length" {
		t.Errorf("__doc__ = %s, want %q", doc.AsString(), "return length")
	}
	mod, _ := ctx.GetAttr(fn, "__module__")
	if !mod.Is(module) {
		t.Errorf("__module__ is not the attached module")
	}

	result, err := ctx.Call(fn, NewArgs(StringValue("hello")))
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if result.AsInt() != 5 {
		t.Errorf("len(\"hello\") = %d, want 5", result.AsInt())
	}
}

func TestEndToEndMethodDescriptor(t *testing.T) {
	ctx := NewContext()
	list := ctx.RegisterClass("List", nil)

	var received []Value
	entry := func(ctx *Context, args *Args) (Value, error) {
		received = append(received[:0], args.Positional...)
		return NilValue(), nil
	}
	list.SetAttr("append", NewFuncDef(entry).WithName(ctx, "append").BuildMethod(ctx, list))

	l := ctx.NewInstance(list, nil)
	m, err := ctx.GetAttr(l, "append")
	if err != nil {
		t.Fatalf("GetAttr failed: %v", err)
	}

	v := StringValue("item")
	if _, err := ctx.Call(m, NewArgs(v)); err != nil {
		t.Fatalf("bound call failed: %v", err)
	}
	if len(received) != 2 || !received[0].Is(l) || !received[1].Is(v) {
		t.Errorf("entry point received %v, want (l, v)", received)
	}
}

func nopNative(ctx *Context, args *Args) (Value, error) {
	return NilValue(), nil
}
