package main

import (
	"fmt"

	"github.com/chazu/pyrite/vm"
)

// List is the native payload backing demo list objects.
type List struct {
	Items []vm.Value
}

// registerDemo installs a small builtins module and a list class so the
// inspect and save-image commands have a surface to work with.
func registerDemo(ctx *vm.Context) error {
	builtins := ctx.NewModule("builtins")

	if _, err := ctx.AddFunction(builtins, vm.NewFuncDef(nativeLen).
		WithName(ctx, "len").
		WithDoc(ctx, "Return the number of items in a container.")); err != nil {
		return err
	}
	if _, err := ctx.AddFunction(builtins, vm.NewFuncDef(nativePrint).
		WithName(ctx, "print").
		WithDoc(ctx, "Print values to standard output.")); err != nil {
		return err
	}

	list := ctx.RegisterClass("list", nil)
	list.SetAttr("append", vm.NewFuncDef(nativeListAppend).
		WithName(ctx, "append").
		WithDoc(ctx, "Append an item to the list.").
		BuildMethod(ctx, list))
	list.SetAttr("of", vm.NewFuncDef(nativeListOf).
		WithName(ctx, "of").
		WithDoc(ctx, "Build a list from the given items.").
		BuildClassMethod(ctx, list))
	return nil
}

func nativeLen(ctx *vm.Context, args *vm.Args) (vm.Value, error) {
	v := args.Get(0)
	if obj := v.Obj(); obj != nil {
		if l, ok := obj.Payload().(*List); ok {
			return vm.IntValue(int64(len(l.Items))), nil
		}
	}
	if v.Kind() == vm.KindString {
		return vm.IntValue(int64(len(v.AsString()))), nil
	}
	return vm.Value{}, vm.TypeErrorf("object of type '%s' has no len()", v.ClassOf(ctx).Name)
}

func nativePrint(ctx *vm.Context, args *vm.Args) (vm.Value, error) {
	for i := 0; i < args.Len(); i++ {
		if i > 0 {
			fmt.Print(" ")
		}
		fmt.Print(args.Get(i).AsString())
	}
	fmt.Println()
	return vm.NilValue(), nil
}

func nativeListAppend(ctx *vm.Context, args *vm.Args) (vm.Value, error) {
	self := args.Get(0).Obj()
	if self == nil {
		return vm.Value{}, vm.TypeErrorf("append requires a list receiver")
	}
	l, ok := self.Payload().(*List)
	if !ok {
		return vm.Value{}, vm.TypeErrorf("append requires a list receiver, got '%s'", self.Class().Name)
	}
	l.Items = append(l.Items, args.Get(1))
	return vm.NilValue(), nil
}

func nativeListOf(ctx *vm.Context, args *vm.Args) (vm.Value, error) {
	cls := vm.ClassFromValue(args.Get(0))
	if cls == nil {
		return vm.Value{}, vm.TypeErrorf("of requires a class receiver")
	}
	items := make([]vm.Value, 0, args.Len()-1)
	for i := 1; i < args.Len(); i++ {
		items = append(items, args.Get(i))
	}
	return ctx.NewInstance(cls, &List{Items: items}), nil
}
