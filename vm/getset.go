package vm

// GetSet is a read-only property descriptor. The callable classes expose
// __name__, __doc__ and __module__ through getsets so that the values are
// computed from the payload on access rather than stored in attribute
// dicts.
type GetSet struct {
	name string
	get  func(ctx *Context, recv *Object) (Value, error)
}

var _ Descriptor = (*GetSet)(nil)

// newGetSet allocates a getset descriptor object.
func (ctx *Context) newGetSet(name string, get func(ctx *Context, recv *Object) (Value, error)) Value {
	return ObjectValue(NewObject(ctx.Types.GetSet, &GetSet{name: name, get: get}))
}

// DescrGet returns the computed property for an instance access, or the
// getset itself for class-level access.
func (g *GetSet) DescrGet(ctx *Context, descr *Object, instance Value, cls *Class) (Value, error) {
	if instance.IsNil() {
		return ObjectValue(descr), nil
	}
	recv := instance.Obj()
	if recv == nil {
		return Value{}, TypeErrorf("attribute '%s' requires an object receiver, got '%s'",
			g.name, instance.ClassOf(ctx).Name)
	}
	return g.get(ctx, recv)
}

// Name returns the property name.
func (g *GetSet) Name() string {
	return g.name
}
