package vm

// Descriptor is the capability interface for payloads that intercept
// attribute access. Only types that need binding semantics implement it;
// plain callables do not, so attribute access on them resolves through the
// generic lookup path.
//
// descr is the wrapper object the descriptor payload lives in (needed so a
// descriptor can return itself unbound), instance is the effective instance
// the access went through (nil value for class-level access), and cls is
// the class the attribute was requested on.
type Descriptor interface {
	DescrGet(ctx *Context, descr *Object, instance Value, cls *Class) (Value, error)
}

// DescrCheck is the shared validation step for descriptor access, used by
// every descriptor-capable type. It normalizes the access into an effective
// target: the nil value for class-level access, or the instance after
// verifying its class is the descriptor's owner or a subclass of it.
func DescrCheck(ctx *Context, descr *Object, instance Value, owner *Class) (Value, error) {
	if instance.IsNil() {
		return NilValue(), nil
	}
	if owner != nil {
		got := instance.ClassOf(ctx)
		if !got.IsSubclassOf(owner) {
			return Value{}, TypeErrorf(
				"descriptor '%s' for '%s' objects doesn't apply to a '%s' object",
				descrName(descr), owner.Name, got.Name)
		}
	}
	return instance, nil
}

// classIs reports whether cls is exactly other. A nil requested class never
// matches; it means the caller did not narrow the access to a class.
func classIs(cls, other *Class) bool {
	return cls != nil && cls == other
}

// descrName extracts a display name from a descriptor wrapper for error
// messages.
func descrName(descr *Object) string {
	type named interface{ Name() string }
	if descr != nil {
		if n, ok := descr.Payload().(named); ok {
			if name := n.Name(); name != "" {
				return name
			}
		}
	}
	return "?"
}
