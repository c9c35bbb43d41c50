// Package vm implements the Pyrite object model: tagged values, classes,
// and the native-callable layer (builtin functions, method descriptors,
// bound methods) that exposes host Go functions as first-class values.
package vm

import (
	"strconv"
)

// Kind identifies the representation of a Value.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindObject
)

// Value is the Go representation of a Pyrite value.
//
// Immediates (nil, bool, int, float, string) are stored inline; everything
// else is a heap Object reference. The nil value doubles as Python-style
// "none": an absent attribute, an absent instance in descriptor access, and
// the none object itself are all KindNil.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	obj  *Object
}

// NilValue returns the nil value.
func NilValue() Value {
	return Value{kind: KindNil}
}

// BoolValue creates a boolean value.
func BoolValue(b bool) Value {
	if b {
		return Value{kind: KindBool, i: 1}
	}
	return Value{kind: KindBool}
}

// IntValue creates an integer value.
func IntValue(n int64) Value {
	return Value{kind: KindInt, i: n}
}

// FloatValue creates a float value.
func FloatValue(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// StringValue creates a string value.
func StringValue(s string) Value {
	return Value{kind: KindString, s: s}
}

// ObjectValue creates a heap object reference value.
func ObjectValue(obj *Object) Value {
	return Value{kind: KindObject, obj: obj}
}

// Kind returns the value's representation kind.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNil returns true if the value is nil (none).
func (v Value) IsNil() bool {
	return v.kind == KindNil
}

// IsObject returns true if the value is a heap object reference.
func (v Value) IsObject() bool {
	return v.kind == KindObject
}

// Obj returns the heap object, or nil for non-object values.
func (v Value) Obj() *Object {
	if v.kind != KindObject {
		return nil
	}
	return v.obj
}

// Is reports identity: pointer identity for objects, value identity for
// immediates. This is the "same object" test, not behavioral equality.
func (v Value) Is(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool, KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindString:
		return v.s == other.s
	case KindObject:
		return v.obj == other.obj
	default:
		return false
	}
}

// ClassOf returns the value's class in the given context.
func (v Value) ClassOf(ctx *Context) *Class {
	switch v.kind {
	case KindNil:
		return ctx.Types.None
	case KindBool:
		return ctx.Types.Bool
	case KindInt:
		return ctx.Types.Int
	case KindFloat:
		return ctx.Types.Float
	case KindString:
		return ctx.Types.Str
	case KindObject:
		return v.obj.Class()
	default:
		return ctx.Types.Object
	}
}

// IsTruthy returns true for values considered "true" in conditionals.
func (v Value) IsTruthy() bool {
	switch v.kind {
	case KindNil:
		return false
	case KindBool, KindInt:
		return v.i != 0
	case KindFloat:
		return v.f != 0
	case KindString:
		return v.s != ""
	default:
		return true
	}
}

// AsString converts the value to a display string.
func (v Value) AsString() string {
	switch v.kind {
	case KindNil:
		return "none"
	case KindBool:
		if v.i != 0 {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindString:
		return v.s
	case KindObject:
		return v.obj.String()
	default:
		return ""
	}
}

// AsInt converts the value to an integer, or 0 when not numeric.
func (v Value) AsInt() int64 {
	switch v.kind {
	case KindInt, KindBool:
		return v.i
	case KindFloat:
		return int64(v.f)
	default:
		return 0
	}
}
