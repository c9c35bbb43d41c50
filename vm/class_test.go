package vm

import "testing"

func TestClassAttrChain(t *testing.T) {
	base := NewClass("Base", nil)
	derived := NewClass("Derived", base)

	base.SetAttr("shared", StringValue("from base"))
	derived.SetAttr("own", StringValue("from derived"))

	tests := []struct {
		name   string
		cls    *Class
		attr   string
		want   string
		wantOK bool
	}{
		{"own attribute", derived, "own", "from derived", true},
		{"inherited attribute", derived, "shared", "from base", true},
		{"base does not see derived", base, "own", "", false},
		{"missing", derived, "nope", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.cls.Attr(tt.attr)
			if ok != tt.wantOK {
				t.Fatalf("Attr(%s) ok = %v, want %v", tt.attr, ok, tt.wantOK)
			}
			if ok && got.AsString() != tt.want {
				t.Errorf("Attr(%s) = %s, want %s", tt.attr, got.AsString(), tt.want)
			}
		})
	}
}

func TestClassShadowing(t *testing.T) {
	base := NewClass("Base", nil)
	derived := NewClass("Derived", base)

	base.SetAttr("x", IntValue(1))
	derived.SetAttr("x", IntValue(2))

	got, _ := derived.Attr("x")
	if got.AsInt() != 2 {
		t.Errorf("derived sees x = %d, want the shadowing value 2", got.AsInt())
	}
	got, _ = base.Attr("x")
	if got.AsInt() != 1 {
		t.Errorf("base sees x = %d, want 1", got.AsInt())
	}
}

func TestIsSubclassOf(t *testing.T) {
	a := NewClass("A", nil)
	b := NewClass("B", a)
	c := NewClass("C", b)
	other := NewClass("Other", nil)

	if !c.IsSubclassOf(a) || !c.IsSubclassOf(b) || !c.IsSubclassOf(c) {
		t.Error("subclass chain not reflexive/transitive")
	}
	if a.IsSubclassOf(c) {
		t.Error("superclass reported as subclass")
	}
	if c.IsSubclassOf(other) {
		t.Error("unrelated class reported as subclass")
	}
}

func TestClassAsValueIdentity(t *testing.T) {
	ctx := NewContext()
	cls := ctx.RegisterClass("Widget", nil)

	first := cls.AsValue(ctx)
	second := cls.AsValue(ctx)
	if !first.Is(second) {
		t.Error("class wrapper is not identity-stable")
	}
	if ClassFromValue(first) != cls {
		t.Error("ClassFromValue did not round-trip")
	}
	if ClassFromValue(IntValue(1)) != nil {
		t.Error("ClassFromValue on a non-class value should be nil")
	}
}
