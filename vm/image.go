package vm

import (
	"fmt"
	"sort"

	"github.com/fxamacker/cbor/v2"
)

// ---------------------------------------------------------------------------
// Image: snapshot of a context's callable surface
// ---------------------------------------------------------------------------

// An image records the modules, classes and callables a context was booted
// with: names, docstrings and where each callable is installed. Native
// entry points are host Go functions and cannot be serialized; restoring
// an image installs stubs that fail until the host re-registers the real
// entry points.

// ImageVersion is the current image format version.
const ImageVersion = 1

// Callable kinds recorded in an image.
const (
	ImageKindFunction    = "function"
	ImageKindMethod      = "method"
	ImageKindClassMethod = "classmethod"
)

// ImageFunc records one callable: its name, docstring and kind.
type ImageFunc struct {
	Name string `cbor:"name"`
	Doc  string `cbor:"doc,omitempty"`
	Kind string `cbor:"kind"`
}

// ImageModule records a module and its functions.
type ImageModule struct {
	Name      string      `cbor:"name"`
	Functions []ImageFunc `cbor:"functions,omitempty"`
}

// ImageClass records a class, its superclass and its method descriptors.
type ImageClass struct {
	Name       string      `cbor:"name"`
	Superclass string      `cbor:"superclass,omitempty"`
	Methods    []ImageFunc `cbor:"methods,omitempty"`
}

// Image is a serializable snapshot of a context's callable surface.
type Image struct {
	Version int           `cbor:"version"`
	Strings []string      `cbor:"strings,omitempty"`
	Modules []ImageModule `cbor:"modules,omitempty"`
	Classes []ImageClass  `cbor:"classes,omitempty"`
}

// cborEncMode uses canonical encoding for deterministic images.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("vm: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalImage serializes an image to CBOR bytes.
func MarshalImage(img *Image) ([]byte, error) {
	return cborEncMode.Marshal(img)
}

// UnmarshalImage deserializes an image from CBOR bytes.
func UnmarshalImage(data []byte) (*Image, error) {
	var img Image
	if err := cbor.Unmarshal(data, &img); err != nil {
		return nil, fmt.Errorf("vm: unmarshal image: %w", err)
	}
	if img.Version != ImageVersion {
		return nil, fmt.Errorf("vm: unsupported image version %d", img.Version)
	}
	return &img, nil
}

// ---------------------------------------------------------------------------
// Snapshot
// ---------------------------------------------------------------------------

// Snapshot captures the context's modules, classes and interned strings
// into an image. Output ordering is sorted so that identical contexts
// produce identical images.
func Snapshot(ctx *Context) *Image {
	img := &Image{
		Version: ImageVersion,
		Strings: ctx.strings.All(),
	}

	names := ctx.ModuleNames()
	sort.Strings(names)
	for _, name := range names {
		module, _ := ctx.Module(name)
		img.Modules = append(img.Modules, snapshotModule(name, module))
	}

	for _, cls := range ctx.Classes() {
		ic := snapshotClass(cls)
		if len(ic.Methods) == 0 && isBootClass(ctx, cls) {
			continue
		}
		img.Classes = append(img.Classes, ic)
	}
	sort.Slice(img.Classes, func(i, j int) bool {
		return img.Classes[i].Name < img.Classes[j].Name
	})

	return img
}

func snapshotModule(name string, module Value) ImageModule {
	im := ImageModule{Name: name}
	obj := module.Obj()
	if obj == nil {
		return im
	}
	for attr, v := range obj.Attrs() {
		fo := v.Obj()
		if fo == nil {
			continue
		}
		f, ok := fo.Payload().(*BuiltinFunction)
		if !ok {
			continue
		}
		im.Functions = append(im.Functions, ImageFunc{
			Name: attr,
			Doc:  docText(f.DocValue()),
			Kind: ImageKindFunction,
		})
	}
	sort.Slice(im.Functions, func(i, j int) bool {
		return im.Functions[i].Name < im.Functions[j].Name
	})
	return im
}

func snapshotClass(cls *Class) ImageClass {
	ic := ImageClass{Name: cls.Name}
	if cls.Superclass != nil {
		ic.Superclass = cls.Superclass.Name
	}
	for attr, v := range cls.OwnAttrs() {
		obj := v.Obj()
		if obj == nil {
			continue
		}
		switch p := obj.Payload().(type) {
		case *BuiltinMethod:
			ic.Methods = append(ic.Methods, ImageFunc{
				Name: attr,
				Doc:  docText(p.DocValue()),
				Kind: ImageKindMethod,
			})
		case *ClassMethod:
			doc := ""
			if inner := p.Callable().Obj(); inner != nil {
				if m, ok := inner.Payload().(*BuiltinMethod); ok {
					doc = docText(m.DocValue())
				}
			}
			ic.Methods = append(ic.Methods, ImageFunc{
				Name: attr,
				Doc:  doc,
				Kind: ImageKindClassMethod,
			})
		}
	}
	sort.Slice(ic.Methods, func(i, j int) bool {
		return ic.Methods[i].Name < ic.Methods[j].Name
	})
	return ic
}

// docText extracts a docstring for serialization; an absent doc is "".
func docText(doc Value) string {
	if doc.IsNil() {
		return ""
	}
	return doc.AsString()
}

func isBootClass(ctx *Context, cls *Class) bool {
	t := ctx.Types
	switch cls {
	case t.Object, t.Type, t.None, t.Bool, t.Int, t.Float, t.Str, t.Module,
		t.BuiltinFunction, t.MethodDescriptor, t.BoundMethod, t.ClassMethod,
		t.GetSet:
		return true
	}
	return false
}

// ---------------------------------------------------------------------------
// Restore
// ---------------------------------------------------------------------------

// missingNative returns a stub entry point for a callable restored from an
// image. It fails until the host re-registers the real function.
func missingNative(name string) NativeFunc {
	return func(ctx *Context, args *Args) (Value, error) {
		return Value{}, fmt.Errorf("native function %s is missing", name)
	}
}

// Restore rebuilds the module and class surface recorded in an image.
// Classes that already exist in the context are reused; restored callables
// get missing-native stubs.
func Restore(ctx *Context, img *Image) error {
	for _, text := range img.Strings {
		ctx.strings.Intern(text)
	}

	for _, im := range img.Modules {
		module := ctx.NewModule(im.Name)
		for _, fn := range im.Functions {
			def := NewFuncDef(missingNative(fn.Name)).WithName(ctx, fn.Name)
			if fn.Doc != "" {
				def = def.WithDoc(ctx, fn.Doc)
			}
			if _, err := ctx.AddFunction(module, def); err != nil {
				return fmt.Errorf("vm: restore module %s: %w", im.Name, err)
			}
		}
	}

	// Classes are recorded in name order, so a subclass can precede its
	// superclass. Create every class first, then link chains and install
	// methods.
	created := make(map[string]*Class)
	for _, ic := range img.Classes {
		if _, ok := ctx.ClassByName(ic.Name); !ok {
			created[ic.Name] = ctx.RegisterClass(ic.Name, nil)
		}
	}
	for _, ic := range img.Classes {
		cls, _ := ctx.ClassByName(ic.Name)
		if fresh, ok := created[ic.Name]; ok && ic.Superclass != "" {
			super, found := ctx.ClassByName(ic.Superclass)
			if !found {
				return fmt.Errorf("vm: restore class %s: unknown superclass %q", ic.Name, ic.Superclass)
			}
			fresh.Superclass = super
		}
		for _, m := range ic.Methods {
			def := NewFuncDef(missingNative(m.Name)).WithName(ctx, m.Name)
			if m.Doc != "" {
				def = def.WithDoc(ctx, m.Doc)
			}
			switch m.Kind {
			case ImageKindMethod:
				cls.SetAttr(m.Name, def.BuildMethod(ctx, cls))
			case ImageKindClassMethod:
				cls.SetAttr(m.Name, def.BuildClassMethod(ctx, cls))
			default:
				return fmt.Errorf("vm: restore class %s: unknown callable kind %q", ic.Name, m.Kind)
			}
		}
	}

	ctx.log.Infof("restored image: %d modules, %d classes", len(img.Modules), len(img.Classes))
	return nil
}
