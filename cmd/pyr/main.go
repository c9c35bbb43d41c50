// Pyrite CLI - inspect the native callable surface and manage image snapshots
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/tliron/commonlog"

	"github.com/chazu/pyrite/manifest"
	"github.com/chazu/pyrite/vm"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	verbosity := flag.Int("v", 0, "Log verbosity (0 = quiet)")
	dir := flag.String("C", ".", "Directory to search for pyrite.toml")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pyr [options] <command>\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  inspect      Print the registered modules, classes and callables\n")
		fmt.Fprintf(os.Stderr, "  save-image   Snapshot the callable surface into the image store\n")
		fmt.Fprintf(os.Stderr, "  load-image   Restore a snapshot and print the restored surface\n")
		fmt.Fprintf(os.Stderr, "  list-images  List stored images\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	m, err := manifest.FindAndLoad(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading manifest: %v\n", err)
		os.Exit(1)
	}
	if m == nil {
		m = &manifest.Manifest{Dir: *dir}
		m.Image.Store = ".pyrite/images.db"
		m.Image.Name = "default"
	}

	level := *verbosity
	if level == 0 {
		level = m.Log.Verbosity
	}
	commonlog.Configure(level, nil)

	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "inspect"
	}

	switch cmd {
	case "inspect":
		ctx := vm.NewContext()
		if err := registerDemo(ctx); err != nil {
			fatal(err)
		}
		printSurface(ctx)

	case "save-image":
		ctx := vm.NewContext()
		if err := registerDemo(ctx); err != nil {
			fatal(err)
		}
		store, err := vm.OpenImageStore(m.StorePath())
		if err != nil {
			fatal(err)
		}
		defer store.Close()
		if err := store.Save(m.Image.Name, vm.Snapshot(ctx)); err != nil {
			fatal(err)
		}
		fmt.Printf("Saved image %q to %s\n", m.Image.Name, m.StorePath())

	case "load-image":
		store, err := vm.OpenImageStore(m.StorePath())
		if err != nil {
			fatal(err)
		}
		defer store.Close()
		img, err := store.Load(m.Image.Name)
		if errors.Is(err, vm.ErrImageNotFound) {
			fmt.Fprintf(os.Stderr, "No image %q in %s (run save-image first)\n", m.Image.Name, m.StorePath())
			os.Exit(1)
		}
		if err != nil {
			fatal(err)
		}
		ctx := vm.NewContext()
		if err := vm.Restore(ctx, img); err != nil {
			fatal(err)
		}
		printSurface(ctx)

	case "list-images":
		store, err := vm.OpenImageStore(m.StorePath())
		if err != nil {
			fatal(err)
		}
		defer store.Close()
		names, err := store.List()
		if err != nil {
			fatal(err)
		}
		for _, name := range names {
			fmt.Println(name)
		}

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		flag.Usage()
		os.Exit(1)
	}
}

// printSurface dumps the registered modules and classes with the __name__,
// __doc__ and __module__ attributes each callable exposes.
func printSurface(ctx *vm.Context) {
	names := ctx.ModuleNames()
	sort.Strings(names)
	for _, name := range names {
		module, _ := ctx.Module(name)
		fmt.Printf("module %s\n", name)
		attrs := module.Obj().Attrs()
		keys := make([]string, 0, len(attrs))
		for k := range attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fn := attrs[k]
			if !vm.IsCallable(fn) {
				continue
			}
			doc, _ := ctx.GetAttr(fn, "__doc__")
			fmt.Printf("  %-12s %s\n", k, doc.AsString())
		}
	}

	for _, cls := range ctx.Classes() {
		attrs := cls.OwnAttrs()
		keys := make([]string, 0, len(attrs))
		for k, v := range attrs {
			if vm.IsCallable(v) || v.ClassOf(ctx) == ctx.Types.ClassMethod {
				keys = append(keys, k)
			}
		}
		if len(keys) == 0 {
			continue
		}
		sort.Strings(keys)
		fmt.Printf("class %s\n", cls.Name)
		for _, k := range keys {
			unbound, err := ctx.GetClassAttr(cls, k)
			if err != nil {
				continue
			}
			fmt.Printf("  %-12s %s\n", k, unbound.AsString())
		}
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
