package vm

import (
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *ImageStore {
	t.Helper()
	store, err := OpenImageStore(filepath.Join(t.TempDir(), "images.db"))
	if err != nil {
		t.Fatalf("OpenImageStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestImageStoreRoundTrip(t *testing.T) {
	store := openTestStore(t)
	img := Snapshot(demoContext(t))

	if err := store.Save("default", img); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load("default")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded.Modules) != len(img.Modules) || len(loaded.Classes) != len(img.Classes) {
		t.Errorf("loaded image differs: %d/%d modules, %d/%d classes",
			len(loaded.Modules), len(img.Modules), len(loaded.Classes), len(img.Classes))
	}
}

func TestImageStoreReplaceOnSave(t *testing.T) {
	store := openTestStore(t)

	if err := store.Save("x", &Image{Version: ImageVersion}); err != nil {
		t.Fatal(err)
	}
	if err := store.Save("x", Snapshot(demoContext(t))); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	loaded, err := store.Load("x")
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Modules) == 0 {
		t.Error("second save did not replace the stored image")
	}

	names, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != "x" {
		t.Errorf("List = %v, want [x]", names)
	}
}

func TestImageStoreMissing(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Load("nope")
	if !errors.Is(err, ErrImageNotFound) {
		t.Errorf("Load error = %v, want ErrImageNotFound", err)
	}
	if err := store.Delete("nope"); !errors.Is(err, ErrImageNotFound) {
		t.Errorf("Delete error = %v, want ErrImageNotFound", err)
	}
}

func TestImageStoreDelete(t *testing.T) {
	store := openTestStore(t)

	if err := store.Save("x", &Image{Version: ImageVersion}); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete("x"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Load("x"); !errors.Is(err, ErrImageNotFound) {
		t.Error("image still present after delete")
	}
}
