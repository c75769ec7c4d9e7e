package session

import (
	"os"
	"path/filepath"
	"testing"
)

func stores(t *testing.T) map[string]Store {
	dir := t.TempDir()
	return map[string]Store{
		"file":   NewFileStore(filepath.Join(dir, "nested", "session.json")),
		"memory": NewMemoryStore(""),
	}
}

func TestStoreLifecycle(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok := s.Load(); ok {
				t.Fatal("new store reports a credential")
			}

			if err := s.Save("abc.def.ghi"); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			tok, ok := s.Load()
			if !ok || tok != "abc.def.ghi" {
				t.Fatalf("Load() = %q, %v", tok, ok)
			}

			if err := s.Save("second"); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			if tok, _ := s.Load(); tok != "second" {
				t.Errorf("Load() after overwrite = %q", tok)
			}

			if err := s.Clear(); err != nil {
				t.Fatalf("Clear() error = %v", err)
			}
			if _, ok := s.Load(); ok {
				t.Error("credential present after Clear()")
			}

			// idempotent
			if err := s.Clear(); err != nil {
				t.Errorf("second Clear() error = %v", err)
			}
			if _, ok := s.Load(); ok {
				t.Error("credential present after second Clear()")
			}
		})
	}
}

func TestFileStoreSharedBetweenInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	a := NewFileStore(path)
	b := NewFileStore(path)

	if err := a.Save("tok"); err != nil {
		t.Fatal(err)
	}
	if tok, ok := b.Load(); !ok || tok != "tok" {
		t.Errorf("other instance Load() = %q, %v", tok, ok)
	}

	if err := b.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, ok := a.Load(); ok {
		t.Error("first instance still sees credential")
	}
}

func TestFileStorePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewFileStore(path)
	if err := s.Save("tok"); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("mode = %o, want 600", perm)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, ok := NewFileStore(path).Load(); ok {
		t.Error("corrupt file reported as credential")
	}
}
