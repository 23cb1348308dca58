package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewCleansRoot(t *testing.T) {
	s := New("/var/data//mirror/")
	if got := s.Root(); got != "/var/data/mirror" {
		t.Errorf("Root() = %q, want %q", got, "/var/data/mirror")
	}
}

func TestWrite(t *testing.T) {
	root := t.TempDir()
	s := New(root)

	path, err := s.Write("invoices", "march.csv", []byte("a,b,c\n"))
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	want := filepath.Join(root, "invoices", "march.csv")
	if path != want {
		t.Errorf("Write() path = %q, want %q", path, want)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if string(data) != "a,b,c\n" {
		t.Errorf("written content = %q, want %q", data, "a,b,c\n")
	}
}

func TestWriteOverwrites(t *testing.T) {
	s := New(t.TempDir())

	if _, err := s.Write("docs", "note.txt", []byte("old")); err != nil {
		t.Fatalf("first Write() error: %v", err)
	}
	path, err := s.Write("docs", "note.txt", []byte("new"))
	if err != nil {
		t.Fatalf("second Write() error: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "new" {
		t.Errorf("content after overwrite = %q, want %q", data, "new")
	}
}

func TestWriteRejectsEscapes(t *testing.T) {
	root := t.TempDir()
	s := New(root)

	tests := []struct {
		name string
		sub  string
		file string
	}{
		{name: "traversal in file name", sub: "docs", file: "../evil.txt"},
		{name: "deep traversal in file name", sub: "docs", file: "../../../../tmp/evil.txt"},
		{name: "separator in file name", sub: "docs", file: "a/b.txt"},
		{name: "backslash in file name", sub: "docs", file: `a\b.txt`},
		{name: "dot dot file name", sub: "docs", file: ".."},
		{name: "empty file name", sub: "docs", file: ""},
		{name: "traversal in folder", sub: "../outside", file: "a.txt"},
		{name: "absolute-ish folder", sub: "../../etc", file: "passwd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Write(tt.sub, tt.file, []byte("x"))
			if !errors.Is(err, ErrOutsideRoot) {
				t.Fatalf("Write(%q, %q) error = %v, want ErrOutsideRoot", tt.sub, tt.file, err)
			}
		})
	}

	// Nothing may have leaked outside the root.
	parent := filepath.Dir(root)
	if _, err := os.Stat(filepath.Join(parent, "evil.txt")); !os.IsNotExist(err) {
		t.Error("traversal write escaped the store root")
	}
}

func TestEnsureDir(t *testing.T) {
	root := t.TempDir()
	s := New(root)

	dir, err := s.EnsureDir("reports")
	if err != nil {
		t.Fatalf("EnsureDir() error: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat created dir: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("EnsureDir() created %q which is not a directory", dir)
	}

	// Idempotent.
	if _, err := s.EnsureDir("reports"); err != nil {
		t.Errorf("second EnsureDir() error: %v", err)
	}
}

func TestEnsureDirRejectsEscape(t *testing.T) {
	s := New(t.TempDir())

	if _, err := s.EnsureDir("../elsewhere"); !errors.Is(err, ErrOutsideRoot) {
		t.Errorf("EnsureDir(\"../elsewhere\") error = %v, want ErrOutsideRoot", err)
	}
}

func TestWriteCreatesMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "not-yet-created")
	s := New(root)

	if _, err := s.Write("inbox", "f.bin", []byte{0x01}); err != nil {
		t.Fatalf("Write() with missing root error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "inbox", "f.bin")); err != nil {
		t.Errorf("expected file under lazily created root: %v", err)
	}
}
