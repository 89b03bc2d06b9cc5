package capture

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewManagerCreatesRoot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "capture")
	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if m.Root() != dir {
		t.Fatalf("Root() = %q, want %q", m.Root(), dir)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("capture root not created: %v", err)
	}
}

func TestNewManagerWithEmptyDirUsesTempRoot(t *testing.T) {
	m, err := NewManager("")
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if m.Root() == "" {
		t.Fatalf("expected a non-empty temp root")
	}
}

func TestPairCreatesDistinctFiles(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	p1, err := m.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p2, err := m.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p1.Close()
	defer p2.Close()

	if p1.StdoutPath == p2.StdoutPath {
		t.Fatalf("expected distinct stdout paths, got %q twice", p1.StdoutPath)
	}
	for _, path := range []string{p1.StdoutPath, p1.StderrPath, p2.StdoutPath, p2.StderrPath} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s to exist: %v", path, err)
		}
	}
}

func TestWriteTracebackPersistsContent(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	path, err := m.WriteTraceback("Traceback (most recent call last):\n  ...\nValueError: boom\n")
	if err != nil {
		t.Fatalf("WriteTraceback: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "Traceback (most recent call last):\n  ...\nValueError: boom\n" {
		t.Fatalf("content = %q", data)
	}
}
