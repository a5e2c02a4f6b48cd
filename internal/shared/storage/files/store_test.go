package files

import (
	"context"
	"os"
	"strings"
	"testing"
)

func TestSaveOverwritesSameName(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	path1, n, err := store.Save(context.Background(), "scan.png", strings.NewReader("first"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if n != int64(len("first")) {
		t.Fatalf("expected %d bytes written, got %d", len("first"), n)
	}

	path2, _, err := store.Save(context.Background(), "scan.png", strings.NewReader("second"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if path1 != path2 {
		t.Fatalf("expected same path for same name, got %q and %q", path1, path2)
	}

	data, err := os.ReadFile(path2)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "second" {
		t.Fatalf("expected overwrite, got %q", data)
	}
}

func TestRemoveDeletesFile(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	path, _, err := store.Save(context.Background(), "report.pdf", strings.NewReader("data"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Remove("report.pdf"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected file gone, stat err: %v", err)
	}
}

func TestPathRejectsTraversal(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	path, err := store.Path("../../etc/passwd")
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if strings.Contains(path, "..") {
		t.Fatalf("expected traversal stripped, got %q", path)
	}
}
