package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRotatingWriterRotatesPastMaxSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "api.log")
	w, err := NewRotatingWriter(path, 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Close()

	if _, err := w.Write([]byte("first line that is long\n")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := w.Write([]byte("second\n")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	backup, err := os.ReadFile(path + ".1")
	if err != nil {
		t.Fatalf("expected backup file: %v", err)
	}
	if !strings.Contains(string(backup), "first line") {
		t.Fatalf("unexpected backup content %q", backup)
	}
	current, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected current file: %v", err)
	}
	if string(current) != "second\n" {
		t.Fatalf("unexpected current content %q", current)
	}
}
