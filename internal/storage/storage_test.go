package storage

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	content := "hello blobs"
	size, err := store.Put("items/abc", strings.NewReader(content))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if size != int64(len(content)) {
		t.Fatalf("expected size %d got %d", len(content), size)
	}

	rc, err := store.Get("items/abc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, []byte(content)) {
		t.Fatalf("expected %q got %q", content, got)
	}
}

func TestFileStoreDelete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	if _, err := store.Put("items/gone", strings.NewReader("x")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Delete("items/gone"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get("items/gone"); err == nil {
		t.Fatalf("expected error getting deleted blob")
	}

	// Deleting a key that never existed is not an error.
	if err := store.Delete("items/never"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}
