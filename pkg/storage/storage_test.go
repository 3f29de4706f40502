package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/onionoriginals/sdk-go/pkg/crypto"
)

func testAdapters(t *testing.T) map[string]Adapter {
	t.Helper()
	fs, err := NewFilesystem(filepath.Join(t.TempDir(), "store"))
	if err != nil {
		t.Fatalf("NewFilesystem: %v", err)
	}
	return map[string]Adapter{
		"memory":     NewMemory(),
		"filesystem": fs,
	}
}

func TestAdapterPutGetDelete(t *testing.T) {
	for name, a := range testAdapters(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			content := []byte("hello originals")
			key := crypto.Sha256Hex(content)

			if err := a.Put(ctx, key, content); err != nil {
				t.Fatalf("Put: %v", err)
			}
			got, err := a.Get(ctx, key)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if string(got) != string(content) {
				t.Fatalf("got %q, want %q", got, content)
			}
			exists, err := a.Exists(ctx, key)
			if err != nil || !exists {
				t.Fatalf("Exists = %v, %v", exists, err)
			}
			if err := a.Delete(ctx, key); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := a.Get(ctx, key); err != ErrNotFound {
				t.Fatalf("expected ErrNotFound after delete, got %v", err)
			}
		})
	}
}

func TestAdapterRejectsMismatchedKey(t *testing.T) {
	for name, a := range testAdapters(t) {
		t.Run(name, func(t *testing.T) {
			err := a.Put(context.Background(), crypto.Sha256Hex([]byte("other")), []byte("hello"))
			if err == nil {
				t.Fatal("expected error for key/content mismatch")
			}
		})
	}
}

func TestFilesystemRejectsPathTraversal(t *testing.T) {
	fs, err := NewFilesystem(filepath.Join(t.TempDir(), "store"))
	if err != nil {
		t.Fatalf("NewFilesystem: %v", err)
	}
	_, err = fs.pathFor("../../../etc/passwd")
	if err != ErrPathTraversal {
		t.Fatalf("expected ErrPathTraversal, got %v", err)
	}
}
