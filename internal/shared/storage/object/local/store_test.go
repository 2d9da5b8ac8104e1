package local

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"docsum-backend/internal/shared/storage/object"
)

func TestSaveAndOpenRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	key, size, mimeType, err := store.Save(ctx, "uploads/abc", "notes.txt", strings.NewReader("hello world"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(key, "uploads/abc/") || !strings.HasSuffix(key, "_notes.txt") {
		t.Fatalf("unexpected key %q", key)
	}
	if size != int64(len("hello world")) {
		t.Fatalf("expected size 11, got %d", size)
	}
	if !strings.HasPrefix(mimeType, "text/plain") {
		t.Fatalf("expected text/plain, got %q", mimeType)
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "hello world" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestOpenMissingReturnsNotFound(t *testing.T) {
	store := New(t.TempDir())
	_, err := store.Open(context.Background(), "uploads/none.txt")
	if !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()
	if _, err := store.Open(ctx, "../secret"); err == nil {
		t.Fatalf("expected traversal key to be rejected")
	}
	if _, _, _, err := store.Save(ctx, "../up", "a.txt", strings.NewReader("x")); err == nil {
		t.Fatalf("expected traversal namespace to be rejected")
	}
}
