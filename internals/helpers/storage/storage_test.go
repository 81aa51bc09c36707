package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStorePutDelete(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStore(root, "/storage")
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	p, err := s.Put(context.Background(), BucketEventImages, "a.webp", []byte("data"), "image/webp")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if p != "/storage/events/images/a.webp" {
		t.Fatalf("unexpected path %q", p)
	}
	if _, err := os.Stat(filepath.Join(root, "events", "images", "a.webp")); err != nil {
		t.Fatalf("file not written: %v", err)
	}

	if err := s.Delete(context.Background(), p); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "events", "images", "a.webp")); !os.IsNotExist(err) {
		t.Fatalf("file still present: %v", err)
	}
	// deleting twice is fine
	if err := s.Delete(context.Background(), p); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	s, _ := NewLocalStore(t.TempDir(), "/storage")
	if err := s.Delete(context.Background(), "/storage/../etc/passwd"); err == nil {
		t.Fatal("expected error for traversal path")
	}
}

func TestPutRejectsEmptyPayload(t *testing.T) {
	m := NewMemoryStore()
	if _, err := m.Put(context.Background(), "b", "f", nil, ""); !errors.Is(err, ErrEmptyPayload) {
		t.Fatalf("want ErrEmptyPayload, got %v", err)
	}
}

func TestCleanupRemovesStoredBlobs(t *testing.T) {
	m := NewMemoryStore()
	p1, _ := m.Put(context.Background(), "b", "one", []byte{1}, "")
	p2, _ := m.Put(context.Background(), "b", "two", []byte{2}, "")

	Cleanup(context.Background(), m, p1, "", p2)
	if m.Len() != 0 {
		t.Fatalf("expected empty store, got %d objects", m.Len())
	}
}

func TestUniqueFilename(t *testing.T) {
	a := UniqueFilename("my photo (1).png")
	b := UniqueFilename("my photo (1).png")
	if a == b {
		t.Fatal("filenames should differ")
	}
	if !strings.HasSuffix(a, "my_photo_1_.png") {
		t.Fatalf("unexpected sanitized name %q", a)
	}
	if got := WebPFilename(a); !strings.HasSuffix(got, "my_photo_1_.webp") {
		t.Fatalf("unexpected webp name %q", got)
	}
}

func TestExtractPublicID(t *testing.T) {
	cases := map[string]string{
		"https://res.cloudinary.com/demo/image/upload/v1234567890/events/images/abc.webp": "events/images/abc",
		"https://res.cloudinary.com/demo/image/upload/profile-images/me.webp":             "profile-images/me",
	}
	for in, want := range cases {
		got, err := extractPublicID(in)
		if err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if got != want {
			t.Fatalf("%s: got %q want %q", in, got, want)
		}
	}
	if _, err := extractPublicID("https://example.com/nothing"); err == nil {
		t.Fatal("expected error for non-cloudinary url")
	}
}

func TestConvertToWebPRejectsGarbage(t *testing.T) {
	_, err := ConvertToWebP([]byte("definitely not an image"), "x.png", DefaultWebPOptions())
	if !errors.Is(err, ErrUnsupportedImage) {
		t.Fatalf("want ErrUnsupportedImage, got %v", err)
	}
}
