package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidPublicID(t *testing.T) {
	cases := map[string]bool{
		"abc.jpg":          true,
		"":                 false,
		"..":               false,
		"../secret.txt":    false,
		"nested/photo.png": false,
		`win\photo.png`:    false,
	}
	for id, want := range cases {
		if got := ValidPublicID(id); got != want {
			t.Fatalf("ValidPublicID(%q) = %v, want %v", id, got, want)
		}
	}
}

func TestNewPublicIDKeepsLowercasedExtension(t *testing.T) {
	id := NewPublicID("Holiday.JPG")
	if !strings.HasSuffix(id, ".jpg") || !ValidPublicID(id) {
		t.Fatalf("unexpected public id %q", id)
	}
}

func TestLocalSaveAndDelete(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	store := NewLocal(root, "http://localhost:5000/")

	img, err := store.Save(context.Background(), "photo.png", "image/png", strings.NewReader("png"))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if img.URL != "http://localhost:5000/uploads/photo.png" || img.PublicID != "photo.png" {
		t.Fatalf("unexpected image %+v", img)
	}
	if _, err := os.Stat(filepath.Join(root, "photo.png")); err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}

	if err := store.Delete(context.Background(), "photo.png"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := store.Delete(context.Background(), "photo.png"); err != nil {
		t.Fatalf("deleting a missing file should succeed, got %v", err)
	}
}

func TestLocalRefusesTraversal(t *testing.T) {
	store := NewLocal(t.TempDir(), "")
	if err := store.Delete(context.Background(), "../outside.txt"); err != ErrInvalidPublicID {
		t.Fatalf("expected ErrInvalidPublicID, got %v", err)
	}
}

func TestPublicURL(t *testing.T) {
	aws := PublicURL(S3Config{Bucket: "b", Region: "eu-west-1"}, "properties/x.jpg")
	if aws != "https://b.s3.eu-west-1.amazonaws.com/properties/x.jpg" {
		t.Fatalf("unexpected aws url %s", aws)
	}
	spaces := PublicURL(S3Config{Bucket: "b", Endpoint: "https://fra1.digitaloceanspaces.com"}, "k")
	if spaces != "https://b.fra1.digitaloceanspaces.com/k" {
		t.Fatalf("unexpected spaces url %s", spaces)
	}
	minio := PublicURL(S3Config{Bucket: "b", Endpoint: "http://localhost:9000/"}, "k")
	if minio != "http://localhost:9000/b/k" {
		t.Fatalf("unexpected path-style url %s", minio)
	}
}
