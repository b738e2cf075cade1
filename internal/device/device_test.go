package device

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestStaticLocation(t *testing.T) {
	granted := StaticLocation{Coords: Coordinates{Latitude: 12.9, Longitude: 77.6}, Granted: true}
	got, err := granted.Current(context.Background())
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if got.Latitude != 12.9 || got.Longitude != 77.6 {
		t.Errorf("unexpected coordinates: %+v", got)
	}

	denied := StaticLocation{Granted: false}
	if _, err := denied.Current(context.Background()); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestFilePicker_EmptyPathIsCancel(t *testing.T) {
	if _, err := (FilePicker{}).Pick(context.Background()); !errors.Is(err, ErrCanceled) {
		t.Fatalf("expected ErrCanceled, got %v", err)
	}
}

func TestFilePicker_AcceptsImage(t *testing.T) {
	// Minimal PNG header is enough for content sniffing.
	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 13, 'I', 'H', 'D', 'R'}
	path := filepath.Join(t.TempDir(), "photo.png")
	if err := os.WriteFile(path, png, 0600); err != nil {
		t.Fatal(err)
	}

	got, err := FilePicker{Path: path}.Pick(context.Background())
	if err != nil {
		t.Fatalf("Pick failed: %v", err)
	}
	if got != path {
		t.Errorf("Pick = %q, want %q", got, path)
	}
}

func TestFilePicker_RejectsNonImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("just some text, definitely not pixels"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := (FilePicker{Path: path}).Pick(context.Background()); err == nil {
		t.Fatal("expected rejection of non-image file")
	}
}

func TestFilePicker_MissingFile(t *testing.T) {
	if _, err := (FilePicker{Path: "/no/such/file.png"}).Pick(context.Background()); err == nil {
		t.Fatal("expected error for missing file")
	}
}
