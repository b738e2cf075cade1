package device

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// ErrCanceled indicates the user backed out of the image selection.
var ErrCanceled = errors.New("image selection canceled")

// ImagePicker selects an image and returns a local reference to it.
type ImagePicker interface {
	Pick(ctx context.Context) (string, error)
}

// PickerFunc adapts a function to the ImagePicker interface.
type PickerFunc func(ctx context.Context) (string, error)

func (f PickerFunc) Pick(ctx context.Context) (string, error) {
	return f(ctx)
}

// FilePicker resolves a preselected path, verifying it exists and holds
// image data. An empty path is a cancellation.
type FilePicker struct {
	Path string
}

func (p FilePicker) Pick(_ context.Context) (string, error) {
	if p.Path == "" {
		return "", ErrCanceled
	}

	f, err := os.Open(p.Path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	// Sniff the first 512 bytes; extensions lie.
	buffer := make([]byte, 512)
	n, err := f.Read(buffer)
	if err != nil && n == 0 {
		return "", fmt.Errorf("read image: %w", err)
	}

	if contentType := http.DetectContentType(buffer[:n]); !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%s is not an image (detected %s)", p.Path, contentType)
	}

	return p.Path, nil
}
