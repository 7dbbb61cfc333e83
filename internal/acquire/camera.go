package acquire

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// CameraSource produces a camera capture as a base64 data URL
type CameraSource interface {
	Capture(ctx context.Context) (string, error)
}

// ReaderCamera reads a captured data URL from a file, or stdin when the path is "-"
type ReaderCamera struct {
	path  string
	stdin io.Reader
}

// NewReaderCamera creates a ReaderCamera for the given path
func NewReaderCamera(path string, stdin io.Reader) *ReaderCamera {
	return &ReaderCamera{path: path, stdin: stdin}
}

// Capture reads the data URL. An empty capture means the user cancelled.
func (c *ReaderCamera) Capture(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var r io.Reader
	if c.path == "" || c.path == "-" {
		r = c.stdin
	} else {
		f, err := os.Open(c.path)
		if err != nil {
			return "", fmt.Errorf("opening capture: %w", err)
		}
		defer f.Close()
		r = f
	}

	if r == nil {
		return "", ErrCancelled
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading capture: %w", err)
	}

	dataURL := strings.TrimSpace(string(data))
	if dataURL == "" {
		return "", ErrCancelled
	}
	return dataURL, nil
}

// CapturePayload captures from the camera and decodes the data URL into a Payload
func CapturePayload(ctx context.Context, camera CameraSource) (*Payload, error) {
	dataURL, err := camera.Capture(ctx)
	if err != nil {
		return nil, err
	}
	return DecodeDataURL(dataURL)
}
