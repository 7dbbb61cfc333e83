package acquire

import (
	"bytes"
	"fmt"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/gen2brain/heic"
)

// NormalizeHEIC re-encodes HEIC/HEIF payloads as PNG. Other payloads are returned unchanged.
func NormalizeHEIC(p *Payload) (*Payload, error) {
	if !isHEICFormat(p.Data) && !isHEICMimeType(p.MimeType) {
		return p, nil
	}

	img, err := heic.Decode(bytes.NewReader(p.Data))
	if err != nil {
		return nil, fmt.Errorf("decoding HEIC/HEIF image: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}

	return &Payload{
		Data:     buf.Bytes(),
		Filename: strings.TrimSuffix(p.Filename, filepath.Ext(p.Filename)) + ".png",
		MimeType: "image/png",
		Password: p.Password,
	}, nil
}

// isHEICFormat checks if the image data is in HEIC/HEIF format
func isHEICFormat(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	// ftyp box at offset 4 followed by the brand
	if string(data[4:8]) == "ftyp" {
		brand := string(data[8:12])
		if brand == "heic" || brand == "heif" || brand == "mif1" || brand == "msf1" {
			return true
		}
	}
	return false
}

// isHEICMimeType checks if the MIME type indicates HEIC/HEIF format
func isHEICMimeType(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	return strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif")
}
