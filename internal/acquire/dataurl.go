package acquire

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// CaptureFilename is the filename given to camera captures
const CaptureFilename = "foto-camera.png"

// DecodeDataURL converts a "data:<mime>;base64,<payload>" string into a Payload.
// The MIME type is the text between the first ':' and the first ';' of the header.
func DecodeDataURL(dataURL string) (*Payload, error) {
	header, encoded, found := strings.Cut(strings.TrimSpace(dataURL), ",")
	if !found {
		return nil, fmt.Errorf("%w: data URL has no payload separator", ErrInvalidMIME)
	}

	colon := strings.Index(header, ":")
	if colon == -1 {
		return nil, fmt.Errorf("%w: data URL header %q", ErrInvalidMIME, header)
	}
	semi := strings.Index(header[colon+1:], ";")
	if semi == -1 {
		return nil, fmt.Errorf("%w: data URL header %q", ErrInvalidMIME, header)
	}
	mimeType := header[colon+1 : colon+1+semi]
	if mimeType == "" {
		return nil, fmt.Errorf("%w: data URL header %q", ErrInvalidMIME, header)
	}

	data, err := decodeBase64(encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding data URL payload: %w", err)
	}

	return &Payload{
		Data:     data,
		Filename: CaptureFilename,
		MimeType: mimeType,
	}, nil
}

// EncodeDataURL builds a base64 data URL for the given bytes
func EncodeDataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// decodeBase64 accepts padded and unpadded standard base64
func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	data, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}
	if raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "=")); rawErr == nil {
		return raw, nil
	}
	return nil, err
}
