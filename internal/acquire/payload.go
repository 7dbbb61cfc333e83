package acquire

import (
	"errors"
	"fmt"
	"mime"
	"strings"
)

// ContentTypePDF is the MIME type that triggers the document precheck
const ContentTypePDF = "application/pdf"

var (
	// ErrEmptyPayload is returned when a payload carries no bytes
	ErrEmptyPayload = errors.New("payload has no data")
	// ErrInvalidMIME is returned when a MIME type is missing or malformed
	ErrInvalidMIME = errors.New("invalid MIME type")
	// ErrCancelled is returned when the user backs out of an acquisition
	ErrCancelled = errors.New("acquisition cancelled")
)

// Payload is a boleto document ready to be submitted
type Payload struct {
	Data     []byte
	Filename string
	MimeType string
	Password string
}

// Validate checks the payload can be submitted
func (p *Payload) Validate() error {
	if len(p.Data) == 0 {
		return ErrEmptyPayload
	}
	if strings.TrimSpace(p.MimeType) == "" {
		return ErrInvalidMIME
	}
	if _, _, err := mime.ParseMediaType(p.MimeType); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidMIME, p.MimeType)
	}
	return nil
}

// IsPDF reports whether the payload is a PDF document
func (p *Payload) IsPDF() bool {
	mediaType, _, err := mime.ParseMediaType(p.MimeType)
	if err != nil {
		return false
	}
	return mediaType == ContentTypePDF
}
