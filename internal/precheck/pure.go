package precheck

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"rsc.io/pdf"
)

// Pure checks PDFs with a pure Go reader, for builds without MuPDF
type Pure struct{}

// NewPure creates a new Pure checker
func NewPure() *Pure {
	return &Pure{}
}

// Check reads the cross-reference table and trailer of the document
func (p *Pure) Check(ctx context.Context, data []byte) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	// The reader panics on some truncated inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("opening PDF: malformed document: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		if isPasswordError(err) {
			return ErrPasswordProtected
		}
		return fmt.Errorf("opening PDF: %w", err)
	}

	slog.Debug("PDF opened", "checker", KindPure, "pages", r.NumPage())
	return nil
}

// isPasswordError treats encryption schemes the reader cannot open with an
// empty password the same as a wrong password
func isPasswordError(err error) bool {
	if errors.Is(err, pdf.ErrInvalidPassword) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "unsupported PDF: encryption")
}
