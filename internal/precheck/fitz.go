package precheck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gen2brain/go-fitz"
)

// Fitz checks PDFs with MuPDF
type Fitz struct{}

// NewFitz creates a new Fitz checker
func NewFitz() *Fitz {
	return &Fitz{}
}

// Check opens the document from memory and counts its pages
func (f *Fitz) Check(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		if errors.Is(err, fitz.ErrNeedsPassword) {
			return ErrPasswordProtected
		}
		return fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	slog.Debug("PDF opened", "checker", KindFitz, "pages", doc.NumPage())
	return nil
}
