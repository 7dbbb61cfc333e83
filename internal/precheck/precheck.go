// Package precheck opens PDF documents locally, without rendering, to find out
// whether they can be read as-is or need a password before being uploaded.
package precheck

import (
	"context"
	"errors"
	"fmt"
)

// ErrPasswordProtected is returned when a PDF cannot be opened without a password
var ErrPasswordProtected = errors.New("pdf is password protected")

// Checker parses a PDF document's structure
type Checker interface {
	// Check returns nil when the document opens, ErrPasswordProtected when it
	// needs a password, and any other error when it cannot be parsed at all
	Check(ctx context.Context, data []byte) error
}

// Kind names a Checker implementation
type Kind string

const (
	KindFitz Kind = "fitz"
	KindPure Kind = "pure"
)

// New builds the Checker for the given kind
func New(kind Kind) (Checker, error) {
	switch kind {
	case KindFitz, "":
		return NewFitz(), nil
	case KindPure:
		return NewPure(), nil
	default:
		return nil, fmt.Errorf("unknown pdf checker %q (valid: %s, %s)", kind, KindFitz, KindPure)
	}
}
