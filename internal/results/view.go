// Package results shows backend results and keeps a local history of them.
package results

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/zombor/boleto-client/internal/api"
)

// IDGenerator generates unique IDs for entries
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// View is the results surface. It prints results and records uploads when a store is set.
type View struct {
	out         io.Writer
	store       Store
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewView creates a View. store may be nil to disable history.
func NewView(out io.Writer, store Store) *View {
	return NewViewWithDeps(out, store, &defaultIDGenerator{}, &defaultTimeSource{})
}

// NewViewWithDeps creates a View with custom dependencies for testing
func NewViewWithDeps(out io.Writer, store Store, idGen IDGenerator, timeSrc TimeSource) *View {
	return &View{
		out:         out,
		store:       store,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// Navigate shows the result carried as navigation state
func (v *View) Navigate(ctx context.Context, route string, result api.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	slog.Debug("Showing result", "route", route)
	return Print(v.out, result)
}

// Record stores a successful upload in the history. It is a no-op without a store.
func (v *View) Record(ctx context.Context, filename, contentType string, result api.Result) error {
	if v.store == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	entry := &HistoryEntry{
		ID:          v.idGenerator.Generate(),
		Filename:    filename,
		ContentType: contentType,
		Result:      json.RawMessage(result),
		CreatedAt:   v.timeSource.Now(),
	}
	if err := v.store.SaveEntry(entry); err != nil {
		return fmt.Errorf("saving history entry %s: %w", entry.ID, err)
	}
	return nil
}

// Print writes a result as indented JSON
func Print(out io.Writer, result api.Result) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, result, "", "  "); err != nil {
		return fmt.Errorf("formatting result: %w", err)
	}
	buf.WriteByte('\n')
	if _, err := out.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	return nil
}
