package flow

import (
	"context"

	"github.com/zombor/boleto-client/internal/api"
)

// Stage identifies where in the flow an event was raised
type Stage string

const (
	StageAcquire  Stage = "acquire"
	StagePrecheck Stage = "precheck"
	StageUpload   Stage = "upload"
)

// Event is a user-facing error raised by the flow. Presenters decide how to render it.
type Event struct {
	Stage   Stage
	Message string
	Err     error
}

// LoadingIndicator is shown while a request is outstanding
type LoadingIndicator interface {
	Dismiss()
}

// Presenter renders flow feedback to the user
type Presenter interface {
	ShowLoading(message string) LoadingIndicator
	Alert(event Event)
}

// Prompter asks the user for a document password. A cancelled prompt returns "".
type Prompter interface {
	PromptPassword(ctx context.Context, message string) (string, error)
}

// Navigator moves the user to another view carrying the backend result
type Navigator interface {
	Navigate(ctx context.Context, route string, result api.Result) error
}

// Recorder keeps a record of successful uploads
type Recorder interface {
	Record(ctx context.Context, filename, contentType string, result api.Result) error
}
