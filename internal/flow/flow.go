// Package flow drives a single boleto upload from acquisition to the results view.
package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/zombor/boleto-client/internal/acquire"
	"github.com/zombor/boleto-client/internal/api"
	"github.com/zombor/boleto-client/internal/precheck"
)

const (
	// ResultRoute is where a successful upload navigates to
	ResultRoute = "/result"

	cameraLoadingMessage = "Enviando imagem..."
	fileLoadingMessage   = "Processando boleto..."
	passwordPrompt       = "Este PDF está protegido. Digite a senha do boleto:"
	uploadErrorPrefix    = "Erro ao processar o boleto: "
	pdfErrorPrefix       = "Erro ao processar o PDF: "
	unknownErrorMessage  = "Erro desconhecido"
)

// ErrAborted wraps acquisition failures, which are logged but never alerted
var ErrAborted = errors.New("upload flow aborted")

// Uploader submits a payload to the backend
type Uploader interface {
	UploadBoleto(ctx context.Context, payload *acquire.Payload) (api.Result, error)
}

// FilePicker selects a file from the device
type FilePicker interface {
	Pick(path string) (*acquire.Payload, error)
}

// Options tweak the flow
type Options struct {
	// ConvertHEIC re-encodes HEIC/HEIF captures as PNG before upload
	ConvertHEIC bool
	// OnStateChange is called after every transition
	OnStateChange func(from, to State)
	// Recorder, when set, is given every successful upload before navigation.
	// Its failures are logged and never block the results view.
	Recorder Recorder
}

// Flow runs one upload at a time
type Flow struct {
	uploader  Uploader
	checker   precheck.Checker
	prompter  Prompter
	presenter Presenter
	navigator Navigator
	opts      Options

	mu    sync.Mutex
	state State
	// selected is overwritten by every acquisition
	selected *acquire.Payload
}

// New creates a Flow in the idle state
func New(uploader Uploader, checker precheck.Checker, prompter Prompter, presenter Presenter, navigator Navigator, opts Options) *Flow {
	return &Flow{
		uploader:  uploader,
		checker:   checker,
		prompter:  prompter,
		presenter: presenter,
		navigator: navigator,
		opts:      opts,
		state:     StateIdle,
	}
}

// State returns the current state
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Selected returns the most recently acquired payload
func (f *Flow) Selected() *acquire.Payload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selected
}

func (f *Flow) transition(to State) error {
	f.mu.Lock()
	from := f.state
	if !canTransition(from, to) {
		f.mu.Unlock()
		return transitionError(from, to)
	}
	f.state = to
	f.mu.Unlock()

	f.notify(from, to)
	return nil
}

// begin moves from idle to acquiring, rejecting concurrent runs
func (f *Flow) begin() error {
	f.mu.Lock()
	if f.state != StateIdle {
		f.mu.Unlock()
		return ErrBusy
	}
	f.state = StateAcquiring
	f.mu.Unlock()

	f.notify(StateIdle, StateAcquiring)
	return nil
}

func (f *Flow) notify(from, to State) {
	slog.Debug("Upload flow transition", "from", from, "to", to)
	if f.opts.OnStateChange != nil {
		f.opts.OnStateChange(from, to)
	}
}

// UseCamera captures a photo and uploads it. Captures are images, so no precheck runs.
func (f *Flow) UseCamera(ctx context.Context, camera acquire.CameraSource) error {
	if err := f.begin(); err != nil {
		return err
	}

	payload, err := acquire.CapturePayload(ctx, camera)
	if err != nil {
		return f.abort("Erro ao capturar imagem", err)
	}
	payload, err = f.accept(payload)
	if err != nil {
		return f.abort("Erro ao capturar imagem", err)
	}

	if err := f.transition(StateUploading); err != nil {
		return err
	}
	return f.upload(ctx, payload, cameraLoadingMessage)
}

// SelectFile picks a file and uploads it, checking PDFs for password protection first
func (f *Flow) SelectFile(ctx context.Context, picker FilePicker, path string) error {
	if err := f.begin(); err != nil {
		return err
	}

	payload, err := picker.Pick(path)
	if err != nil {
		return f.abort("Erro ao selecionar arquivo", err)
	}
	payload, err = f.accept(payload)
	if err != nil {
		return f.abort("Erro ao selecionar arquivo", err)
	}

	if !payload.IsPDF() {
		if err := f.transition(StateUploading); err != nil {
			return err
		}
		return f.upload(ctx, payload, fileLoadingMessage)
	}

	if err := f.transition(StatePdfChecking); err != nil {
		return err
	}
	password, err := f.precheck(ctx, payload)
	if err != nil {
		return err
	}
	payload.Password = password

	if err := f.transition(StateUploading); err != nil {
		return err
	}
	return f.upload(ctx, payload, fileLoadingMessage)
}

// accept validates and records a freshly acquired payload
func (f *Flow) accept(payload *acquire.Payload) (*acquire.Payload, error) {
	if f.opts.ConvertHEIC {
		converted, err := acquire.NormalizeHEIC(payload)
		if err != nil {
			return nil, err
		}
		payload = converted
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	payload.Password = ""

	f.mu.Lock()
	f.selected = payload
	f.mu.Unlock()
	return payload, nil
}

// abort ends an acquisition silently
func (f *Flow) abort(msg string, err error) error {
	slog.Error(msg, "error", err)
	if tErr := f.transition(StateIdle); tErr != nil {
		return tErr
	}
	return fmt.Errorf("%w: %w", ErrAborted, err)
}

// precheck returns the password to upload with, or an error when the flow must stop
func (f *Flow) precheck(ctx context.Context, payload *acquire.Payload) (string, error) {
	err := f.checker.Check(ctx, payload.Data)
	if err == nil {
		return "", nil
	}

	if errors.Is(err, precheck.ErrPasswordProtected) {
		password, promptErr := f.prompter.PromptPassword(ctx, passwordPrompt)
		if promptErr != nil {
			slog.Warn("Password prompt failed, uploading without password", "error", promptErr)
			password = ""
		}
		// The backend validates the password
		return password, nil
	}

	return "", f.fail(Event{Stage: StagePrecheck, Message: pdfErrorPrefix + err.Error(), Err: err})
}

// upload submits the payload behind a loading indicator, then navigates or alerts
func (f *Flow) upload(ctx context.Context, payload *acquire.Payload, loadingMessage string) error {
	loading := f.presenter.ShowLoading(loadingMessage)
	result, err := f.uploader.UploadBoleto(ctx, payload)
	loading.Dismiss()

	if err != nil {
		return f.fail(Event{Stage: StageUpload, Message: uploadErrorPrefix + describeUploadError(err), Err: err})
	}

	slog.Info("Resposta do backend", "filename", payload.Filename, "bytes", len(result))
	if err := f.transition(StateSuccess); err != nil {
		return err
	}
	if f.opts.Recorder != nil {
		if err := f.opts.Recorder.Record(ctx, payload.Filename, payload.MimeType, result); err != nil {
			slog.Warn("Failed to record upload", "filename", payload.Filename, "error", err)
		}
	}
	navErr := f.navigator.Navigate(ctx, ResultRoute, result)
	if tErr := f.transition(StateIdle); tErr != nil {
		return tErr
	}
	if navErr != nil {
		return fmt.Errorf("navigating to results: %w", navErr)
	}
	return nil
}

// fail alerts the user and returns to idle
func (f *Flow) fail(event Event) error {
	if err := f.transition(StateFailed); err != nil {
		return err
	}
	f.presenter.Alert(event)
	if err := f.transition(StateIdle); err != nil {
		return err
	}
	return event.Err
}

// describeUploadError prefers the backend's own message
func describeUploadError(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return unknownErrorMessage
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return unknownErrorMessage
}
