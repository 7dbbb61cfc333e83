package flow

import (
	"errors"
	"fmt"
)

// State is a step of the upload flow
type State string

const (
	StateIdle        State = "idle"
	StateAcquiring   State = "acquiring"
	StatePdfChecking State = "pdf_checking"
	StateUploading   State = "uploading"
	StateSuccess     State = "success"
	StateFailed      State = "failed"
)

var (
	// ErrInvalidTransition is returned when the flow is driven out of order
	ErrInvalidTransition = errors.New("invalid flow transition")
	// ErrBusy is returned when a flow is started while another is in progress
	ErrBusy = errors.New("an upload is already in progress")
)

// There is no retry edge: a failed upload goes back to idle and the user starts over.
var transitions = map[State][]State{
	StateIdle:        {StateAcquiring},
	StateAcquiring:   {StatePdfChecking, StateUploading, StateIdle},
	StatePdfChecking: {StateUploading, StateFailed},
	StateUploading:   {StateSuccess, StateFailed},
	StateSuccess:     {StateIdle},
	StateFailed:      {StateIdle},
}

func canTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func transitionError(from, to State) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
