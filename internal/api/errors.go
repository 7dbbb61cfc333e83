package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError is returned when the backend answers with a non-2xx status
type APIError struct {
	StatusCode int
	Body       []byte
	// Message is the "error" field of a JSON error body, when present
	Message string
}

func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode, Body: body}

	var payload struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Error) > 0 {
		var msg string
		if err := json.Unmarshal(payload.Error, &msg); err == nil {
			apiErr.Message = msg
		} else if string(payload.Error) != "null" {
			apiErr.Message = string(payload.Error)
		}
	}
	return apiErr
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
	}
	body := strings.TrimSpace(string(e.Body))
	if body == "" {
		return fmt.Sprintf("api error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, body)
}
