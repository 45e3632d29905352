package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedResponse is returned when a successful response body is not
// JSON or does not match the shape expected for the endpoint.
var ErrMalformedResponse = errors.New("malformed response")

// APIError is an HTTP failure reported by the server (status >= 400).
type APIError struct {
	Endpoint string
	Message  string          // server "error" field, or "HTTP <status>"
	Status   int             // HTTP status code
	Body     json.RawMessage // parsed body, nil when the body was not JSON
}

func (e *APIError) Error() string {
	return e.Message
}

// TransportError is a network-level failure: no status, no body.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request %s failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status carried by err, or 0 when there is none.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Details returns the raw error body carried by err, or nil.
func Details(err error) json.RawMessage {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Body
	}
	return nil
}

// newAPIError builds an APIError from a failed response body.
func newAPIError(endpoint string, status int, body []byte) *APIError {
	e := &APIError{
		Endpoint: endpoint,
		Message:  fmt.Sprintf("HTTP %d", status),
		Status:   status,
	}
	if !json.Valid(body) {
		return e
	}
	e.Body = json.RawMessage(body)

	var payload struct {
		Error any `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg, ok := payload.Error.(string); ok && msg != "" {
			e.Message = msg
		}
	}
	return e
}
