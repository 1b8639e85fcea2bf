package core

import (
	"errors"
	"fmt"
)

// Error codes for domain errors.
const (
	ErrCodeInvalidNickname   = "invalid_nickname"
	ErrCodeAlreadyJoined     = "already_joined"
	ErrCodeNotJoined         = "not_joined"
	ErrCodeEmptyMessage      = "empty_message"
	ErrCodeInvalidTransition = "invalid_transition"

	// Remote boundary error codes
	ErrCodeTransportFailure  = "transport_failure"
	ErrCodeServerError       = "server_error"
	ErrCodeMalformedResponse = "malformed_response"
	ErrCodeSendError         = "send_error"
)

var (
	ErrInvalidNickname   = coreError(ErrCodeInvalidNickname, "nickname is required")
	ErrAlreadyJoined     = coreError(ErrCodeAlreadyJoined, "already joined")
	ErrNotJoined         = coreError(ErrCodeNotJoined, "not joined")
	ErrEmptyMessage      = coreError(ErrCodeEmptyMessage, "message is empty")
	ErrInvalidTransition = coreError(ErrCodeInvalidTransition, "invalid status transition")
	ErrTransportFailure  = coreError(ErrCodeTransportFailure, "transport failure")
	ErrServerError       = coreError(ErrCodeServerError, "server error")
	ErrMalformedResponse = coreError(ErrCodeMalformedResponse, "malformed response")
	ErrSendError         = coreError(ErrCodeSendError, "send failed")
)

// CoreError wraps a code and human-readable message, optionally with a cause.
type CoreError struct {
	Code    string
	Message string
	Err     error
}

func (e *CoreError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *CoreError) Unwrap() error {
	return e.Err
}

// Is matches any CoreError carrying the same code.
func (e *CoreError) Is(target error) bool {
	t, ok := target.(*CoreError)
	return ok && t.Code == e.Code
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}

// TransportFailure reports that the remote log could not be reached.
func TransportFailure(err error) *CoreError {
	return &CoreError{Code: ErrCodeTransportFailure, Message: "cannot reach chat backend", Err: err}
}

// ServerError reports a non-success status code from the remote log.
func ServerError(status int) *CoreError {
	return &CoreError{Code: ErrCodeServerError, Message: fmt.Sprintf("chat backend returned status %d", status)}
}

// MalformedResponse reports a payload that does not have the expected shape.
func MalformedResponse(err error) *CoreError {
	return &CoreError{Code: ErrCodeMalformedResponse, Message: "unexpected response from chat backend", Err: err}
}

// SendError wraps a delivery failure on the outbound path.
func SendError(err error) *CoreError {
	return &CoreError{Code: ErrCodeSendError, Message: "cannot send message", Err: err}
}

// Code extracts the outermost CoreError code from err, or "" when err carries none.
func Code(err error) string {
	var ce *CoreError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}
