package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateLink reports an attempt to create a card link that already
// exists with the same source, target and type. Test for it with
// errors.Is; the underlying *Error stays reachable through errors.As.
var ErrDuplicateLink = errors.New("link already exists")

// Error is a non-2xx response from the server. Message carries the
// server's wording verbatim and Raw holds the undecoded body so callers
// can pass it through to machine output.
type Error struct {
	Status  int
	Message string
	Raw     []byte
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.Status)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// newError decodes the body of a failed response. The board API answers
// {"error": "..."}, but proxies and other servers may answer
// problem+json or plain text, so fall through detail and title before
// giving up and using the raw body.
func newError(status int, raw []byte) *Error {
	return &Error{Status: status, Message: extractMessage(raw), Raw: raw}
}

func extractMessage(raw []byte) string {
	var payload struct {
		Err     string `json:"error"`
		Detail  string `json:"detail"`
		Title   string `json:"title"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return strings.TrimSpace(string(raw))
	}
	for _, msg := range []string{payload.Err, payload.Detail, payload.Title, payload.Message} {
		if msg != "" {
			return msg
		}
	}
	return strings.TrimSpace(string(raw))
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool { return statusIs(err, 404) }

// IsConflict reports whether err is a 409 from the server.
func IsConflict(err error) bool { return statusIs(err, 409) }

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool { return statusIs(err, 401) }

func statusIs(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// duplicateLinkError marks a conflict from link creation so callers can
// match ErrDuplicateLink without losing the server response.
type duplicateLinkError struct {
	apiErr *Error
}

func (e *duplicateLinkError) Error() string        { return e.apiErr.Error() }
func (e *duplicateLinkError) Unwrap() error        { return e.apiErr }
func (e *duplicateLinkError) Is(target error) bool { return target == ErrDuplicateLink }

// ValidationError reports a request payload rejected locally, before any
// request was sent. Fields lists each failing field with the rule it
// broke.
type ValidationError struct {
	Fields []string
	cause  error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		if e.cause != nil {
			return "invalid request: " + e.cause.Error()
		}
		return "invalid request"
	}
	return "invalid request: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() error { return e.cause }
