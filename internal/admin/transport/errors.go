package transport

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"ojadmin/internal/admin/model"
	pkgerrors "ojadmin/pkg/errors"
)

// Error is returned for every non-2xx response and every network failure.
// Status is 0 when no response was received. Authenticated records whether
// the request carried a bearer token.
type Error struct {
	Method        string
	Path          string
	Status        int
	Body          []byte
	Err           error
	Authenticated bool
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: request failed: %v", e.Method, e.Path, e.Err)
	}
	if msg := e.Message(); msg != "" {
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.Status, msg)
	}
	return fmt.Sprintf("%s %s: HTTP %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Code classifies the failure by status. A 401 on a request that carried a
// token means the token expired; a failure without response that hit the
// deadline is a timeout.
func (e *Error) Code() pkgerrors.ErrorCode {
	switch {
	case e.Status == http.StatusUnauthorized && e.Authenticated:
		return pkgerrors.TokenExpired
	case e.Status == 0 && isTimeout(e.Err):
		return pkgerrors.Timeout
	}
	return pkgerrors.FromHTTPStatus(e.Status)
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return stderrors.As(err, &te) && te.Timeout()
}

// Message extracts the backend's human readable message from the body.
func (e *Error) Message() string {
	if len(e.Body) == 0 {
		return ""
	}
	var body model.ErrorBody
	if err := json.Unmarshal(e.Body, &body); err == nil {
		return body.Text()
	}
	text := strings.TrimSpace(string(e.Body))
	if len(text) > 200 {
		text = text[:200] + "..."
	}
	return text
}

// StatusOf returns the backend status carried by err, or 0.
func StatusOf(err error) int {
	var te *Error
	if asError(err, &te) {
		return te.Status
	}
	return 0
}

// IsUnauthorized reports a 401, with or without a token on the request.
func IsUnauthorized(err error) bool {
	return pkgerrors.Is(err, pkgerrors.Unauthorized) || pkgerrors.Is(err, pkgerrors.TokenExpired)
}

func IsNotFound(err error) bool {
	return pkgerrors.Is(err, pkgerrors.NotFound)
}

func IsValidation(err error) bool {
	return pkgerrors.Is(err, pkgerrors.ValidationFailed)
}

// IsTransportFailure reports a failure that never reached the backend.
func IsTransportFailure(err error) bool {
	var te *Error
	return asError(err, &te) && te.Status == 0
}
