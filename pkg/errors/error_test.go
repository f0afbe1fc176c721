package errors_test

import (
	"errors"
	"fmt"
	"testing"

	. "ojadmin/pkg/errors"
)

type statusErr struct{ status int }

func (e statusErr) Error() string   { return fmt.Sprintf("status %d", e.status) }
func (e statusErr) Code() ErrorCode { return FromHTTPStatus(e.status) }

func TestErrorCode_Message(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{Success, "Success"},
		{EventAlreadyActive, "Event is already active"},
		{TokenExpired, "Token has expired"},
		{NetworkError, "Backend is unreachable"},
		{ErrorCode(99999), "Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.code.Message(); got != tt.want {
				t.Errorf("Message() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromHTTPStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorCode
	}{
		{0, NetworkError},
		{204, Success},
		{400, ValidationFailed},
		{401, Unauthorized},
		{403, Forbidden},
		{404, NotFound},
		{408, Timeout},
		{409, ValidationFailed},
		{422, ValidationFailed},
		{429, TooManyRequests},
		{500, InternalServerError},
		{502, ServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			if got := FromHTTPStatus(tt.status); got != tt.want {
				t.Errorf("FromHTTPStatus(%d) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	err := New(SubmissionNotFound)

	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	if err.Code != SubmissionNotFound {
		t.Errorf("Code = %v, want %v", err.Code, SubmissionNotFound)
	}

	if err.Error() != SubmissionNotFound.Message() {
		t.Errorf("Error() = %v, want %v", err.Error(), SubmissionNotFound.Message())
	}
}

func TestNewf(t *testing.T) {
	err := Newf(EventAlreadyActive, "event %d is already active", 7)

	want := "event 7 is already active"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	originalErr := errors.New("connection refused")
	wrappedErr := Wrap(originalErr, NetworkError)

	if wrappedErr.Code != NetworkError {
		t.Errorf("Code = %v, want %v", wrappedErr.Code, NetworkError)
	}

	if wrappedErr.Unwrap() != originalErr {
		t.Error("Unwrap() should return original error")
	}

	if Wrap(nil, NetworkError) != nil {
		t.Error("Wrap(nil) should return nil")
	}
}

func TestError_WithDetail(t *testing.T) {
	err := New(ValidationFailed).
		WithDetail("field", "score").
		WithDetail("reason", "not a number")

	if err.Details["field"] != "score" {
		t.Error("Field detail not set correctly")
	}

	if err.Details["reason"] != "not a number" {
		t.Error("Reason detail not set correctly")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{
			name: "nil error",
			err:  nil,
			want: Success,
		},
		{
			name: "custom error",
			err:  New(TestCaseInvalid),
			want: TestCaseInvalid,
		},
		{
			name: "wrapped custom error",
			err:  fmt.Errorf("upload test cases: %w", New(TestCaseInvalid)),
			want: TestCaseInvalid,
		},
		{
			name: "coder in chain",
			err:  fmt.Errorf("delete team: %w", statusErr{status: 401}),
			want: Unauthorized,
		},
		{
			name: "standard error",
			err:  errors.New("standard error"),
			want: InternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := New(EventNotActive)

	if !Is(err, EventNotActive) {
		t.Error("Is() should return true for matching code")
	}

	if Is(err, EventAlreadyActive) {
		t.Error("Is() should return false for non-matching code")
	}

	if Is(nil, EventNotActive) {
		t.Error("Is() should return false for nil error")
	}

	if !Is(statusErr{status: 401}, Unauthorized) {
		t.Error("Is() should consult Coder errors")
	}
}

func TestValidationError(t *testing.T) {
	err := ValidationError("time_limit", "not a number")
	if err.Code != ValidationFailed {
		t.Error("ValidationError should use ValidationFailed code")
	}
	if err.Details["field"] != "time_limit" {
		t.Error("Field detail not set")
	}
	if err.Details["reason"] != "not a number" {
		t.Error("Reason detail not set")
	}
}
