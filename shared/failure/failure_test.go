package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"poolbook/shared/failure"
	"testing"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusConflict,
		Message: "pool is full",
	}

	if f.Error() != "pool is full" {
		t.Errorf("expected error message to be 'pool is full', got %s", f.Error())
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		result  error
		code    int
		message string
	}{
		{
			name:    "BadRequestFromString",
			result:  failure.BadRequestFromString("invalid order"),
			code:    http.StatusBadRequest,
			message: "invalid order",
		},
		{
			name:    "InternalErrorFromString",
			result:  failure.InternalErrorFromString("extra data handler missing"),
			code:    http.StatusInternalServerError,
			message: "extra data handler missing",
		},
		{
			name:    "Unimplemented",
			result:  failure.Unimplemented("DeleteExtraData"),
			code:    http.StatusNotImplemented,
			message: "DeleteExtraData",
		},
		{
			name:    "NotFound",
			result:  failure.NotFound("booking set not found"),
			code:    http.StatusNotFound,
			message: "booking set not found",
		},
		{
			name:    "Conflict",
			result:  failure.Conflict("quota exceeded"),
			code:    http.StatusConflict,
			message: "quota exceeded",
		},
		{
			name:    "ServiceUnavailable",
			result:  failure.ServiceUnavailable("pool is locked"),
			code:    http.StatusServiceUnavailable,
			message: "pool is locked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := tt.result.(*failure.Failure)
			if !ok {
				t.Fatalf("expected result to be *failure.Failure, got %T", tt.result)
			}
			if f.Code != tt.code {
				t.Errorf("expected code to be %d, got %d", tt.code, f.Code)
			}
			if f.Message != tt.message {
				t.Errorf("expected message to be %s, got %s", tt.message, f.Message)
			}
		})
	}
}

func TestBadRequest(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected error
	}{
		{
			name:     "with error",
			input:    errors.New("validation failed"),
			expected: &failure.Failure{Code: http.StatusBadRequest, Message: "validation failed"},
		},
		{
			name:     "with nil error",
			input:    nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := failure.BadRequest(tt.input)

			if tt.expected == nil {
				if result != nil {
					t.Errorf("expected nil, got %v", result)
				}

				return
			}

			f, ok := result.(*failure.Failure)
			if !ok {
				t.Fatalf("expected result to be *failure.Failure, got %T", result)
			}

			expectedF := tt.expected.(*failure.Failure)
			if f.Code != expectedF.Code || f.Message != expectedF.Message {
				t.Errorf("expected %+v, got %+v", expectedF, f)
			}
		})
	}
}

func TestInternalError(t *testing.T) {
	if result := failure.InternalError(nil); result != nil {
		t.Errorf("expected nil, got %v", result)
	}

	result := failure.InternalError(errors.New("database connection failed"))

	f, ok := result.(*failure.Failure)
	if !ok {
		t.Fatalf("expected result to be *failure.Failure, got %T", result)
	}
	if f.Code != http.StatusInternalServerError {
		t.Errorf("expected code to be %d, got %d", http.StatusInternalServerError, f.Code)
	}
}

func TestSentinelIdentity(t *testing.T) {
	sentinel := failure.Conflict("quota exceeded")
	wrapped := fmt.Errorf("pool 42: %w", sentinel)

	if !errors.Is(wrapped, sentinel) {
		t.Errorf("expected wrapped error to match its sentinel")
	}
	if errors.Is(wrapped, failure.Conflict("quota exceeded")) {
		t.Errorf("expected distinct failures not to match")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected int
	}{
		{
			name:     "failure error",
			input:    &failure.Failure{Code: http.StatusBadRequest, Message: "test"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "wrapped failure error",
			input:    fmt.Errorf("booking: %w", failure.Conflict("test")),
			expected: http.StatusConflict,
		},
		{
			name:     "joined with driver error",
			input:    fmt.Errorf("%w: %w", failure.Unimplemented("test"), errors.New("driver")),
			expected: http.StatusNotImplemented,
		},
		{
			name:     "regular error",
			input:    errors.New("regular error"),
			expected: http.StatusInternalServerError,
		},
		{
			name:     "nil error",
			input:    nil,
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := failure.GetCode(tt.input)
			if result != tt.expected {
				t.Errorf("expected code to be %d, got %d", tt.expected, result)
			}
		})
	}
}
