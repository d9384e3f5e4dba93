package upstream

import (
	"context"
	"errors"
	"fmt"

	dErrors "onboard/pkg/domain-errors"
)

// ErrorCategory is the normalized failure taxonomy for calls to the remote
// corporation registry and profile API. Callers branch on the category, never
// on the raw transport error.
type ErrorCategory string

const (
	// ErrorTimeout indicates the service took too long to respond
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorBadData indicates a body that could not be read or decoded
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorAuthentication indicates credential or permission issues
	ErrorAuthentication ErrorCategory = "authentication"

	// ErrorOutage indicates the service is unreachable or failing (5xx, connection errors)
	ErrorOutage ErrorCategory = "outage"

	// ErrorContractMismatch indicates well-formed JSON missing the fields we rely on
	ErrorContractMismatch ErrorCategory = "contract_mismatch"

	// ErrorRejected indicates the service refused the request and said why
	ErrorRejected ErrorCategory = "rejected"

	// ErrorRateLimited indicates too many requests
	ErrorRateLimited ErrorCategory = "rate_limited"

	// ErrorInternal indicates a failure on our side of the call
	ErrorInternal ErrorCategory = "internal"
)

// Error wraps an upstream failure with its category.
type Error struct {
	Category   ErrorCategory
	Service    string
	Message    string
	StatusCode int
	Underlying error
	Retryable  bool
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("upstream %s [%s]: %s: %v", e.Service, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("upstream %s [%s]: %s", e.Service, e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

// NewError builds a categorized error. Timeouts, outages and rate limiting are
// marked retryable; everything else is permanent for the given input.
func NewError(category ErrorCategory, service, message string, underlying error) *Error {
	return &Error{
		Category:   category,
		Service:    service,
		Message:    message,
		Underlying: underlying,
		Retryable:  category == ErrorTimeout || category == ErrorOutage || category == ErrorRateLimited,
	}
}

// TransportError categorizes a failed http.Client.Do call.
func TransportError(ctx context.Context, service string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return NewError(ErrorTimeout, service, "request timeout", err)
	}
	return NewError(ErrorOutage, service, "failed to execute request", err)
}

// IsRetryable reports whether an error is transient.
func IsRetryable(err error) bool {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Retryable
	}
	return false
}

// CategoryOf extracts the error category, defaulting to ErrorInternal.
func CategoryOf(err error) ErrorCategory {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Category
	}
	return ErrorInternal
}

// RejectionMessage returns the human readable reason the service gave for
// refusing a request, if it gave one.
func RejectionMessage(err error) (string, bool) {
	var ue *Error
	if errors.As(err, &ue) && ue.Category == ErrorRejected && ue.Message != "" {
		return ue.Message, true
	}
	return "", false
}

// DomainCode maps an upstream failure to the transport-agnostic error code.
func DomainCode(err error) dErrors.Code {
	switch CategoryOf(err) {
	case ErrorTimeout:
		return dErrors.CodeTimeout
	case ErrorOutage, ErrorRateLimited, ErrorAuthentication:
		return dErrors.CodeUnavailable
	case ErrorRejected:
		return dErrors.CodeValidation
	default:
		return dErrors.CodeInternal
	}
}
