package errors

import (
	"fmt"
)

type DomainError struct {
	Code      int
	Message   string
	Details   string
	Retryable bool
	Cause     error
}

func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

func (e *DomainError) WithRetryable(retryable bool) *DomainError {
	e.Retryable = retryable
	return e
}

func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

func NewDomainError(code int, message, details string) *DomainError {
	return &DomainError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: false,
	}
}

func WrapDomainError(err error, code int, message, details string) *DomainError {
	return &DomainError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: false,
		Cause:     err,
	}
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

// GetHTTPStatus maps payment domain error codes to HTTP status codes.
// 30001-30003 are request/callback structure problems, 30004-30008 are
// verification and gateway-reported rejections, 30010/30011 are storage
// lookups, 30020/30021 are internal and configuration faults.
func GetHTTPStatus(err error) int {
	domainErr, ok := err.(*DomainError)
	if !ok {
		return 500
	}

	switch domainErr.Code {
	case 30001, 30002, 30003:
		return 400
	case 30004, 30005, 30006, 30007, 30008:
		return 403
	case 30010:
		return 404
	case 30011:
		return 503
	case 30020, 30021:
		return 500
	default:
		return 500
	}
}
