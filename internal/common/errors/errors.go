// Package errors provides the standardized error taxonomy of the skill.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Conversion errors are recovered inside the convert-units handler.
const (
	ErrCodeUnknownConversion ErrorCode = "UNKNOWN_CONVERSION"
	ErrCodeInvalidValue      ErrorCode = "INVALID_VALUE"
)

// Dispatch errors are routed to the catch-all error handler.
const (
	ErrCodeUnhandledRequest ErrorCode = "UNHANDLED_REQUEST"
	ErrCodeInternalFault    ErrorCode = "INTERNAL_FAULT"
)

// Transport errors reject an envelope before it reaches the dispatcher.
const (
	ErrCodeInvalidEnvelope        ErrorCode = "INVALID_ENVELOPE"
	ErrCodeSkillIDMismatch        ErrorCode = "SKILL_ID_MISMATCH"
	ErrCodeStaleRequest           ErrorCode = "STALE_REQUEST"
	ErrCodeDuplicateRequest       ErrorCode = "DUPLICATE_REQUEST"
	ErrCodeReplayGuardUnavailable ErrorCode = "REPLAY_GUARD_UNAVAILABLE"
	ErrCodeJobParseError          ErrorCode = "JOB_PARSE_ERROR"
	ErrCodeEngineUnavailable      ErrorCode = "ENGINE_UNAVAILABLE"
	ErrCodeEngineTimeout          ErrorCode = "ENGINE_TIMEOUT"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a metadata entry and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// ==========================
// 2. Error Constructors
// ==========================

// NewUnknownConversionError reports a unit pair missing from the active table.
func NewUnknownConversionError(from, to string) *StandardError {
	return newError(ErrCodeUnknownConversion, "No known conversion for unit pair",
		fmt.Sprintf("from: %s, to: %s", from, to), false, nil).
		WithMetadata("fromUnit", from).
		WithMetadata("toUnit", to)
}

// NewInvalidValueError reports a value slot that is not a finite number.
func NewInvalidValueError(raw string, cause error) *StandardError {
	return newError(ErrCodeInvalidValue, "Value is not a finite number",
		fmt.Sprintf("value: %q", raw), false, cause)
}

// NewUnhandledRequestError reports a request no registered handler accepts.
func NewUnhandledRequestError(requestType, intentName string) *StandardError {
	details := fmt.Sprintf("requestType: %s", requestType)
	if intentName != "" {
		details += fmt.Sprintf(", intent: %s", intentName)
	}
	return newError(ErrCodeUnhandledRequest, "Unable to find a suitable request handler", details, false, nil)
}

// NewInternalFaultError wraps an unexpected failure raised while handling.
func NewInternalFaultError(handler string, err error) *StandardError {
	details := fmt.Sprintf("handler: %s", handler)
	if err != nil {
		details += fmt.Sprintf(", error: %s", err.Error())
	}
	return newError(ErrCodeInternalFault, "Unexpected fault while handling request", details, false, err)
}

// NewInvalidEnvelopeError reports a malformed request envelope.
func NewInvalidEnvelopeError(details string) *StandardError {
	return newError(ErrCodeInvalidEnvelope, "Request envelope is invalid", details, false, nil)
}

// NewSkillIDMismatchError reports an envelope addressed to a different skill.
func NewSkillIDMismatchError(got string) *StandardError {
	return newError(ErrCodeSkillIDMismatch, "Application id does not match this skill",
		fmt.Sprintf("applicationId: %s", got), false, nil)
}

// NewStaleRequestError reports a request timestamp outside the tolerance window.
func NewStaleRequestError(skew time.Duration) *StandardError {
	return newError(ErrCodeStaleRequest, "Request timestamp outside tolerance",
		fmt.Sprintf("skew: %s", skew), false, nil)
}

// NewDuplicateRequestError reports a request id seen within the replay window.
func NewDuplicateRequestError(requestID string) *StandardError {
	return newError(ErrCodeDuplicateRequest, "Request already processed",
		fmt.Sprintf("requestId: %s", requestID), false, nil)
}

// NewReplayGuardUnavailableError creates a retryable replay store error.
func NewReplayGuardUnavailableError(err error) *StandardError {
	return newError(ErrCodeReplayGuardUnavailable, "Replay guard store unavailable", err.Error(), true, err)
}

// NewJobParseError reports job variables that do not carry an envelope.
func NewJobParseError(err error) *StandardError {
	return newError(ErrCodeJobParseError, "Failed to parse job variables", err.Error(), false, err)
}

// NewEngineUnavailableError reports a workflow engine that cannot be reached.
func NewEngineUnavailableError(operation string, err error) *StandardError {
	return newError(ErrCodeEngineUnavailable, "Workflow engine unavailable",
		fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), true, err)
}

// NewEngineTimeoutError reports a workflow engine call that ran out of time.
func NewEngineTimeoutError(operation string, err error) *StandardError {
	return newError(ErrCodeEngineTimeout, "Workflow engine call timed out",
		fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), true, err)
}

// ==========================
// 3. Utility Functions
// ==========================

// AsStandardError returns err as a StandardError, wrapping unknown errors
// as INTERNAL_FAULT.
func AsStandardError(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalFaultError("unknown", err)
}

// HasCode reports whether err is a StandardError carrying code.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	return stderrors.As(err, &stdErr) && stdErr.Code == code
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeUnknownConversion, ErrCodeInvalidValue:
		return "conversion"
	case ErrCodeUnhandledRequest, ErrCodeInternalFault:
		return "dispatch"
	case ErrCodeInvalidEnvelope, ErrCodeSkillIDMismatch, ErrCodeStaleRequest,
		ErrCodeDuplicateRequest, ErrCodeReplayGuardUnavailable, ErrCodeJobParseError,
		ErrCodeEngineUnavailable, ErrCodeEngineTimeout:
		return "transport"
	default:
		return "unknown"
	}
}

// HTTPStatus maps transport error codes to the status returned to the platform.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidEnvelope, ErrCodeStaleRequest, ErrCodeDuplicateRequest:
		return http.StatusBadRequest
	case ErrCodeSkillIDMismatch:
		return http.StatusForbidden
	case ErrCodeReplayGuardUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
