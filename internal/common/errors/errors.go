// Package errors provides standardized error handling for the intake pipeline.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Pre-durability rejections. Each aborts the request with no persisted state.
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	ErrCodePostingNotFound    ErrorCode = "POSTING_NOT_FOUND"
	ErrCodePostingNotPublic   ErrorCode = "POSTING_NOT_PUBLIC"
	ErrCodePostingNotAccepting ErrorCode = "POSTING_NOT_ACCEPTING"
	ErrCodeDuplicateApplication ErrorCode = "DUPLICATE_APPLICATION"
	ErrCodeCapacityExceeded   ErrorCode = "CAPACITY_EXCEEDED"

	// Infrastructure failures.
	ErrCodeDatabaseQueryFailed  ErrorCode = "DATABASE_QUERY_FAILED"
	ErrCodeDatabaseInsertFailed ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeInternalError        ErrorCode = "INTERNAL_ERROR"

	// Post-durability stage failures. Logged for reconciliation, never
	// surfaced to the applicant.
	ErrCodeAggregateUpdateFailed ErrorCode = "AGGREGATE_UPDATE_FAILED"
	ErrCodeEventAppendFailed     ErrorCode = "EVENT_APPEND_FAILED"
	ErrCodeProfileCreateFailed   ErrorCode = "PROFILE_CREATE_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeSearchIndexFailed     ErrorCode = "SEARCH_INDEX_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationFailedError creates a non-retryable validation error. Details
// carries the joined per-field messages shown to the applicant.
func NewValidationFailedError(fieldMessages []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   strings.Join(fieldMessages, "; "),
		Retryable: false,
		Metadata:  map[string]interface{}{"fieldCount": len(fieldMessages)},
		Timestamp: time.Now().UTC(),
	}
}

// NewPostingNotFoundError creates a non-retryable lifecycle error.
func NewPostingNotFoundError(tenantID, postingID string) *StandardError {
	return &StandardError{
		Code:      ErrCodePostingNotFound,
		Message:   "This position is no longer available",
		Details:   fmt.Sprintf("tenantId: %s, postingId: %s", tenantID, postingID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPostingNotPublicError creates a non-retryable lifecycle error.
func NewPostingNotPublicError(visibility string) *StandardError {
	return &StandardError{
		Code:      ErrCodePostingNotPublic,
		Message:   "This position is not open for public applications",
		Details:   fmt.Sprintf("visibility: %s", visibility),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPostingNotAcceptingError creates a non-retryable lifecycle error.
func NewPostingNotAcceptingError(status string) *StandardError {
	return &StandardError{
		Code:      ErrCodePostingNotAccepting,
		Message:   "This position is not currently accepting applications",
		Details:   fmt.Sprintf("status: %s", status),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateApplicationError creates a non-retryable admission error.
func NewDuplicateApplicationError(postingID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateApplication,
		Message:   "You have already applied to this position",
		Details:   fmt.Sprintf("postingId: %s", postingID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCapacityExceededError creates a non-retryable admission error.
func NewCapacityExceededError(postingID string, limit int) *StandardError {
	return &StandardError{
		Code:      ErrCodeCapacityExceeded,
		Message:   "This position has reached its application limit",
		Details:   fmt.Sprintf("postingId: %s, capacityLimit: %d", postingID, limit),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseQueryFailedError creates a retryable store read error.
func NewDatabaseQueryFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseQueryFailed,
		Message:   "Something went wrong, please try again later",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseInsertFailedError creates a retryable store write error.
func NewDatabaseInsertFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsertFailed,
		Message:   "Something went wrong, please try again later",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps any unexpected failure.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternalError,
		Message:   "Something went wrong, please try again later",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Classification Helpers
// ==========================

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// IsRejection reports whether the error is a deliberate business rejection
// rather than an infrastructure failure.
func IsRejection(err error) bool {
	switch Normalize(err).Code {
	case ErrCodeValidationFailed,
		ErrCodePostingNotFound,
		ErrCodePostingNotPublic,
		ErrCodePostingNotAccepting,
		ErrCodeDuplicateApplication,
		ErrCodeCapacityExceeded:
		return true
	}
	return false
}

// GetErrorCategory groups codes for logging and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeValidationFailed:
		return "validation"
	case ErrCodePostingNotFound, ErrCodePostingNotPublic, ErrCodePostingNotAccepting:
		return "lifecycle"
	case ErrCodeDuplicateApplication, ErrCodeCapacityExceeded:
		return "admission"
	case ErrCodeDatabaseQueryFailed, ErrCodeDatabaseInsertFailed:
		return "database"
	case ErrCodeAggregateUpdateFailed, ErrCodeEventAppendFailed,
		ErrCodeProfileCreateFailed, ErrCodeNotificationSendFailed,
		ErrCodeSearchIndexFailed:
		return "post-durability"
	}
	return "internal"
}
