// internal/common/errors/errors.go
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Validation failures are local and expected: a field or group failed a
	// gate rule. They block the attempted step transition and nothing else.
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Submission failures.
	ErrCodeRecordCreateFailed ErrorCode = "RECORD_CREATE_FAILED"
	ErrCodeRecordUpdateFailed ErrorCode = "RECORD_UPDATE_FAILED"
	ErrCodeUploadFailed       ErrorCode = "UPLOAD_FAILED"

	// Draft store failures.
	ErrCodeDraftCorrupted  ErrorCode = "DRAFT_CORRUPTED"
	ErrCodeDraftSaveFailed ErrorCode = "DRAFT_SAVE_FAILED"

	// File admission failures at the UI boundary.
	ErrCodeFileTooLarge    ErrorCode = "FILE_TOO_LARGE"
	ErrCodeInvalidFileType ErrorCode = "INVALID_FILE_TYPE"
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

// NewRecordCreateFailedError marks a hard submission failure: the record was
// never created, the aggregate and draft stay intact and the user may retry.
func NewRecordCreateFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordCreateFailed,
		Message:   "Failed to create application record",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecordUpdateFailedError covers the attachment-linking update.
func NewRecordUpdateFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordUpdateFailed,
		Message:   "Failed to update application record",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUploadFailedError marks a soft submission failure: the record exists but
// one or more attachments did not make it to storage.
func NewUploadFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUploadFailed,
		Message:   "Application created, but attachment upload failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDraftCorruptedError is logged when a persisted draft cannot be decoded;
// the wizard falls back to the default aggregate and never crashes.
func NewDraftCorruptedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDraftCorrupted,
		Message:   "Persisted draft is malformed, falling back to defaults",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewDraftSaveFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDraftSaveFailed,
		Message:   "Failed to persist draft",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewFileTooLargeError(name string, limit int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeFileTooLarge,
		Message:   "File exceeds the maximum allowed size",
		Details:   fmt.Sprintf("file: %s, limit: %d bytes", name, limit),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidFileTypeError(contentType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidFileType,
		Message:   "File type is not allowed",
		Details:   fmt.Sprintf("contentType: %s", contentType),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
