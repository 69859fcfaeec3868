// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Pitch job lifecycle errors
const (
	ErrCodeSubmissionFailed     ErrorCode = "PITCH_SUBMISSION_FAILED"
	ErrCodePollTransient        ErrorCode = "PITCH_POLL_TRANSIENT"
	ErrCodeConnectivityFailure  ErrorCode = "PITCH_CONNECTIVITY_FAILURE"
	ErrCodeProcessingError      ErrorCode = "PITCH_PROCESSING_ERROR"
	ErrCodeTrackingTimeout      ErrorCode = "PITCH_TRACKING_TIMEOUT"
	ErrCodeDocumentFetchFailed  ErrorCode = "PITCH_DOCUMENT_FETCH_FAILED"
	ErrCodeInvalidIdea          ErrorCode = "PITCH_INVALID_IDEA"
	ErrCodeInvalidPitchDocument ErrorCode = "PITCH_INVALID_DOCUMENT"

	ErrCodeRegistryUnavailable ErrorCode = "JOB_REGISTRY_UNAVAILABLE"
	ErrCodeBrokerUnavailable   ErrorCode = "ZEEBE_UNAVAILABLE"
	ErrCodeInternal            ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches any StandardError carrying the same code, so the sentinels below
// work with errors.Is.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMetadata returns the error with key set in its metadata.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// Sentinels for errors.Is comparisons.
var (
	ErrSubmissionFailed    = &StandardError{Code: ErrCodeSubmissionFailed}
	ErrPollTransient       = &StandardError{Code: ErrCodePollTransient}
	ErrConnectivityFailure = &StandardError{Code: ErrCodeConnectivityFailure}
	ErrProcessingError     = &StandardError{Code: ErrCodeProcessingError}
	ErrTrackingTimeout     = &StandardError{Code: ErrCodeTrackingTimeout}
	ErrDocumentFetchFailed = &StandardError{Code: ErrCodeDocumentFetchFailed}
	ErrInvalidIdea         = &StandardError{Code: ErrCodeInvalidIdea}
	ErrInvalidDocument     = &StandardError{Code: ErrCodeInvalidPitchDocument}
	ErrRegistryUnavailable = &StandardError{Code: ErrCodeRegistryUnavailable}
)

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewSubmissionFailedError is returned when the service rejects or cannot take the idea.
// detail is the service's own error message, if it sent one.
func NewSubmissionFailedError(detail string, err error) *StandardError {
	details := detail
	if details == "" && err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      ErrCodeSubmissionFailed,
		Message:   "Pitch submission failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewPollTransientError wraps a single failed status request. Never terminal.
func NewPollTransientError(jobID string, attempt int, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePollTransient,
		Message:   "Status request failed",
		Details:   fmt.Sprintf("jobId: %s, attempt: %d, error: %v", jobID, attempt, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewConnectivityFailureError is returned once too many status requests failed in a row.
func NewConnectivityFailureError(jobID string, consecutive int, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeConnectivityFailure,
		Message:   "Lost connection to the pitch service",
		Details:   fmt.Sprintf("jobId: %s, consecutiveFailures: %d, lastError: %v", jobID, consecutive, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewProcessingError carries the failure reason reported by the service.
func NewProcessingError(jobID, reason string) *StandardError {
	if reason == "" {
		reason = "generation failed"
	}
	return &StandardError{
		Code:      ErrCodeProcessingError,
		Message:   "Pitch generation failed",
		Details:   reason,
		Retryable: false,
		Metadata:  map[string]interface{}{"jobId": jobID},
		Timestamp: time.Now().UTC(),
	}
}

// NewTrackingTimeoutError is returned when the attempt budget runs out.
func NewTrackingTimeoutError(jobID string, attempts int) *StandardError {
	return &StandardError{
		Code:      ErrCodeTrackingTimeout,
		Message:   "Pitch generation did not finish in time",
		Details:   fmt.Sprintf("jobId: %s, attempts: %d", jobID, attempts),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDocumentFetchFailedError records a missing document for a completed job.
func NewDocumentFetchFailedError(jobID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDocumentFetchFailed,
		Message:   "Pitch document unavailable",
		Details:   fmt.Sprintf("jobId: %s, error: %v", jobID, err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewInvalidIdeaError creates a non-retryable validation error.
func NewInvalidIdeaError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidIdea,
		Message:   "Idea validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidPitchDocumentError creates a non-retryable input error.
func NewInvalidPitchDocumentError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidPitchDocument,
		Message:   "Pitch document could not be decoded",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewRegistryUnavailableError creates a retryable job registry error.
func NewRegistryUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRegistryUnavailable,
		Message:   "Job registry unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewBrokerError wraps a failed Zeebe command.
func NewBrokerError(operation string, err error, retryable bool) *StandardError {
	return &StandardError{
		Code:      ErrCodeBrokerUnavailable,
		Message:   fmt.Sprintf("Zeebe operation '%s' failed", operation),
		Details:   err.Error(),
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeSubmissionFailed:     "PITCH_SUBMISSION_FAILED",
	ErrCodeConnectivityFailure:  "PITCH_SERVICE_UNREACHABLE",
	ErrCodeProcessingError:      "PITCH_GENERATION_FAILED",
	ErrCodeTrackingTimeout:      "PITCH_TIMEOUT",
	ErrCodeInvalidIdea:          "INVALID_IDEA",
	ErrCodeInvalidPitchDocument: "INVALID_PITCH_DOCUMENT",
	ErrCodeRegistryUnavailable:  "JOB_REGISTRY_UNAVAILABLE",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeRegistryUnavailable:
		return 3

	case ErrCodeSubmissionFailed:
		return 2

	case ErrCodeConnectivityFailure,
		ErrCodeTrackingTimeout:
		return 1 // the retry resumes the same pitch job

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code) // Fallback
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandardError unwraps err to a StandardError, wrapping anything else as an
// internal error.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "SUBMISSION"), strings.Contains(codeStr, "CONNECTIVITY"),
		strings.Contains(codeStr, "POLL"), strings.Contains(codeStr, "ZEEBE"):
		return "CONNECTIVITY"
	case strings.Contains(codeStr, "TIMEOUT"):
		return "TIMEOUT"
	case strings.Contains(codeStr, "PROCESSING"), strings.Contains(codeStr, "DOCUMENT"):
		return "GENERATION"
	case strings.Contains(codeStr, "REGISTRY"):
		return "STORAGE"
	default:
		return "OTHER"
	}
}
