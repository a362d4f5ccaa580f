// Package errors provides standardized error handling for the readiness engine
// and its BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Engine errors
const (
	ErrCodeProfileIncomplete ErrorCode = "PROFILE_INCOMPLETE"
	ErrCodeInvalidWeekCount  ErrorCode = "INVALID_WEEK_COUNT"
)

// Survey wizard and session store errors
const (
	ErrCodeWizardStepOutOfOrder ErrorCode = "WIZARD_STEP_OUT_OF_ORDER"
	ErrCodeInvalidStepInput     ErrorCode = "INVALID_STEP_INPUT"
	ErrCodeSessionNotFound      ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeSessionStoreFailed   ErrorCode = "SESSION_STORE_FAILED"
)

// Reference data, strategy model and report errors
const (
	ErrCodeReferenceDataInvalid     ErrorCode = "REFERENCE_DATA_INVALID"
	ErrCodeStrategyModelUnavailable ErrorCode = "STRATEGY_MODEL_UNAVAILABLE"
	ErrCodeStrategyPredictionFailed ErrorCode = "STRATEGY_PREDICTION_FAILED"
	ErrCodeReportRenderFailed       ErrorCode = "REPORT_RENDER_FAILED"
	ErrCodeJobInputInvalid          ErrorCode = "JOB_INPUT_INVALID"
)

const ErrCodeInternal ErrorCode = "INTERNAL_ERROR"

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
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

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

// NewProfileIncompleteError lists every field the profile is missing.
func NewProfileIncompleteError(missing []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileIncomplete,
		Message:   "Student profile is incomplete",
		Details:   "missing: " + strings.Join(missing, ", "),
		Retryable: false,
		Metadata:  map[string]interface{}{"missing": missing},
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidWeekCountError(weeks int) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidWeekCount,
		Message:   "Study plan needs at least one week",
		Details:   fmt.Sprintf("weeks: %d", weeks),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewWizardStepOutOfOrderError reports a step submitted while the wizard sits elsewhere.
func NewWizardStepOutOfOrderError(expected, got string) *StandardError {
	return &StandardError{
		Code:      ErrCodeWizardStepOutOfOrder,
		Message:   "Survey step submitted out of order",
		Details:   fmt.Sprintf("expected: %s, got: %s", expected, got),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidStepInputError(step, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidStepInput,
		Message:   "Survey step input is invalid",
		Details:   fmt.Sprintf("step: %s, %s", step, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewSessionNotFoundError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "Session not found or expired",
		Details:   fmt.Sprintf("sessionId: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionStoreFailedError wraps a Redis failure. It is the only retryable engine error.
func NewSessionStoreFailedError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionStoreFailed,
		Message:   "Session store operation failed",
		Details:   fmt.Sprintf("op: %s, error: %s", op, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewReferenceDataInvalidError(source, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeReferenceDataInvalid,
		Message:   "Reference data is invalid",
		Details:   fmt.Sprintf("source: %s, %s", source, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewStrategyModelUnavailableError() *StandardError {
	return &StandardError{
		Code:      ErrCodeStrategyModelUnavailable,
		Message:   "Strategy model is not loaded",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewStrategyPredictionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStrategyPredictionFailed,
		Message:   "Strategy prediction failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewReportRenderFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeReportRenderFailed,
		Message:   "Report rendering failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewJobInputInvalidError reports job variables rejected by the activity schema.
func NewJobInputInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeJobInputInvalid,
		Message:   "Job input failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeProfileIncomplete:        "PROFILE_INCOMPLETE",
	ErrCodeInvalidWeekCount:         "INVALID_WEEK_COUNT",
	ErrCodeWizardStepOutOfOrder:     "WIZARD_STEP_OUT_OF_ORDER",
	ErrCodeInvalidStepInput:         "INVALID_STEP_INPUT",
	ErrCodeSessionNotFound:          "SESSION_NOT_FOUND",
	ErrCodeSessionStoreFailed:       "SESSION_STORE_FAILED",
	ErrCodeReferenceDataInvalid:     "REFERENCE_DATA_INVALID",
	ErrCodeStrategyModelUnavailable: "STRATEGY_MODEL_UNAVAILABLE",
	ErrCodeStrategyPredictionFailed: "STRATEGY_PREDICTION_FAILED",
	ErrCodeReportRenderFailed:       "REPORT_RENDER_FAILED",
	ErrCodeJobInputInvalid:          "JOB_INPUT_INVALID",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeSessionStoreFailed:
		return 3
	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandardError unwraps err to a *StandardError, or wraps it as INTERNAL_ERROR.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	return stderrors.As(err, &stdErr) && stdErr.Code == code
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// HTTPStatus maps an error code to the status the API responds with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeSessionNotFound:
		return http.StatusNotFound
	case ErrCodeWizardStepOutOfOrder:
		return http.StatusConflict
	case ErrCodeProfileIncomplete, ErrCodeInvalidWeekCount, ErrCodeInvalidStepInput, ErrCodeJobInputInvalid:
		return http.StatusBadRequest
	case ErrCodeSessionStoreFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "SESSION"):
		return "SESSION"
	case strings.Contains(codeStr, "STRATEGY"):
		return "MODEL"
	case strings.Contains(codeStr, "REFERENCE"):
		return "REFERENCE"
	case strings.Contains(codeStr, "REPORT"):
		return "REPORT"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "INCOMPLETE") || strings.Contains(codeStr, "OUT_OF_ORDER"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
