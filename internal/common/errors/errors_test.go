package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name          string
		err           *StandardError
		expectedCode  string
		expectRetries int
	}{
		{"profile incomplete", NewProfileIncompleteError([]string{"PU"}), "PROFILE_INCOMPLETE", 0},
		{"store failure", NewSessionStoreFailedError("get", fmt.Errorf("dial tcp")), "SESSION_STORE_FAILED", 3},
		{"unmapped code", NewInternalError(fmt.Errorf("boom")), "INTERNAL_ERROR", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmnErr := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.expectedCode, bpmnErr.Code)
			assert.Equal(t, tt.expectRetries, bpmnErr.Retries)
			vars := bpmnErr.ToErrorVariables()
			assert.Equal(t, tt.expectedCode, vars["errorCode"])
			assert.Equal(t, string(tt.err.Code), vars["originalErrorCode"])
		})
	}
}

func TestAsStandardError(t *testing.T) {
	wrapped := fmt.Errorf("compute: %w", NewInvalidWeekCountError(0))
	stdErr := AsStandardError(wrapped)
	require.NotNil(t, stdErr)
	assert.Equal(t, ErrCodeInvalidWeekCount, stdErr.Code)
	assert.True(t, HasCode(wrapped, ErrCodeInvalidWeekCount))

	plain := AsStandardError(fmt.Errorf("plain"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "plain", plain.Details)
	assert.False(t, HasCode(fmt.Errorf("plain"), ErrCodeInternal))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrCodeSessionNotFound))
	assert.Equal(t, http.StatusConflict, HTTPStatus(ErrCodeWizardStepOutOfOrder))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrCodeInvalidStepInput))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(ErrCodeSessionStoreFailed))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(ErrCodeReportRenderFailed))
}

func TestProfileIncompleteDetails(t *testing.T) {
	err := NewProfileIncompleteError([]string{"PU", "PM", "psychology.focus"})
	assert.Contains(t, err.Error(), "PU, PM, psychology.focus")
	assert.Equal(t, "VALIDATION", GetErrorCategory(err.Code))
	assert.False(t, IsRetryableErrorCode(err.Code))
	assert.True(t, IsRetryableErrorCode(ErrCodeSessionStoreFailed))
}
