package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeConfiguration, http.StatusInternalServerError},
		{ErrCodeUnsupportedCombination, http.StatusBadRequest},
		{ErrCodeProviderFetch, http.StatusBadGateway},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeFilteredFields, http.StatusBadRequest},
		{ErrCodeProviderForm, http.StatusBadGateway},
		{ErrCodeProviderCreation, http.StatusBadGateway},
		{ErrCodeInvalidRequest, http.StatusBadRequest},
		{ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}

func TestProviderSubmitError_CodeDependsOnStep(t *testing.T) {
	step3 := NewProviderSubmitError(Step3, "https://x/api/v3/form/a", nil, fmt.Errorf("boom"))
	assert.Equal(t, ErrCodeProviderForm, step3.Code)
	assert.Equal(t, KindProviderSubmit, step3.Kind())
	assert.Equal(t, "boom", step3.Details)

	step4 := NewProviderSubmitError(Step4, "https://x/api/v3/form/b", nil, nil)
	assert.Equal(t, ErrCodeProviderCreation, step4.Code)
	assert.Equal(t, KindProviderSubmit, step4.Kind())
	assert.Empty(t, step4.Details)
}

func TestValidationError_CarriesMissingInOrder(t *testing.T) {
	err := NewValidationError(Step3, []string{"b", "a"})
	assert.Equal(t, KindValidation, err.Kind())
	assert.Equal(t, []string{"b", "a"}, err.Missing)
	assert.Contains(t, err.Error(), "Step 3")
}

func TestAsStandardError(t *testing.T) {
	assert.Nil(t, AsStandardError(nil))

	cfgErr := NewConfigurationError("DOKICASA_TOKEN")
	assert.Same(t, cfgErr, AsStandardError(cfgErr))

	wrapped := AsStandardError(fmt.Errorf("plain"))
	assert.Equal(t, ErrCodeInternal, wrapped.Code)
	assert.Equal(t, KindInternal, wrapped.Kind())
	assert.Equal(t, "plain", wrapped.Details)
}

func TestConvertToBPMNError(t *testing.T) {
	stdErr := NewValidationError(Step4, []string{"step3_id"})

	bpmnErr := ConvertToBPMNError(stdErr)
	require.NotNil(t, bpmnErr)
	assert.Equal(t, "VALIDATION_ERROR", bpmnErr.Code)
	assert.NotContains(t, bpmnErr.ToErrorVariables(), "retryable")

	vars := bpmnErr.ToErrorVariables()
	assert.Equal(t, "VALIDATION_ERROR", vars["errorCode"])
	assert.Equal(t, "ValidationError", vars["errorKind"])
	assert.Equal(t, "Step 4", vars["errorStep"])
	assert.Equal(t, []string{"step3_id"}, vars["missingFields"])
	assert.NotContains(t, vars, "errorEndpoint")
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "CLIENT", GetErrorCategory(ErrCodeFilteredFields))
	assert.Equal(t, "PROVIDER", GetErrorCategory(ErrCodeProviderFetch))
	assert.Equal(t, "SERVER", GetErrorCategory(ErrCodeConfiguration))
}
