// Package errors provides the classified failures surfaced by the contract
// submission pipeline and their mapping to HTTP and BPMN.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized machine-readable error codes.
type ErrorCode string

const (
	ErrCodeConfiguration          ErrorCode = "CONFIGURATION_ERROR"
	ErrCodeUnsupportedCombination ErrorCode = "UNSUPPORTED_COMBINATION"
	ErrCodeProviderFetch          ErrorCode = "DOKICASA_GET_ERROR"
	ErrCodeValidation             ErrorCode = "VALIDATION_ERROR"
	ErrCodeFilteredFields         ErrorCode = "DOKICASA_FILTERED_FIELDS"
	ErrCodeProviderForm           ErrorCode = "DOKICASA_FORM_ERROR"
	ErrCodeProviderCreation       ErrorCode = "DOKICASA_CREATION_ERROR"
	ErrCodeInvalidRequest         ErrorCode = "INVALID_REQUEST"
	ErrCodeInternal               ErrorCode = "INTERNAL_ERROR"
)

// Kind groups error codes into the failure classes callers branch on.
type Kind string

const (
	KindConfiguration          Kind = "ConfigurationError"
	KindUnsupportedCombination Kind = "UnsupportedCombination"
	KindProviderFetch          Kind = "ProviderFetchError"
	KindValidation             Kind = "ValidationError"
	KindFilteredFields         Kind = "FilteredFieldsError"
	KindProviderSubmit         Kind = "ProviderSubmitError"
	KindInvalidRequest         Kind = "InvalidRequest"
	KindInternal               Kind = "InternalError"
)

var codeKinds = map[ErrorCode]Kind{
	ErrCodeConfiguration:          KindConfiguration,
	ErrCodeUnsupportedCombination: KindUnsupportedCombination,
	ErrCodeProviderFetch:          KindProviderFetch,
	ErrCodeValidation:             KindValidation,
	ErrCodeFilteredFields:         KindFilteredFields,
	ErrCodeProviderForm:           KindProviderSubmit,
	ErrCodeProviderCreation:       KindProviderSubmit,
	ErrCodeInvalidRequest:         KindInvalidRequest,
}

// Step labels used to tag step-scoped failures.
const (
	Step3 = "Step 3"
	Step4 = "Step 4"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Step      string                 `json:"step,omitempty"`
	Endpoint  string                 `json:"endpoint,omitempty"`
	Missing   []string               `json:"missing,omitempty"`
	Detail    interface{}            `json:"detail,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("StandardError[%s] %s: %s", e.Code, e.Step, e.Message)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Kind returns the failure class of the error code.
func (e *StandardError) Kind() Kind {
	if k, ok := codeKinds[e.Code]; ok {
		return k
	}
	return KindInternal
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
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
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewConfigurationError reports missing process configuration.
func NewConfigurationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfiguration,
		Message:   "Missing required configuration",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnsupportedCombinationError reports a city/contract type pair with no form.
func NewUnsupportedCombinationError(city, contractType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnsupportedCombination,
		Message:   fmt.Sprintf("Unsupported combination city=%s contract_type=%s", city, contractType),
		Timestamp: time.Now().UTC(),
		Metadata: map[string]interface{}{
			"city":         city,
			"contractType": contractType,
		},
	}
}

// NewProviderFetchError reports a failed schema GET for a step.
func NewProviderFetchError(step, endpoint string, detail interface{}, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderFetch,
		Message:   fmt.Sprintf("Error fetching %s form schema", step),
		Details:   errString(err),
		Step:      step,
		Endpoint:  endpoint,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationError reports required fields left empty for a step.
func NewValidationError(step string, missing []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidation,
		Message:   fmt.Sprintf("Missing required fields for %s", step),
		Step:      step,
		Missing:   missing,
		Timestamp: time.Now().UTC(),
	}
}

// NewFilteredFieldsError reports a submission where the provider dropped fields.
func NewFilteredFieldsError(step, endpoint string, detail interface{}) *StandardError {
	return &StandardError{
		Code: ErrCodeFilteredFields,
		Message: "Dokicasa filtered some fields from your request. You may have sent fields " +
			"that don't exist in the schema or don't match conditional dependencies.",
		Step:      step,
		Endpoint:  endpoint,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderSubmitError reports a failed POST for a step.
func NewProviderSubmitError(step, endpoint string, detail interface{}, err error) *StandardError {
	code := ErrCodeProviderForm
	message := "Error while submitting Dokicasa Step 3 form"
	if step == Step4 {
		code = ErrCodeProviderCreation
		message = "Error while creating Dokicasa documents (Step 4)"
	}
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   errString(err),
		Step:      step,
		Endpoint:  endpoint,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequestError reports an inbound payload that failed shape checks.
func NewInvalidRequestError(details string, violations []string) *StandardError {
	e := &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Request body validation failed",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
	if len(violations) > 0 {
		e.Detail = violations
	}
	return e
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   errString(err),
		Timestamp: time.Now().UTC(),
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ==========================
// 4. Error Conversion
// ==========================

// AsStandardError normalizes any error into a StandardError.
func AsStandardError(err error) *StandardError {
	if err == nil {
		return nil
	}
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return NewInternalError(err)
}

// HTTPStatus maps an error code to the status returned by the web entry.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeUnsupportedCombination,
		ErrCodeValidation,
		ErrCodeFilteredFields,
		ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeProviderFetch,
		ErrCodeProviderForm,
		ErrCodeProviderCreation:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"errorKind":         string(stdErr.Kind()),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	if stdErr.Step != "" {
		vars["errorStep"] = stdErr.Step
	}
	if stdErr.Endpoint != "" {
		vars["errorEndpoint"] = stdErr.Endpoint
	}
	if len(stdErr.Missing) > 0 {
		vars["missingFields"] = stdErr.Missing
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		ErrorVariables: vars,
	}
}

// GetErrorCategory returns the category used in logs and metrics.
func GetErrorCategory(code ErrorCode) string {
	switch HTTPStatus(code) {
	case http.StatusBadRequest:
		return "CLIENT"
	case http.StatusBadGateway:
		return "PROVIDER"
	default:
		return "SERVER"
	}
}
