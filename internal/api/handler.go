// Package api is the HTTP entry of the submission service.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/mojjammil/dokicasa-integration/internal/common/dokicasa"
	"github.com/mojjammil/dokicasa-integration/internal/common/errors"
	"github.com/mojjammil/dokicasa-integration/internal/common/logger"
	"github.com/mojjammil/dokicasa-integration/internal/common/validation"
	"github.com/mojjammil/dokicasa-integration/internal/submission"
	"github.com/mojjammil/dokicasa-integration/pkg/registry"
)

const maxBodyBytes = 5 << 20

// Submitter runs a contract submission.
type Submitter interface {
	Submit(ctx context.Context, req *submission.Request) (*submission.Outcome, error)
}

// Handler serves the submit endpoint.
type Handler struct {
	submitter Submitter
	validator *validation.Validator
	logger    logger.Logger
}

func NewHandler(submitter Submitter, log logger.Logger) (*Handler, error) {
	v, err := validation.NewSubmissionValidator(validation.HTTPFieldNames)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Handler{submitter: submitter, validator: v, logger: log}, nil
}

type errorBody struct {
	Code     errors.ErrorCode `json:"code"`
	Message  string           `json:"message"`
	Details  string           `json:"details,omitempty"`
	Step     string           `json:"step,omitempty"`
	Endpoint string           `json:"endpoint,omitempty"`
	Missing  []string         `json:"missing,omitempty"`
	Detail   interface{}      `json:"detail,omitempty"`
}

type errorEnvelope struct {
	RequestID string    `json:"request_id"`
	Error     errorBody `json:"error"`
}

// SubmitContractInfo handles POST /api/v1/submit-contract-info.
func (h *Handler) SubmitContractInfo(w http.ResponseWriter, r *http.Request) {
	requestID := RequestID(r.Context())
	log := h.logger.With(map[string]interface{}{"requestId": requestID})

	doc, err := decodeBody(r)
	if err != nil {
		h.writeError(w, requestID, errors.NewInvalidRequestError("malformed JSON body", []string{err.Error()}))
		return
	}

	result, err := h.validator.Validate(doc)
	if err != nil {
		h.writeError(w, requestID, errors.NewInternalError(err))
		return
	}
	if !result.Valid {
		log.Warn("Rejected submission body", map[string]interface{}{"violations": result.GetErrorMessages()})
		h.writeError(w, requestID, errors.NewInvalidRequestError("request body does not match the submission schema", result.GetErrorMessages()))
		return
	}

	req := toRequest(doc.(map[string]interface{}))
	ctx := dokicasa.ContextWithRequestID(r.Context(), requestID)

	outcome, err := h.submitter.Submit(ctx, req)
	if err != nil {
		h.writeError(w, requestID, errors.AsStandardError(err))
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func decodeBody(r *http.Request) (interface{}, error) {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// toRequest maps a body that already passed schema validation.
func toRequest(doc map[string]interface{}) *submission.Request {
	req := &submission.Request{
		City:         registry.City(doc["city"].(string)),
		ContractType: registry.ContractType(doc["contract_type"].(string)),
	}
	req.Fields, _ = doc["fields"].(map[string]interface{})
	req.CreationFields, _ = doc["creation_fields"].(map[string]interface{})
	req.ExternalID, _ = doc["external_id"].(string)
	return req
}

func (h *Handler) writeError(w http.ResponseWriter, requestID string, stdErr *errors.StandardError) {
	writeJSON(w, errors.HTTPStatus(stdErr.Code), errorEnvelope{
		RequestID: requestID,
		Error: errorBody{
			Code:     stdErr.Code,
			Message:  stdErr.Message,
			Details:  stdErr.Details,
			Step:     stdErr.Step,
			Endpoint: stdErr.Endpoint,
			Missing:  stdErr.Missing,
			Detail:   stdErr.Detail,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type requestIDKey struct{}

// RequestIDMiddleware reuses X-Request-ID or assigns a new id, and echoes it
// on the response.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if id == "" {
			id = "req_" + uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// RequestID returns the id set by RequestIDMiddleware.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
