package errors

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/mojjammil/dokicasa-integration/internal/common/camunda"
)

// ErrorHandler reports failed submission jobs back to Zeebe.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleJobError throws a BPMN error carrying the StandardError code. The job
// is never failed for a retry: a submission may already exist at the provider.
// The report is sent on its own deadline, independent of ctx's.
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) error {
	stdErr := AsStandardError(err)
	bpmnErr := ConvertToBPMNError(stdErr)

	h.logError(job, stdErr, bpmnErr)

	reportCtx, cancel := camunda.ReportContext(ctx)
	defer cancel()

	if sendErr := h.throwBPMNError(reportCtx, client, job, bpmnErr); sendErr != nil {
		h.logger.Error("Failed to throw BPMN error", map[string]interface{}{
			"jobKey":    job.GetKey(),
			"errorCode": bpmnErr.Code,
			"error":     sendErr.Error(),
		})
		return sendErr
	}
	return nil
}

func (h *ErrorHandler) throwBPMNError(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) error {
	cmd := client.NewThrowErrorCommand().
		JobKey(job.GetKey()).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	payload, err := json.Marshal(bpmnErr.ToErrorVariables())
	if err == nil {
		if withVars, varErr := cmd.VariablesFromString(string(payload)); varErr == nil {
			cmd = withVars
		}
	}

	_, err = cmd.Send(ctx)
	return err
}

func (h *ErrorHandler) logError(job entities.Job, stdErr *StandardError, bpmnErr *BPMNError) {
	h.logger.Error("Job failed", map[string]interface{}{
		"jobKey":           job.GetKey(),
		"jobType":          job.GetType(),
		"errorCode":        string(stdErr.Code),
		"errorKind":        string(stdErr.Kind()),
		"step":             stdErr.Step,
		"endpoint":         stdErr.Endpoint,
		"missing":          stdErr.Missing,
		"message":          bpmnErr.Message,
		"details":          stdErr.Details,
		"errorCategory":    GetErrorCategory(stdErr.Code),
		"workflowInstance": job.GetProcessInstanceKey(),
	})
}
