package submitcontractinfo

import (
	"context"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/mojjammil/dokicasa-integration/internal/common/camunda"
	"github.com/mojjammil/dokicasa-integration/internal/common/config"
	"github.com/mojjammil/dokicasa-integration/internal/common/dokicasa"
	"github.com/mojjammil/dokicasa-integration/internal/common/errors"
	"github.com/mojjammil/dokicasa-integration/internal/common/logger"
	"github.com/mojjammil/dokicasa-integration/internal/common/metrics"
	"github.com/mojjammil/dokicasa-integration/internal/submission"
	"github.com/mojjammil/dokicasa-integration/pkg/registry"
)

const (
	TaskType   = "dokicasa.contract.submit"
	WorkerName = "submit-contract-info"
)

// Submitter runs a contract submission.
type Submitter interface {
	Submit(ctx context.Context, req *submission.Request) (*submission.Outcome, error)
}

type Handler struct {
	config     *Config
	logger     logger.Logger
	camunda    *camunda.Client
	submitter  Submitter
	errHandler *errors.ErrorHandler
	jobWorker  worker.JobWorker
}

type HandlerOptions struct {
	AppConfig    *config.Config
	Camunda      *camunda.Client
	Submitter    Submitter
	CustomConfig *Config
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", WorkerName, err)
	}
	if opts.Submitter == nil {
		return nil, fmt.Errorf("%s requires a submitter", WorkerName)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}

	return &Handler{
		config:     workerConfig,
		logger:     log,
		camunda:    opts.Camunda,
		submitter:  opts.Submitter,
		errHandler: errors.NewErrorHandler(log),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.executionTimeout())
	defer cancel()

	h.logger.Info("Processing contract submission job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
		"worker":             TaskType,
	})

	input, err := h.parseInput(job)
	if err != nil {
		h.errHandler.HandleJobError(ctx, client, job, err)
		return
	}

	ctx = dokicasa.ContextWithRequestID(ctx, fmt.Sprintf("job-%d", job.GetKey()))
	output, err := h.Execute(ctx, input)
	if err != nil {
		h.errHandler.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

// executionTimeout leaves room within the job lease for the completion or
// error report.
func (h *Handler) executionTimeout() time.Duration {
	if h.config.Timeout > 2*camunda.ReportTimeout {
		return h.config.Timeout - camunda.ReportTimeout
	}
	return h.config.Timeout
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewInvalidRequestError("failed to parse job variables: "+err.Error(), nil)
	}
	if err := validateInput(variables); err != nil {
		return nil, err
	}

	input := &Input{
		City:         registry.City(variables["city"].(string)),
		ContractType: registry.ContractType(variables["contractType"].(string)),
	}
	input.Fields, _ = variables["fields"].(map[string]interface{})
	input.CreationFields, _ = variables["creationFields"].(map[string]interface{})
	input.ExternalID, _ = variables["externalId"].(string)
	return input, nil
}

// Execute runs the submission for a parsed job input.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	outcome, err := h.submitter.Submit(ctx, &submission.Request{
		City:           input.City,
		ContractType:   input.ContractType,
		ExternalID:     input.ExternalID,
		Fields:         input.Fields,
		CreationFields: input.CreationFields,
	})
	if err != nil {
		return nil, err
	}

	output := &Output{
		ContractSubmitted: outcome.OK,
		Step3:             outcome.Step3,
		Step4:             outcome.Step4,
	}
	if id, ok := submission.ExtractStep3ID(outcome.Step3); ok {
		output.Step3ID = id
	}
	return output, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromMap(output.Variables())
	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
			"worker": TaskType,
		})
		return
	}

	reportCtx, cancel := camunda.ReportContext(ctx)
	defer cancel()

	if _, err := request.Send(reportCtx); err != nil {
		h.logger.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
			"worker": TaskType,
		})
		return
	}

	h.logger.Info("Contract submission job completed", map[string]interface{}{
		"jobKey":  job.GetKey(),
		"step3Id": output.Step3ID,
		"worker":  TaskType,
	})
}

func (h *Handler) Register() error {
	if !h.config.Enabled {
		h.logger.Info("Worker is disabled, skipping registration", map[string]interface{}{
			"worker": TaskType,
		})
		return nil
	}
	if h.camunda == nil {
		return fmt.Errorf("%s: camunda client is not configured", WorkerName)
	}

	h.jobWorker = h.camunda.GetClient().NewJobWorker().
		JobType(TaskType).
		Handler(h.Handle).
		MaxJobsActive(h.config.MaxJobsActive).
		Timeout(h.config.Timeout).
		Name(fmt.Sprintf("%s-worker", TaskType)).
		Open()

	h.logger.Info("Contract submission worker registered with Camunda", map[string]interface{}{
		"taskType":      TaskType,
		"maxJobsActive": h.config.MaxJobsActive,
		"timeout":       h.config.Timeout.String(),
	})
	return nil
}

func (h *Handler) Close() {
	if h.jobWorker != nil {
		h.logger.Info("Shutting down worker gracefully", map[string]interface{}{
			"worker": TaskType,
		})
		h.jobWorker.Close()
		h.jobWorker = nil
	}
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}

func (h *Handler) GetConfig() *Config {
	return h.config
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()
	if appConfig == nil {
		return cfg
	}
	if workerCfg, exists := appConfig.Workers[WorkerName]; exists {
		cfg.Enabled = workerCfg.Enabled
		if workerCfg.MaxJobsActive > 0 {
			cfg.MaxJobsActive = workerCfg.MaxJobsActive
		}
		if workerCfg.Timeout > 0 {
			cfg.Timeout = time.Duration(workerCfg.Timeout) * time.Millisecond
		}
	}
	return cfg
}
