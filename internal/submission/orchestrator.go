package submission

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/mojjammil/dokicasa-integration/internal/common/dokicasa"
	"github.com/mojjammil/dokicasa-integration/internal/common/errors"
	"github.com/mojjammil/dokicasa-integration/internal/common/logger"
	"github.com/mojjammil/dokicasa-integration/internal/common/metrics"
	"github.com/mojjammil/dokicasa-integration/internal/common/observability"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// FormClient is the provider transport used by the Orchestrator.
type FormClient interface {
	Get(ctx context.Context, url string) (*dokicasa.Response, error)
	Post(ctx context.Context, url string, body interface{}) (*dokicasa.Response, error)
}

// Orchestrator runs submissions. It holds no per-run state and is safe for
// concurrent use.
type Orchestrator struct {
	cfg      Config
	resolver *Resolver
	client   FormClient
	logger   logger.Logger
	obs      *observability.Observability
}

type Option func(*Orchestrator)

func WithLogger(log logger.Logger) Option {
	return func(o *Orchestrator) { o.logger = log }
}

func WithObservability(obs *observability.Observability) Option {
	return func(o *Orchestrator) { o.obs = obs }
}

func NewOrchestrator(cfg Config, client FormClient, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		resolver: NewResolver(cfg.BaseURL, cfg.Catalog),
		client:   client,
		logger:   logger.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Resolver exposes the endpoint resolver built from the configuration.
func (o *Orchestrator) Resolver() *Resolver {
	return o.resolver
}

// run tracks one invocation's progress for logging.
type run struct {
	state State
	log   logger.Logger
}

func (r *run) advance(s State) {
	r.state = s
	r.log.Debug("submission state", map[string]interface{}{"state": string(s)})
}

// Submit performs Step 3 then Step 4. Any failure aborts the run and is
// returned as a *errors.StandardError; no call is retried.
func (o *Orchestrator) Submit(ctx context.Context, req *Request) (*Outcome, error) {
	if req == nil {
		return nil, errors.NewInvalidRequestError("submission request is empty", nil)
	}

	start := time.Now()
	city := string(req.City)

	ctx, span := o.obs.StartSpan(ctx, "dokicasa.submit",
		attribute.String("city", city),
		attribute.String("contract_type", string(req.ContractType)),
	)
	defer span.End()

	r := &run{
		state: StateInit,
		log: o.logger.With(map[string]interface{}{
			"requestId":    dokicasa.RequestIDFromContext(ctx),
			"city":         city,
			"contractType": string(req.ContractType),
		}),
	}

	outcome, err := o.submit(ctx, r, req)
	elapsed := time.Since(start)
	metrics.SubmissionDuration.WithLabelValues(city).Observe(elapsed.Seconds())

	if err != nil {
		stdErr := errors.AsStandardError(err)
		failedAt := r.state
		r.state = StateFailed

		step := stdErr.Step
		if step == "" {
			step = "none"
		}
		metrics.SubmissionsFailed.WithLabelValues(step, string(stdErr.Code)).Inc()
		o.obs.RecordSubmission(ctx, "failed", city)
		o.obs.RecordDuration(ctx, elapsed, "failed")

		span.RecordError(stdErr)
		span.SetStatus(codes.Error, string(stdErr.Code))

		r.log.Error("Contract submission failed", map[string]interface{}{
			"state":     string(failedAt),
			"errorCode": string(stdErr.Code),
			"step":      stdErr.Step,
			"endpoint":  stdErr.Endpoint,
			"missing":   stdErr.Missing,
			"duration":  elapsed.String(),
		})
		return nil, stdErr
	}

	r.advance(StateDone)
	metrics.SubmissionsTotal.WithLabelValues(city, string(req.ContractType)).Inc()
	o.obs.RecordSubmission(ctx, "success", city)
	o.obs.RecordDuration(ctx, elapsed, "success")
	r.log.Info("Contract submission completed", map[string]interface{}{
		"duration": elapsed.String(),
	})
	return outcome, nil
}

func (o *Orchestrator) submit(ctx context.Context, r *run, req *Request) (*Outcome, error) {
	if strings.TrimSpace(o.cfg.Token) == "" {
		return nil, errors.NewConfigurationError("DOKICASA_TOKEN is not set")
	}

	r.advance(StateStep3Resolving)
	step3URL, err := o.resolver.Step3URL(req.City, req.ContractType)
	if err != nil {
		return nil, err
	}
	step4URL, err := o.resolver.Step4URL(req.City)
	if err != nil {
		return nil, err
	}
	externalID := o.cfg.externalID(req)

	schema3, err := o.fetchSchema(ctx, r, errors.Step3, step3URL)
	if err != nil {
		return nil, err
	}
	form3 := MergeValues(schema3, req.Fields)

	r.advance(StateStep3Validating)
	if missing := MissingFields(form3, schema3.Order); len(missing) > 0 {
		return nil, errors.NewValidationError(errors.Step3, missing)
	}

	r.advance(StateStep3Submitting)
	step3Body, err := o.submitForm(ctx, r, errors.Step3, step3URL, form3, externalID)
	if err != nil {
		return nil, err
	}

	step3ID, hasID := ExtractStep3ID(step3Body)
	if !hasID {
		r.log.Warn("Step 3 response carries no identifier", nil)
	}

	r.advance(StateStep4Resolving)
	schema4, err := o.fetchSchema(ctx, r, errors.Step4, step4URL)
	if err != nil {
		return nil, err
	}
	form4 := MergeValues(schema4, req.CreationFields)
	order4 := schema4.Order
	if hasID {
		if _, declared := form4[Step3IDField]; !declared {
			order4 = append(append([]string{}, order4...), Step3IDField)
		}
		form4[Step3IDField] = map[string]interface{}{"value": step3ID}
	}

	r.advance(StateStep4Validating)
	if missing := MissingFields(form4, order4); len(missing) > 0 {
		return nil, errors.NewValidationError(errors.Step4, missing)
	}
	if !hasID {
		// an optional step3_id declared by the schema is omitted, never sent empty
		delete(form4, Step3IDField)
	}

	r.advance(StateStep4Submitting)
	step4Body, err := o.submitForm(ctx, r, errors.Step4, step4URL, form4, externalID)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		OK:           true,
		City:         req.City,
		ContractType: req.ContractType,
		Step3:        step3Body,
		Step4:        step4Body,
	}, nil
}

func (o *Orchestrator) fetchSchema(ctx context.Context, r *run, step, url string) (FieldSchema, error) {
	ctx, span := o.obs.StartSpan(ctx, "dokicasa.fetch_schema",
		attribute.String("step", step),
		attribute.String("endpoint", url),
	)
	defer span.End()

	resp, err := o.client.Get(ctx, url)
	o.recordProviderCall("GET", step, resp, err)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return FieldSchema{}, errors.NewProviderFetchError(step, url, providerDetail(err), err)
	}

	schema, err := ParseSchema(resp.Body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return FieldSchema{}, errors.NewProviderFetchError(step, url, err.Error(), err)
	}

	r.log.Debug("Fetched form schema", map[string]interface{}{
		"step":     step,
		"endpoint": url,
		"fields":   len(schema.Order),
	})
	return schema, nil
}

func (o *Orchestrator) submitForm(ctx context.Context, r *run, step, url string, form MergedForm, externalID string) (interface{}, error) {
	ctx, span := o.obs.StartSpan(ctx, "dokicasa.submit_form",
		attribute.String("step", step),
		attribute.String("endpoint", url),
	)
	defer span.End()

	body := map[string]interface{}{
		"form": form,
		"metadata": map[string]interface{}{
			"external_id": externalID,
		},
	}

	resp, err := o.client.Post(ctx, url, body)
	o.recordProviderCall("POST", step, resp, err)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		detail := providerDetail(err)
		if IsFilteredFieldsResponse(detail) {
			return nil, errors.NewFilteredFieldsError(step, url, detail)
		}
		return nil, errors.NewProviderSubmitError(step, url, detail, err)
	}

	r.log.Info("Submitted form", map[string]interface{}{
		"step":     step,
		"endpoint": url,
		"status":   resp.StatusCode,
	})
	return resp.JSON(), nil
}

func (o *Orchestrator) recordProviderCall(method, step string, resp *dokicasa.Response, err error) {
	code := 0
	var statusErr *dokicasa.StatusError
	switch {
	case err == nil && resp != nil:
		code = resp.StatusCode
	case stderrors.As(err, &statusErr):
		code = statusErr.StatusCode
	}
	metrics.ProviderRequests.WithLabelValues(method, step, metrics.ProviderStatus(code)).Inc()
}

// providerDetail is the provider's error body when one was received,
// otherwise the error text.
func providerDetail(err error) interface{} {
	var statusErr *dokicasa.StatusError
	if stderrors.As(err, &statusErr) {
		if body := statusErr.JSON(); body != nil {
			return body
		}
	}
	return err.Error()
}
