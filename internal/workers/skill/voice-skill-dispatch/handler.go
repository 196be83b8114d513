// Package voiceskilldispatch answers skill envelopes carried by workflow jobs.
package voiceskilldispatch

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"unit-converter-skill/internal/common/camunda"
	"unit-converter-skill/internal/common/config"
	"unit-converter-skill/internal/common/errors"
	"unit-converter-skill/internal/common/logger"
	"unit-converter-skill/internal/common/metrics"
	"unit-converter-skill/internal/common/validation"
	"unit-converter-skill/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const TaskType = "voice-skill-dispatch"

type Handler struct {
	config       *Config
	logger       logger.Logger
	camunda      *camunda.Client
	dispatcher   Dispatcher
	validator    *validation.EnvelopeValidator
	errorHandler *errors.JobErrorHandler
	jobWorker    *camunda.CamundaWorker
}

type HandlerOptions struct {
	AppConfig    *config.Config
	Camunda      *camunda.Client
	CustomConfig *Config
	Dispatcher   Dispatcher
	Validator    *validation.EnvelopeValidator
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required for %s", TaskType)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:       workerConfig,
		logger:       log,
		camunda:      opts.Camunda,
		dispatcher:   opts.Dispatcher,
		validator:    opts.Validator,
		errorHandler: errors.NewJobErrorHandler(log),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	invocationID := uuid.NewString()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
		"invocationId":       invocationID,
	})

	input, err := h.parseInput(job)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

// Execute dispatches the envelope. The dispatcher never fails, so only a
// missing envelope is an error here.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.Envelope == nil || input.Envelope.Request == nil {
		return nil, errors.NewJobParseError(stderrors.New("envelope.request is required"))
	}

	resp := h.dispatcher.Dispatch(ctx, input.Envelope)
	return &Output{
		Response:    resp,
		Category:    models.Classify(input.Envelope).String(),
		Speech:      resp.Speech(),
		SessionOpen: resp.SessionOpen(),
	}, nil
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	var raw struct {
		Envelope json.RawMessage `json:"envelope"`
	}
	if err := json.Unmarshal([]byte(job.GetVariables()), &raw); err != nil {
		return nil, errors.NewJobParseError(err)
	}
	if len(raw.Envelope) == 0 || string(raw.Envelope) == "null" {
		return nil, errors.NewJobParseError(stderrors.New("envelope variable is missing"))
	}

	if h.validator != nil {
		if err := h.validator.Validate(raw.Envelope); err != nil {
			return nil, err
		}
	}

	var env models.RequestEnvelope
	if err := json.Unmarshal(raw.Envelope, &env); err != nil {
		return nil, errors.NewJobParseError(err)
	}
	return &Input{Envelope: &env}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	if _, err := request.Send(ctx); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":      job.GetKey(),
		"category":    output.Category,
		"sessionOpen": output.SessionOpen,
	})
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := errors.AsStandardError(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	metrics.TransportRejections.WithLabelValues("job", string(stdErr.Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, stdErr)
}

// Register opens the job worker on the Camunda client.
func (h *Handler) Register() error {
	if h.camunda == nil {
		return fmt.Errorf("camunda client is required to register %s", TaskType)
	}
	h.jobWorker = camunda.NewWorker(h.camunda.GetClient(), TaskType, h.config.WorkerConfig(), h, h.logger)
	return nil
}

func (h *Handler) Close() {
	h.jobWorker.Stop()
	h.jobWorker = nil
}

func (h *Handler) HealthCheck(ctx context.Context) error {
	if h.camunda == nil {
		return fmt.Errorf("camunda client not configured")
	}
	return h.camunda.HealthCheck(ctx)
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}

func (h *Handler) GetConfig() *Config {
	return h.config
}
