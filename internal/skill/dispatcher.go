// Package skill routes request envelopes to the first handler that accepts them.
package skill

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "unit-converter-skill/internal/common/errors"
	"unit-converter-skill/internal/common/logger"
	"unit-converter-skill/internal/common/metrics"
	"unit-converter-skill/internal/common/observability"
	cancelstop "unit-converter-skill/internal/intents/cancel-stop"
	convertunits "unit-converter-skill/internal/intents/convert-units"
	errorhandler "unit-converter-skill/internal/intents/error-handler"
	"unit-converter-skill/internal/intents/help"
	"unit-converter-skill/internal/intents/launch"
	sessionended "unit-converter-skill/internal/intents/session-ended"
	"unit-converter-skill/internal/models"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Dispatch outcomes as recorded in metrics.
const (
	OutcomeHandled   = "handled"
	OutcomeUnhandled = "unhandled"
	OutcomeFault     = "fault"
)

// RequestHandler answers one category of request.
type RequestHandler interface {
	Name() string
	CanHandle(in *models.HandlerInput) bool
	Handle(ctx context.Context, in *models.HandlerInput) (*models.ResponseEnvelope, error)
}

// ErrorHandler answers requests that no RequestHandler could serve.
type ErrorHandler interface {
	CanHandle(in *models.HandlerInput, err error) bool
	Handle(ctx context.Context, in *models.HandlerInput, err error) (*models.ResponseEnvelope, error)
}

type Dependencies struct {
	Logger        logger.Logger
	Observability *observability.Observability
}

type Dispatcher struct {
	handlers     []RequestHandler
	errorHandler ErrorHandler
	logger       logger.Logger
	obs          *observability.Observability
}

// New registers the skill handlers in priority order.
func New(deps Dependencies) *Dispatcher {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return NewDispatcher(log, deps.Observability, errorhandler.NewHandler(log),
		launch.NewHandler(log),
		convertunits.NewHandler(log),
		help.NewHandler(log),
		cancelstop.NewHandler(log),
		sessionended.NewHandler(log),
	)
}

// NewDispatcher builds a dispatcher over an explicit handler list. obs may be nil.
func NewDispatcher(log logger.Logger, obs *observability.Observability, errHandler ErrorHandler, handlers ...RequestHandler) *Dispatcher {
	return &Dispatcher{
		handlers:     handlers,
		errorHandler: errHandler,
		logger:       log.WithFields(map[string]interface{}{"component": "dispatcher"}),
		obs:          obs,
	}
}

// Handlers returns the registered handler names in evaluation order.
func (d *Dispatcher) Handlers() []string {
	names := make([]string, len(d.handlers))
	for i, h := range d.handlers {
		names[i] = h.Name()
	}
	return names
}

// Dispatch always produces a response. Faults are answered by the error handler.
func (d *Dispatcher) Dispatch(ctx context.Context, env *models.RequestEnvelope) *models.ResponseEnvelope {
	start := time.Now()
	in := models.NewHandlerInput(env)
	category := in.Category.String()
	localeClass := in.Locale.String()

	ctx, span := d.obs.Tracer().Start(ctx, "skill.dispatch", trace.WithAttributes(
		attribute.String("skill.request_id", env.RequestID()),
		attribute.String("skill.request_type", env.RequestType()),
		attribute.String("skill.category", category),
		attribute.String("skill.locale_class", localeClass),
	))
	defer span.End()

	outcome := OutcomeHandled
	resp, handlerName, err := d.route(ctx, in)
	if err != nil {
		stdErr := apperrors.AsStandardError(err)
		outcome = OutcomeFault
		if stdErr.Code == apperrors.ErrCodeUnhandledRequest {
			outcome = OutcomeUnhandled
		}
		metrics.SkillFaults.WithLabelValues(string(stdErr.Code)).Inc()
		span.RecordError(stdErr)
		span.SetStatus(codes.Error, string(stdErr.Code))
		resp = d.handleError(ctx, in, stdErr)
	}
	span.SetAttributes(
		attribute.String("skill.handler", handlerName),
		attribute.String("skill.outcome", outcome),
	)

	duration := time.Since(start)
	metrics.SkillRequests.WithLabelValues(category, localeClass, outcome).Inc()
	metrics.SkillRequestDuration.WithLabelValues(category).Observe(duration.Seconds())
	d.obs.RecordRequest(ctx, category, localeClass, outcome)
	d.obs.RecordDuration(ctx, duration, category)

	return resp
}

func (d *Dispatcher) route(ctx context.Context, in *models.HandlerInput) (*models.ResponseEnvelope, string, error) {
	for _, h := range d.handlers {
		if !h.CanHandle(in) {
			continue
		}
		resp, err := d.invoke(ctx, h, in)
		return resp, h.Name(), err
	}
	return nil, "", apperrors.NewUnhandledRequestError(in.Envelope.RequestType(), in.Envelope.IntentName())
}

func (d *Dispatcher) invoke(ctx context.Context, h RequestHandler, in *models.HandlerInput) (resp *models.ResponseEnvelope, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp = nil
			err = apperrors.NewInternalFaultError(h.Name(), fmt.Errorf("panic: %v", r))
		}
	}()

	resp, err = h.Handle(ctx, in)
	if err != nil {
		var stdErr *apperrors.StandardError
		if errors.As(err, &stdErr) {
			return nil, err
		}
		return nil, apperrors.NewInternalFaultError(h.Name(), err)
	}
	if resp == nil {
		return nil, apperrors.NewInternalFaultError(h.Name(), errors.New("handler returned no response"))
	}
	return resp, nil
}

// handleError never fails; a failing error handler degrades to an empty
// closing response.
func (d *Dispatcher) handleError(ctx context.Context, in *models.HandlerInput, err *apperrors.StandardError) *models.ResponseEnvelope {
	if d.errorHandler != nil && d.errorHandler.CanHandle(in, err) {
		resp, hErr := d.errorHandler.Handle(ctx, in, err)
		if hErr == nil && resp != nil {
			return resp
		}
		fields := in.LogFields()
		fields["errorCode"] = string(err.Code)
		d.logger.WithError(hErr).Error("error handler failed", fields)
	}
	return models.NewResponseBuilder().GetResponse()
}
