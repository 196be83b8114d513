package skill

import (
	"context"
	"errors"
	"sync"
	"testing"

	apperrors "unit-converter-skill/internal/common/errors"
	"unit-converter-skill/internal/common/logger"
	"unit-converter-skill/internal/common/metrics"
	"unit-converter-skill/internal/common/observability"
	errorhandler "unit-converter-skill/internal/intents/error-handler"
	"unit-converter-skill/internal/models"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

const (
	apologyOther   = "Sorry, I had trouble doing what you asked. Please try again."
	apologySpanish = "Lo siento, tuve problemas para hacer lo que pediste. Por favor, intenta de nuevo."
)

// ==========================
// Mocks
// ==========================

type mockHandler struct {
	mock.Mock
}

func (m *mockHandler) Name() string {
	return m.Called().String(0)
}

func (m *mockHandler) CanHandle(in *models.HandlerInput) bool {
	return m.Called(in).Bool(0)
}

func (m *mockHandler) Handle(ctx context.Context, in *models.HandlerInput) (*models.ResponseEnvelope, error) {
	args := m.Called(ctx, in)
	resp, _ := args.Get(0).(*models.ResponseEnvelope)
	return resp, args.Error(1)
}

type panickingHandler struct{}

func (panickingHandler) Name() string                         { return "panicking" }
func (panickingHandler) CanHandle(*models.HandlerInput) bool { return true }
func (panickingHandler) Handle(context.Context, *models.HandlerInput) (*models.ResponseEnvelope, error) {
	panic("table corrupted")
}

type failingErrorHandler struct{}

func (failingErrorHandler) CanHandle(*models.HandlerInput, error) bool { return true }
func (failingErrorHandler) Handle(context.Context, *models.HandlerInput, error) (*models.ResponseEnvelope, error) {
	return nil, errors.New("error handler broke")
}

// ==========================
// Test Helper Functions
// ==========================

func createTestDispatcher(t *testing.T) *Dispatcher {
	return New(Dependencies{Logger: logger.NewTestLogger(t)})
}

func customDispatcher(t *testing.T, handlers ...RequestHandler) *Dispatcher {
	log := logger.NewTestLogger(t)
	return NewDispatcher(log, nil, errorhandler.NewHandler(log), handlers...)
}

func envelope(requestType, tag string) *models.RequestEnvelope {
	return &models.RequestEnvelope{
		Version: "1.0",
		Request: &models.Request{Type: requestType, RequestID: "req-1", Locale: tag},
	}
}

func intentEnvelope(tag, intent string, slots map[string]string) *models.RequestEnvelope {
	env := envelope(models.RequestTypeIntent, tag)
	intentSlots := make(map[string]models.Slot, len(slots))
	for name, value := range slots {
		intentSlots[name] = models.Slot{Name: name, Value: value}
	}
	env.Request.Intent = &models.Intent{Name: intent, Slots: intentSlots}
	return env
}

func conversion(tag, from, to, value string) *models.RequestEnvelope {
	return intentEnvelope(tag, models.IntentConvertUnits, map[string]string{
		models.SlotFromUnit: from,
		models.SlotToUnit:   to,
		models.SlotValue:    value,
	})
}

// ==========================
// Scenario Tests
// ==========================

func TestDispatch_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		env      *models.RequestEnvelope
		speech   string
		reprompt string
		open     bool
	}{
		{
			name:   "spanish metric conversion",
			env:    conversion("es-ES", "metros", "kilómetros", "10"),
			speech: "10 metros son aproximadamente 0.01 kilómetros",
		},
		{
			name:   "english imperial conversion",
			env:    conversion("en-US", "feet", "yards", "9"),
			speech: "9 feet are approximately 3.00 yards",
		},
		{
			name:   "unknown pair apologizes",
			env:    conversion("en-US", "feet", "kilómetros", "3"),
			speech: "I'm sorry, I can't convert from feet to kilómetros. Please try with another unit.",
		},
		{
			name:     "spanish launch",
			env:      envelope(models.RequestTypeLaunch, "es-MX"),
			speech:   "Bienvenido, puedes pedirme que convierta unidades del sistema métrico. ¿Qué te gustaría intentar?",
			reprompt: "Bienvenido, puedes pedirme que convierta unidades del sistema métrico. ¿Qué te gustaría intentar?",
			open:     true,
		},
		{
			name:     "unrecognized intent falls back to error handler",
			env:      intentEnvelope("en-US", "WeatherIntent", nil),
			speech:   apologyOther,
			reprompt: apologyOther,
			open:     true,
		},
		{
			name: "session ended",
			env:  envelope(models.RequestTypeSessionEnded, "en-US"),
		},
		{
			name:     "english help",
			env:      intentEnvelope("en-GB", models.IntentHelp, nil),
			speech:   `You can ask me to convert units from the imperial system. For example, say "Convert 10 feet to yards". How can I help you?`,
			reprompt: `You can ask me to convert units from the imperial system. For example, say "Convert 10 feet to yards". How can I help you?`,
			open:     true,
		},
		{
			name:   "spanish stop",
			env:    intentEnvelope("es-US", models.IntentStop, nil),
			speech: "¡Adiós!",
		},
		{
			name:   "english cancel",
			env:    intentEnvelope("en-US", models.IntentCancel, nil),
			speech: "Goodbye!",
		},
		{
			name:     "unknown request type in spanish",
			env:      envelope("CanFulfillIntentRequest", "es-ES"),
			speech:   apologySpanish,
			reprompt: apologySpanish,
			open:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := createTestDispatcher(t)

			resp := d.Dispatch(context.Background(), tt.env)
			require.NotNil(t, resp)
			assert.Equal(t, tt.speech, resp.Speech())
			assert.Equal(t, tt.reprompt, resp.RepromptText())
			assert.Equal(t, tt.open, resp.SessionOpen())
			assert.Equal(t, !tt.open, resp.Response.ShouldEndSession)
		})
	}
}

func TestDispatch_SessionEndedIsEmpty(t *testing.T) {
	d := createTestDispatcher(t)

	resp := d.Dispatch(context.Background(), envelope(models.RequestTypeSessionEnded, "es-ES"))
	assert.Nil(t, resp.Response.OutputSpeech)
	assert.Nil(t, resp.Response.Reprompt)
	assert.True(t, resp.Response.ShouldEndSession)
}

func TestDispatch_NilEnvelope(t *testing.T) {
	d := createTestDispatcher(t)

	resp := d.Dispatch(context.Background(), nil)
	assert.Equal(t, apologyOther, resp.Speech())
	assert.True(t, resp.SessionOpen())
}

// ==========================
// Routing Tests
// ==========================

func TestNew_RegistrationOrder(t *testing.T) {
	d := createTestDispatcher(t)
	assert.Equal(t, []string{"launch", "convert-units", "help", "cancel-stop", "session-ended"}, d.Handlers())
}

func TestDispatch_FirstMatchWins(t *testing.T) {
	first := new(mockHandler)
	second := new(mockHandler)
	want := models.NewResponseBuilder().Speak("first").GetResponse()

	first.On("Name").Return("first")
	first.On("CanHandle", mock.Anything).Return(true)
	first.On("Handle", mock.Anything, mock.Anything).Return(want, nil)
	second.On("Name").Return("second").Maybe()

	d := customDispatcher(t, first, second)
	resp := d.Dispatch(context.Background(), envelope(models.RequestTypeLaunch, "en-US"))

	assert.Same(t, want, resp)
	first.AssertExpectations(t)
	second.AssertNotCalled(t, "CanHandle", mock.Anything)
	second.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestDispatch_SkipsNonMatching(t *testing.T) {
	skipped := new(mockHandler)
	chosen := new(mockHandler)
	want := models.NewResponseBuilder().Speak("chosen").GetResponse()

	skipped.On("CanHandle", mock.Anything).Return(false)
	chosen.On("Name").Return("chosen")
	chosen.On("CanHandle", mock.Anything).Return(true)
	chosen.On("Handle", mock.Anything, mock.Anything).Return(want, nil)

	d := customDispatcher(t, skipped, chosen)
	resp := d.Dispatch(context.Background(), envelope(models.RequestTypeLaunch, "en-US"))

	assert.Same(t, want, resp)
	skipped.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestDispatch_HandlerFaults(t *testing.T) {
	tests := []struct {
		name  string
		setup func(h *mockHandler)
	}{
		{
			name: "plain error",
			setup: func(h *mockHandler) {
				h.On("Handle", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))
			},
		},
		{
			name: "standard error",
			setup: func(h *mockHandler) {
				h.On("Handle", mock.Anything, mock.Anything).
					Return(nil, apperrors.NewInternalFaultError("faulty", errors.New("boom")))
			},
		},
		{
			name: "nil response without error",
			setup: func(h *mockHandler) {
				h.On("Handle", mock.Anything, mock.Anything).Return(nil, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := new(mockHandler)
			h.On("Name").Return("faulty")
			h.On("CanHandle", mock.Anything).Return(true)
			tt.setup(h)

			faults := metrics.SkillFaults.WithLabelValues(string(apperrors.ErrCodeInternalFault))
			before := testutil.ToFloat64(faults)

			d := customDispatcher(t, h)
			resp := d.Dispatch(context.Background(), envelope(models.RequestTypeLaunch, "es-ES"))

			assert.Equal(t, apologySpanish, resp.Speech())
			assert.Equal(t, apologySpanish, resp.RepromptText())
			assert.True(t, resp.SessionOpen())
			assert.Equal(t, before+1, testutil.ToFloat64(faults))
			h.AssertExpectations(t)
		})
	}
}

func TestDispatch_RecoversPanic(t *testing.T) {
	d := customDispatcher(t, panickingHandler{})

	var resp *models.ResponseEnvelope
	require.NotPanics(t, func() {
		resp = d.Dispatch(context.Background(), envelope(models.RequestTypeLaunch, "en-US"))
	})
	assert.Equal(t, apologyOther, resp.Speech())
	assert.True(t, resp.SessionOpen())
}

func TestDispatch_ErrorHandlerFailureYieldsEmptyResponse(t *testing.T) {
	log := logger.NewTestLogger(t)
	d := NewDispatcher(log, nil, failingErrorHandler{})

	resp := d.Dispatch(context.Background(), envelope(models.RequestTypeLaunch, "en-US"))
	require.NotNil(t, resp)
	assert.Nil(t, resp.Response.OutputSpeech)
	assert.True(t, resp.Response.ShouldEndSession)
}

func TestDispatch_ConcurrentUse(t *testing.T) {
	d := createTestDispatcher(t)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tag, from, to, want := "en-US", "feet", "yards", "9 feet are approximately 3.00 yards"
			if i%2 == 0 {
				tag, from, to, want = "es-ES", "metros", "kilómetros", "10 metros son aproximadamente 0.01 kilómetros"
			}
			value := "9"
			if i%2 == 0 {
				value = "10"
			}
			resp := d.Dispatch(context.Background(), conversion(tag, from, to, value))
			assert.Equal(t, want, resp.Speech())
		}(i)
	}
	wg.Wait()
}

// ==========================
// Instrumentation Tests
// ==========================

func TestDispatch_RecordsRequestMetrics(t *testing.T) {
	d := createTestDispatcher(t)

	handled := metrics.SkillRequests.WithLabelValues("help", "spanish", OutcomeHandled)
	unhandled := metrics.SkillRequests.WithLabelValues("unrecognized", "other", OutcomeUnhandled)
	beforeHandled := testutil.ToFloat64(handled)
	beforeUnhandled := testutil.ToFloat64(unhandled)

	d.Dispatch(context.Background(), intentEnvelope("es-ES", models.IntentHelp, nil))
	d.Dispatch(context.Background(), intentEnvelope("en-US", "WeatherIntent", nil))

	assert.Equal(t, beforeHandled+1, testutil.ToFloat64(handled))
	assert.Equal(t, beforeUnhandled+1, testutil.ToFloat64(unhandled))
}

func TestDispatch_RecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	log := logger.NewTestLogger(t)
	obs := observability.New("skill-test", log,
		observability.WithRegisterer(promclient.NewRegistry()),
		observability.WithSpanProcessor(recorder),
	)
	t.Cleanup(func() { _ = obs.Shutdown(context.Background()) })

	d := New(Dependencies{Logger: log, Observability: obs})
	d.Dispatch(context.Background(), conversion("en-US", "feet", "yards", "9"))
	d.Dispatch(context.Background(), intentEnvelope("en-US", "WeatherIntent", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	attrs := func(i int) map[string]string {
		out := map[string]string{}
		for _, kv := range spans[i].Attributes() {
			out[string(kv.Key)] = kv.Value.Emit()
		}
		return out
	}

	assert.Equal(t, "skill.dispatch", spans[0].Name())
	assert.Equal(t, "convert_units", attrs(0)["skill.category"])
	assert.Equal(t, "convert-units", attrs(0)["skill.handler"])
	assert.Equal(t, OutcomeHandled, attrs(0)["skill.outcome"])
	assert.Equal(t, codes.Unset, spans[0].Status().Code)

	assert.Equal(t, "unrecognized", attrs(1)["skill.category"])
	assert.Equal(t, OutcomeUnhandled, attrs(1)["skill.outcome"])
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, string(apperrors.ErrCodeUnhandledRequest), spans[1].Status().Description)
}
