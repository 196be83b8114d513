package errorhandler

import (
	"context"
	"errors"
	"testing"

	apperrors "unit-converter-skill/internal/common/errors"
	"unit-converter-skill/internal/common/logger"
	"unit-converter-skill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func input(tag string) *models.HandlerInput {
	return models.NewHandlerInput(&models.RequestEnvelope{
		Request: &models.Request{
			Type:   models.RequestTypeIntent,
			Locale: tag,
			Intent: &models.Intent{Name: "WeatherIntent"},
		},
	})
}

func TestHandler_CanHandle(t *testing.T) {
	h := NewHandler(logger.NewTestLogger(t))

	assert.True(t, h.CanHandle(input("en-US"), apperrors.NewUnhandledRequestError("IntentRequest", "WeatherIntent")))
	assert.True(t, h.CanHandle(input("es-ES"), errors.New("boom")))
	assert.True(t, h.CanHandle(input(""), nil))
}

func TestHandler_Handle(t *testing.T) {
	tests := []struct {
		name   string
		locale string
		err    error
		speech string
	}{
		{
			name:   "unhandled request in english",
			locale: "en-US",
			err:    apperrors.NewUnhandledRequestError("IntentRequest", "WeatherIntent"),
			speech: "Sorry, I had trouble doing what you asked. Please try again.",
		},
		{
			name:   "unhandled request in spanish",
			locale: "es-ES",
			err:    apperrors.NewUnhandledRequestError("IntentRequest", "WeatherIntent"),
			speech: "Lo siento, tuve problemas para hacer lo que pediste. Por favor, intenta de nuevo.",
		},
		{
			name:   "internal fault",
			locale: "es-MX",
			err:    apperrors.NewInternalFaultError("convert-units", errors.New("boom")),
			speech: apologySpanish,
		},
		{
			name:   "plain error",
			locale: "en-GB",
			err:    errors.New("boom"),
			speech: apologyOther,
		},
		{
			name:   "nil error",
			locale: "",
			err:    nil,
			speech: apologyOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(logger.NewTestLogger(t))

			resp, err := h.Handle(context.Background(), input(tt.locale), tt.err)
			require.NoError(t, err)
			assert.Equal(t, tt.speech, resp.Speech())
			assert.Equal(t, tt.speech, resp.RepromptText())
			assert.True(t, resp.SessionOpen())
		})
	}
}
