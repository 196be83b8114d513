package sessionended

import (
	"context"
	"testing"

	"unit-converter-skill/internal/common/logger"
	"unit-converter-skill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Handle(t *testing.T) {
	tests := []struct {
		name    string
		request *models.Request
	}{
		{
			name:    "user initiated",
			request: &models.Request{Type: models.RequestTypeSessionEnded, Locale: "en-US", Reason: "USER_INITIATED"},
		},
		{
			name: "error",
			request: &models.Request{
				Type:   models.RequestTypeSessionEnded,
				Locale: "es-ES",
				Reason: "ERROR",
				Error:  &models.RequestError{Type: "INVALID_RESPONSE", Message: "bad ssml"},
			},
		},
		{
			name:    "no reason",
			request: &models.Request{Type: models.RequestTypeSessionEnded},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(logger.NewTestLogger(t))
			in := models.NewHandlerInput(&models.RequestEnvelope{Request: tt.request})

			require.True(t, h.CanHandle(in))
			resp, err := h.Handle(context.Background(), in)
			require.NoError(t, err)
			assert.Empty(t, resp.Speech())
			assert.Nil(t, resp.Response.OutputSpeech)
			assert.Nil(t, resp.Response.Reprompt)
			assert.False(t, resp.SessionOpen())
		})
	}
}

func TestHandler_CanHandle_Launch(t *testing.T) {
	h := NewHandler(logger.NewNoOpLogger())
	in := models.NewHandlerInput(&models.RequestEnvelope{Request: &models.Request{Type: models.RequestTypeLaunch}})
	assert.False(t, h.CanHandle(in))
}
