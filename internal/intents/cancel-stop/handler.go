// Package cancelstop says goodbye and closes the session.
package cancelstop

import (
	"context"

	"unit-converter-skill/internal/common/logger"
	"unit-converter-skill/internal/models"
)

const HandlerName = "cancel-stop"

const (
	goodbyeSpanish = "¡Adiós!"
	goodbyeOther   = "Goodbye!"
)

type Handler struct {
	logger logger.Logger
}

func NewHandler(log logger.Logger) *Handler {
	return &Handler{
		logger: log.WithFields(map[string]interface{}{"handler": HandlerName}),
	}
}

func (h *Handler) Name() string { return HandlerName }

// CanHandle accepts both the cancel and the stop intent.
func (h *Handler) CanHandle(in *models.HandlerInput) bool {
	return in.Category == models.CategoryCancelOrStop
}

func (h *Handler) Handle(_ context.Context, in *models.HandlerInput) (*models.ResponseEnvelope, error) {
	fields := in.LogFields()
	fields["intent"] = in.Envelope.IntentName()
	h.logger.Info("processing request", fields)

	return models.NewResponseBuilder().
		Speak(in.Locale.Pick(goodbyeSpanish, goodbyeOther)).
		GetResponse(), nil
}
