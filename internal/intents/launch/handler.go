// Package launch greets the user when the skill is opened without an intent.
package launch

import (
	"context"

	"unit-converter-skill/internal/common/logger"
	"unit-converter-skill/internal/models"
)

const HandlerName = "launch"

const (
	welcomeSpanish = "Bienvenido, puedes pedirme que convierta unidades del sistema métrico. ¿Qué te gustaría intentar?"
	welcomeOther   = "Welcome, you can ask me to convert units from the imperial system. What would you like to try?"
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

func (h *Handler) CanHandle(in *models.HandlerInput) bool {
	return in.Category == models.CategoryLaunch
}

func (h *Handler) Handle(_ context.Context, in *models.HandlerInput) (*models.ResponseEnvelope, error) {
	h.logger.Info("processing request", in.LogFields())

	speech := in.Locale.Pick(welcomeSpanish, welcomeOther)
	return models.NewResponseBuilder().
		Speak(speech).
		Reprompt(speech).
		GetResponse(), nil
}
