// Package help explains what the skill can convert.
package help

import (
	"context"

	"unit-converter-skill/internal/common/logger"
	"unit-converter-skill/internal/models"
)

const HandlerName = "help"

const (
	helpSpanish = `Puedes pedirme que convierta unidades del sistema métrico. Por ejemplo, di "Convierte 10 metros a kilómetros". ¿Cómo te puedo ayudar?`
	helpOther   = `You can ask me to convert units from the imperial system. For example, say "Convert 10 feet to yards". How can I help you?`
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
	return in.Category == models.CategoryHelp
}

func (h *Handler) Handle(_ context.Context, in *models.HandlerInput) (*models.ResponseEnvelope, error) {
	h.logger.Info("processing request", in.LogFields())

	speech := in.Locale.Pick(helpSpanish, helpOther)
	return models.NewResponseBuilder().
		Speak(speech).
		Reprompt(speech).
		GetResponse(), nil
}
