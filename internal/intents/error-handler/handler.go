// Package errorhandler answers every request the dispatcher could not serve.
package errorhandler

import (
	"context"

	apperrors "unit-converter-skill/internal/common/errors"
	"unit-converter-skill/internal/common/logger"
	"unit-converter-skill/internal/models"
)

const HandlerName = "error-handler"

const (
	apologySpanish = "Lo siento, tuve problemas para hacer lo que pediste. Por favor, intenta de nuevo."
	apologyOther   = "Sorry, I had trouble doing what you asked. Please try again."
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

// CanHandle accepts any error.
func (h *Handler) CanHandle(_ *models.HandlerInput, _ error) bool { return true }

// Handle apologizes and keeps the session open so the user can retry.
func (h *Handler) Handle(_ context.Context, in *models.HandlerInput, err error) (*models.ResponseEnvelope, error) {
	stdErr := apperrors.AsStandardError(err)

	fields := in.LogFields()
	if stdErr != nil {
		fields["errorCode"] = string(stdErr.Code)
		fields["errorCategory"] = apperrors.GetErrorCategory(stdErr.Code)
		fields["message"] = stdErr.Message
		fields["details"] = stdErr.Details
	}
	h.logger.Error("error handled", fields)

	speech := in.Locale.Pick(apologySpanish, apologyOther)
	return models.NewResponseBuilder().
		Speak(speech).
		Reprompt(speech).
		GetResponse(), nil
}
