// Package sessionended acknowledges the platform closing the session.
package sessionended

import (
	"context"

	"unit-converter-skill/internal/common/logger"
	"unit-converter-skill/internal/models"
)

const HandlerName = "session-ended"

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
	return in.Category == models.CategorySessionEnded
}

// Handle returns an empty response; the platform ignores speech here.
func (h *Handler) Handle(_ context.Context, in *models.HandlerInput) (*models.ResponseEnvelope, error) {
	fields := in.LogFields()
	req := in.Envelope.Request
	fields["reason"] = req.Reason

	if req.Error != nil {
		fields["errorType"] = req.Error.Type
		fields["errorMessage"] = req.Error.Message
		h.logger.Warn("session ended with error", fields)
	} else {
		h.logger.Info("session ended", fields)
	}

	return models.NewResponseBuilder().GetResponse(), nil
}
