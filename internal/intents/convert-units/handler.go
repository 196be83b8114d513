// Package convertunits answers ConvertUnitsIntent using the locale's unit table.
package convertunits

import (
	"context"

	apperrors "unit-converter-skill/internal/common/errors"
	"unit-converter-skill/internal/common/logger"
	"unit-converter-skill/internal/common/metrics"
	"unit-converter-skill/internal/conversion"
	"unit-converter-skill/internal/models"
)

const HandlerName = "convert-units"

// Conversion outcomes as recorded in metrics.
const (
	OutcomeConverted = "converted"
	OutcomeUnknown   = "unknown_conversion"
	OutcomeInvalid   = "invalid_value"
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
	return in.Category == models.CategoryConvertUnits
}

// Handle speaks the conversion or an apology. Either way the session closes.
func (h *Handler) Handle(_ context.Context, in *models.HandlerInput) (*models.ResponseEnvelope, error) {
	from := in.Envelope.SlotValue(models.SlotFromUnit)
	to := in.Envelope.SlotValue(models.SlotToUnit)
	raw := in.Envelope.SlotValue(models.SlotValue)

	fields := in.LogFields()
	fields["fromUnit"] = from
	fields["toUnit"] = to
	fields["value"] = raw
	h.logger.Info("processing request", fields)

	result, err := conversion.ResolveRaw(in.Locale, from, to, raw)
	if err != nil {
		stdErr := apperrors.AsStandardError(err)
		switch stdErr.Code {
		case apperrors.ErrCodeUnknownConversion, apperrors.ErrCodeInvalidValue:
			outcome := OutcomeUnknown
			if stdErr.Code == apperrors.ErrCodeInvalidValue {
				outcome = OutcomeInvalid
			}
			metrics.SkillConversions.WithLabelValues(in.Locale.String(), outcome).Inc()

			fields["errorCode"] = string(stdErr.Code)
			fields["details"] = stdErr.Details
			h.logger.Warn("conversion not possible", fields)

			return models.NewResponseBuilder().
				Speak(apologySpeech(in.Locale, from, to)).
				GetResponse(), nil
		default:
			return nil, err
		}
	}

	metrics.SkillConversions.WithLabelValues(in.Locale.String(), OutcomeConverted).Inc()
	fields["converted"] = result.Converted
	h.logger.Debug("conversion resolved", fields)

	return models.NewResponseBuilder().
		Speak(resultSpeech(in.Locale, result)).
		GetResponse(), nil
}
