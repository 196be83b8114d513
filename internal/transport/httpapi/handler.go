// Package httpapi serves the skill over HTTPS the way the voice platform calls it.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"unit-converter-skill/internal/common/config"
	apperrors "unit-converter-skill/internal/common/errors"
	"unit-converter-skill/internal/common/logger"
	"unit-converter-skill/internal/common/metrics"
	"unit-converter-skill/internal/common/validation"
	"unit-converter-skill/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	transportName      = "http"
	InvocationIDHeader = "X-Invocation-Id"
)

// Dispatcher is satisfied by skill.Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, env *models.RequestEnvelope) *models.ResponseEnvelope
}

type SkillHandler struct {
	server     config.ServerConfig
	skill      config.SkillConfig
	dispatcher Dispatcher
	validator  *validation.EnvelopeValidator
	guard      ReplayGuard
	logger     logger.Logger
	now        func() time.Time
}

// NewSkillHandler builds the POST handler. validator and guard may be nil.
func NewSkillHandler(
	server config.ServerConfig,
	skill config.SkillConfig,
	dispatcher Dispatcher,
	validator *validation.EnvelopeValidator,
	guard ReplayGuard,
	log logger.Logger,
) *SkillHandler {
	return &SkillHandler{
		server:     server,
		skill:      skill,
		dispatcher: dispatcher,
		validator:  validator,
		guard:      guard,
		logger:     log.WithFields(map[string]interface{}{"transport": transportName}),
		now:        time.Now,
	}
}

// Handle answers every accepted envelope with 200, including apologies.
// Rejected envelopes never reach the dispatcher.
func (h *SkillHandler) Handle(c *gin.Context) {
	invocationID := uuid.NewString()
	c.Header(InvocationIDHeader, invocationID)

	body, err := h.readBody(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.reject(c, invocationID, http.StatusRequestEntityTooLarge,
				apperrors.NewInvalidEnvelopeError("body exceeds "+tooLargeLimit(tooLarge)))
			return
		}
		h.reject(c, invocationID, http.StatusBadRequest, apperrors.NewInvalidEnvelopeError(err.Error()))
		return
	}

	env, err := h.decode(body)
	if err != nil {
		h.fail(c, invocationID, err)
		return
	}

	if err := h.verify(c.Request.Context(), env); err != nil {
		h.fail(c, invocationID, err)
		return
	}

	ctx := c.Request.Context()
	if h.server.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.GetDuration(h.server.RequestTimeout))
		defer cancel()
	}

	resp := h.dispatcher.Dispatch(ctx, env)
	h.logger.Debug("request dispatched", map[string]interface{}{
		"invocationId": invocationID,
		"requestId":    env.RequestID(),
		"endSession":   resp.Response.ShouldEndSession,
	})
	c.JSON(http.StatusOK, resp)
}

func (h *SkillHandler) readBody(c *gin.Context) ([]byte, error) {
	reader := io.Reader(c.Request.Body)
	if h.server.MaxBodyBytes > 0 {
		reader = http.MaxBytesReader(c.Writer, c.Request.Body, h.server.MaxBodyBytes)
	}
	return io.ReadAll(reader)
}

func (h *SkillHandler) decode(body []byte) (*models.RequestEnvelope, error) {
	if h.validator != nil {
		if err := h.validator.Validate(body); err != nil {
			return nil, err
		}
	}

	var env models.RequestEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, apperrors.NewInvalidEnvelopeError(err.Error())
	}
	if env.Request == nil {
		return nil, apperrors.NewInvalidEnvelopeError("request is required")
	}
	return &env, nil
}

// verify runs the application id, timestamp and replay checks in that order.
func (h *SkillHandler) verify(ctx context.Context, env *models.RequestEnvelope) error {
	if h.skill.VerifyApplicationID && env.ApplicationID() != h.skill.ApplicationID {
		return apperrors.NewSkillIDMismatchError(env.ApplicationID())
	}

	if h.skill.TimestampTolerance > 0 {
		ts, err := time.Parse(time.RFC3339, env.Timestamp())
		if err != nil {
			return apperrors.NewInvalidEnvelopeError("request.timestamp: " + err.Error())
		}
		skew := h.now().Sub(ts)
		if skew < 0 {
			skew = -skew
		}
		if skew > config.GetDuration(h.skill.TimestampTolerance) {
			return apperrors.NewStaleRequestError(skew)
		}
	}

	if h.guard != nil {
		if err := h.guard.Claim(ctx, env.RequestID()); err != nil {
			return err
		}
	}
	return nil
}

func (h *SkillHandler) fail(c *gin.Context, invocationID string, err error) {
	stdErr := apperrors.AsStandardError(err)
	h.reject(c, invocationID, apperrors.HTTPStatus(stdErr.Code), stdErr)
}

func (h *SkillHandler) reject(c *gin.Context, invocationID string, status int, stdErr *apperrors.StandardError) {
	metrics.TransportRejections.WithLabelValues(transportName, string(stdErr.Code)).Inc()
	h.logger.Warn("envelope rejected", map[string]interface{}{
		"invocationId": invocationID,
		"status":       status,
		"errorCode":    string(stdErr.Code),
		"details":      stdErr.Details,
	})

	c.AbortWithStatusJSON(status, gin.H{
		"invocationId": invocationID,
		"error": gin.H{
			"code":      stdErr.Code,
			"message":   stdErr.Message,
			"details":   stdErr.Details,
			"retryable": stdErr.Retryable,
		},
	})
}

func tooLargeLimit(err *http.MaxBytesError) string {
	return strconv.FormatInt(err.Limit, 10) + " bytes"
}
