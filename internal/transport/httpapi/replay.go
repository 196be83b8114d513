package httpapi

import (
	"context"
	"time"

	apperrors "unit-converter-skill/internal/common/errors"
)

const replayKeyPrefix = "skill:request:"

// ReplayGuard rejects request ids that were already served.
type ReplayGuard interface {
	Claim(ctx context.Context, requestID string) error
}

// Claimer is satisfied by database.RedisClient.
type Claimer interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

type RedisReplayGuard struct {
	store Claimer
	ttl   time.Duration
}

func NewRedisReplayGuard(store Claimer, ttl time.Duration) *RedisReplayGuard {
	return &RedisReplayGuard{store: store, ttl: ttl}
}

func (g *RedisReplayGuard) Claim(ctx context.Context, requestID string) error {
	ok, err := g.store.Claim(ctx, replayKeyPrefix+requestID, g.ttl)
	if err != nil {
		return apperrors.NewReplayGuardUnavailableError(err)
	}
	if !ok {
		return apperrors.NewDuplicateRequestError(requestID)
	}
	return nil
}
