package reportcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	apperrors "github.com/orgball2608/meme-trend-bot/pkg/errors"
	"github.com/orgball2608/meme-trend-bot/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// LatestKey holds the JSON snapshot of the last published report.
const LatestKey = "meme:report:latest"

var ErrNotFound = apperrors.Wrap(apperrors.ErrNotFound, "cached report")

//go:generate go run go.uber.org/mock/mockgen -source=reportcache.go -destination=mocks/mock.go
type Cache interface {
	// Save stores v as JSON under LatestKey, replacing the previous report.
	Save(ctx context.Context, v any) error
	// Latest returns the stored JSON or ErrNotFound.
	Latest(ctx context.Context) ([]byte, error)
}

// kv is the part of *redis.Client the cache needs.
type kv interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

type Redis struct {
	rdb    kv
	ttl    time.Duration
	logger logger.Logger
}

func NewRedis(rdb kv, ttl time.Duration, logger logger.Logger) *Redis {
	return &Redis{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger.WithComponent("ReportCache"),
	}
}

var _ Cache = (*Redis)(nil)

func (r *Redis) Save(ctx context.Context, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if err := r.rdb.Set(ctx, LatestKey, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}

	r.logger.Debug("Report cached", "key", LatestKey, "bytes", len(payload), "ttl", r.ttl.String())
	return nil
}

func (r *Redis) Latest(ctx context.Context) ([]byte, error) {
	payload, err := r.rdb.Get(ctx, LatestKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read cached report: %w", err)
	}
	return payload, nil
}
