package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mrp/backend/internal/application/planning"
	"github.com/mrp/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// releaseScript deletes the lock key only if it still holds our token, so an
// expired lock re-acquired by another instance is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisPlanLocker implements planning.PlanLocker using Redis.
// This is suitable for distributed deployments where multiple instances
// must agree on which plan is being calculated.
type RedisPlanLocker struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
}

// NewRedisPlanLocker creates a Redis-backed plan locker
func NewRedisPlanLocker(cfg config.RedisConfig, ttl time.Duration, logger *zap.Logger) (*RedisPlanLocker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisPlanLockerWithClient(client, ttl, logger), nil
}

// NewRedisPlanLockerWithClient creates a locker with an existing Redis client.
// This is useful for testing or when sharing a client across components
func NewRedisPlanLockerWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisPlanLocker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisPlanLocker{
		client:    client,
		keyPrefix: "plan:calculation:",
		ttl:       ttl,
		logger:    logger,
	}
}

// Acquire takes the plan's calculation lock or fails immediately with
// ErrCalculationInProgress. The returned release function is safe to call
// after the TTL has expired.
func (l *RedisPlanLocker) Acquire(ctx context.Context, planID uuid.UUID) (func(), error) {
	key := l.keyPrefix + planID.String()
	token := uuid.New().String()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire plan lock: %w", err)
	}
	if !ok {
		return nil, planning.ErrCalculationInProgress
	}

	release := func() {
		// Release must not inherit a cancelled request context
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			l.logger.Warn("Failed to release plan lock",
				zap.String("plan_id", planID.String()),
				zap.Error(err))
		}
	}

	return release, nil
}

// Close closes the Redis client
func (l *RedisPlanLocker) Close() error {
	return l.client.Close()
}

// Ensure RedisPlanLocker implements planning.PlanLocker
var _ planning.PlanLocker = (*RedisPlanLocker)(nil)
