package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

const (
	planListPrefix    = "studyplan:list:"
	planListGenPrefix = "studyplan:list:gen:"
)

// PlanListCache holds the serialized plan list of one owner. It is an
// optimisation only: every failure degrades to a miss and the database stays
// the source of truth.
//
// Entries are versioned by a per-owner generation. Get reports the current
// generation on a miss and Set stores under the generation it is given, so a
// list read from the database before an Invalidate is never served after it.
type PlanListCache interface {
	Get(ctx context.Context, userID uuid.UUID) (payload []byte, version int64, ok bool)
	Set(ctx context.Context, userID uuid.UUID, version int64, payload []byte)
	Invalidate(ctx context.Context, userID uuid.UUID)
}

// NoVersion tells Set to skip the write.
const NoVersion int64 = -1

type nopPlanListCache struct{}

func NewNopPlanListCache() PlanListCache { return nopPlanListCache{} }

func (nopPlanListCache) Get(context.Context, uuid.UUID) ([]byte, int64, bool) {
	return nil, NoVersion, false
}
func (nopPlanListCache) Set(context.Context, uuid.UUID, int64, []byte) {}
func (nopPlanListCache) Invalidate(context.Context, uuid.UUID)         {}

type redisPlanListCache struct {
	log *logger.Logger
	rdb goredis.UniversalClient
	ttl time.Duration
}

func NewRedisPlanListCache(log *logger.Logger, rdb goredis.UniversalClient, ttl time.Duration) PlanListCache {
	if rdb == nil {
		return NewNopPlanListCache()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &redisPlanListCache{
		log: log.With("cache", "PlanListCache"),
		rdb: rdb,
		ttl: ttl,
	}
}

func planListKey(userID uuid.UUID, gen int64) string {
	return planListPrefix + userID.String() + ":" + strconv.FormatInt(gen, 10)
}

func planListGenKey(userID uuid.UUID) string {
	return planListGenPrefix + userID.String()
}

func (c *redisPlanListCache) generation(ctx context.Context, userID uuid.UUID) (int64, error) {
	gen, err := c.rdb.Get(ctx, planListGenKey(userID)).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *redisPlanListCache) Get(ctx context.Context, userID uuid.UUID) ([]byte, int64, bool) {
	gen, err := c.generation(ctx, userID)
	if err != nil {
		c.log.Warn("Plan list cache generation read failed", "error", err)
		return nil, NoVersion, false
	}
	raw, err := c.rdb.Get(ctx, planListKey(userID, gen)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.Warn("Plan list cache read failed", "error", err)
			return nil, NoVersion, false
		}
		return nil, gen, false
	}
	return raw, gen, true
}

func (c *redisPlanListCache) Set(ctx context.Context, userID uuid.UUID, version int64, payload []byte) {
	if version < 0 {
		return
	}
	if err := c.rdb.Set(ctx, planListKey(userID, version), payload, c.ttl).Err(); err != nil {
		c.log.Warn("Plan list cache write failed", "error", err)
	}
}

// Invalidate bumps the owner's generation; entries under older generations
// become unreachable and expire on their TTL.
func (c *redisPlanListCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	if err := c.rdb.Incr(ctx, planListGenKey(userID)).Err(); err != nil {
		c.log.Warn("Plan list cache invalidation failed", "error", err)
	}
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects and pings. Callers treat an error as "run
// without cache".
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*goredis.Client, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}
