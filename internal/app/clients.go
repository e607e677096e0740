package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/studyplan-backend/internal/data/cache"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
	"github.com/yungbote/studyplan-backend/internal/platform/openai"
)

type Clients struct {
	LLM   openai.Client
	Redis *goredis.Client
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	llm, err := openai.NewClient(log, cfg.LLM)
	if err != nil {
		return Clients{}, fmt.Errorf("init llm client: %w", err)
	}
	log.Info("LLM client ready", "model", llm.Model())

	// Redis is optional; plan listing falls back to the database.
	var rdb *goredis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, plan list cache disabled", "addr", cfg.Redis.Addr, "error", err)
			rdb = nil
		}
	}

	return Clients{LLM: llm, Redis: rdb}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
