package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

func TestNopPlanListCacheAlwaysMisses(t *testing.T) {
	c := NewNopPlanListCache()
	id := uuid.New()
	c.Set(context.Background(), id, 0, []byte(`[]`))
	if _, version, ok := c.Get(context.Background(), id); ok || version != NoVersion {
		t.Fatalf("nop cache must never hit")
	}
	c.Invalidate(context.Background(), id)
}

func TestRedisPlanListCacheUnreachableDegradesToMiss(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	c := NewRedisPlanListCache(logger.NewNop(), rdb, time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	id := uuid.New()
	c.Set(ctx, id, 0, []byte(`[]`))
	_, version, ok := c.Get(ctx, id)
	if ok {
		t.Fatalf("expected miss when redis is unreachable")
	}
	if version != NoVersion {
		t.Fatalf("unreachable redis must not hand out a writable version, got %d", version)
	}
	c.Invalidate(ctx, id)
}

func TestNewRedisClientRequiresAddr(t *testing.T) {
	if _, err := NewRedisClient(context.Background(), RedisConfig{}); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}

func TestPlanListKeyIsNamespaced(t *testing.T) {
	id := uuid.MustParse("6f1c1c7e-3f3b-4d53-9a6c-1f0b8a1f2d3e")
	if got := planListKey(id, 3); got != "studyplan:list:6f1c1c7e-3f3b-4d53-9a6c-1f0b8a1f2d3e:3" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := planListGenKey(id); got != "studyplan:list:gen:6f1c1c7e-3f3b-4d53-9a6c-1f0b8a1f2d3e" {
		t.Fatalf("unexpected generation key %q", got)
	}
	if planListKey(id, 0) == planListKey(id, 1) {
		t.Fatalf("generations must not share a key")
	}
}
