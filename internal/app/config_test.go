package app

import (
	"testing"
	"time"

	"github.com/yungbote/studyplan-backend/internal/platform/logger"
	"github.com/yungbote/studyplan-backend/internal/platform/openai"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "JWT_SECRET_KEY", "ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL",
		"LLM_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY", "LLM_BASE_URL", "LLM_MODEL",
		"LLM_TIMEOUT_SECONDS", "LLM_TEMPERATURE", "PLAN_MAX_DAYS", "PLAN_CACHE_TTL_SECONDS",
		"REDIS_ADDR", "CORS_ALLOWED_ORIGINS", "OTEL_ENABLED", "OTEL_SAMPLER_RATIO", "DB_DRIVER",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)
	cfg := LoadConfig(logger.NewNop())

	if cfg.Port != "8080" {
		t.Fatalf("port=%q", cfg.Port)
	}
	if cfg.AccessTokenTTL != 7*24*time.Hour {
		t.Fatalf("access ttl=%v", cfg.AccessTokenTTL)
	}
	if cfg.PlanMaxDays != 60 {
		t.Fatalf("plan max days=%d", cfg.PlanMaxDays)
	}
	if cfg.PlanCacheTTL != 5*time.Minute {
		t.Fatalf("plan cache ttl=%v", cfg.PlanCacheTTL)
	}
	if cfg.LLM.Model != openai.DefaultModel || cfg.LLM.BaseURL != openai.DefaultBaseURL {
		t.Fatalf("llm defaults: %+v", cfg.LLM)
	}
	if cfg.LLM.Temperature != nil {
		t.Fatalf("temperature should be unset")
	}
	if cfg.Redis.Addr != "" || cfg.Otel.Enabled {
		t.Fatalf("optional integrations should be off: redis=%q otel=%v", cfg.Redis.Addr, cfg.Otel.Enabled)
	}
	if cfg.DB.Driver != "postgres" {
		t.Fatalf("db driver=%q", cfg.DB.Driver)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("OPENAI_API_KEY", "openai-key")
	t.Setenv("ACCESS_TOKEN_TTL", "3600")
	t.Setenv("LLM_TEMPERATURE", "0.2")
	t.Setenv("PLAN_MAX_DAYS", "14")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("OTEL_ENABLED", "true")

	cfg := LoadConfig(logger.NewNop())
	if cfg.LLM.APIKey != "gemini-key" {
		t.Fatalf("api key fallback picked %q", cfg.LLM.APIKey)
	}
	if cfg.AccessTokenTTL != time.Hour {
		t.Fatalf("access ttl=%v", cfg.AccessTokenTTL)
	}
	if cfg.LLM.Temperature == nil || *cfg.LLM.Temperature != 0.2 {
		t.Fatalf("temperature=%v", cfg.LLM.Temperature)
	}
	if cfg.PlanMaxDays != 14 {
		t.Fatalf("plan max days=%d", cfg.PlanMaxDays)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("origins=%v", cfg.AllowedOrigins)
	}
	if !cfg.Otel.Enabled {
		t.Fatalf("otel should be enabled")
	}

	t.Setenv("LLM_API_KEY", "primary")
	if got := LoadConfig(logger.NewNop()).LLM.APIKey; got != "primary" {
		t.Fatalf("LLM_API_KEY should win, got %q", got)
	}
}
