package app

import (
	"time"

	"github.com/yungbote/studyplan-backend/internal/data/cache"
	"github.com/yungbote/studyplan-backend/internal/db"
	"github.com/yungbote/studyplan-backend/internal/observability"
	"github.com/yungbote/studyplan-backend/internal/platform/envutil"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
	"github.com/yungbote/studyplan-backend/internal/platform/openai"
)

const defaultAccessTokenTTL = 7 * 24 * time.Hour

type Config struct {
	Port string

	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	DB    db.Config
	LLM   openai.Config
	Redis cache.RedisConfig

	PlanMaxDays  int
	PlanCacheTTL time.Duration

	AllowedOrigins []string
	Otel           observability.OtelConfig
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := envutil.String("JWT_SECRET_KEY", "defaultsecret", log)
	if jwtSecretKey == "defaultsecret" {
		log.Warn("JWT_SECRET_KEY not set; using insecure default")
	}

	var temperature *float64
	if t := envutil.Float("LLM_TEMPERATURE", -1, log); t >= 0 {
		temperature = &t
	}

	return Config{
		Port: envutil.String("PORT", "8080", log),

		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  envutil.Seconds("ACCESS_TOKEN_TTL", defaultAccessTokenTTL, log),
		RefreshTokenTTL: envutil.Seconds("REFRESH_TOKEN_TTL", 30*24*time.Hour, log),

		DB: db.ConfigFromEnv(log),
		LLM: openai.Config{
			APIKey:      envutil.First("", "LLM_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY"),
			BaseURL:     envutil.String("LLM_BASE_URL", openai.DefaultBaseURL, log),
			Model:       envutil.String("LLM_MODEL", openai.DefaultModel, log),
			Timeout:     envutil.Seconds("LLM_TIMEOUT_SECONDS", 120*time.Second, log),
			Temperature: temperature,
		},
		Redis: cache.RedisConfig{
			Addr:     envutil.String("REDIS_ADDR", "", log),
			Password: envutil.String("REDIS_PASSWORD", "", log),
			DB:       envutil.Int("REDIS_DB", 0, log),
		},

		PlanMaxDays:  envutil.Int("PLAN_MAX_DAYS", 60, log),
		PlanCacheTTL: envutil.Seconds("PLAN_CACHE_TTL_SECONDS", 5*time.Minute, log),

		AllowedOrigins: envutil.List("CORS_ALLOWED_ORIGINS", nil),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false, log),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "studyplan", log),
			Environment: envutil.String("APP_ENV", "development", log),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Headers:     envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", log),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 0.1, log),
		},
	}
}
