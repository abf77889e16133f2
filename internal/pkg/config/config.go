package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port          string        `env:"PORT,           default=8080"`
	Env           string        `env:"ENV,            default=development"`
	JWTSecret     string        `env:"JWT_SECRET"`
	AccessTTL     time.Duration `env:"ACCESS_TOKEN_TTL,  default=15m"`
	RefreshTTL    time.Duration `env:"REFRESH_TOKEN_TTL, default=168h"`
	AllowedOrigin string        `env:"ALLOWED_ORIGIN, default=http://localhost:3000"`
	LogLevel      string        `env:"LOG_LEVEL,      default=info"`

	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=trackit"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// RateLimitConfig holds per-class quotas. Each class is counted
// independently per client IP within Window.
type RateLimitConfig struct {
	// Store selects the counter backend: "memory" (per process) or "redis".
	Store      string        `env:"RATE_LIMIT_STORE,  default=memory"`
	Window     time.Duration `env:"RATE_LIMIT_WINDOW, default=15m"`
	AuthMax    int           `env:"RATE_LIMIT_AUTH,   default=20"`
	CreateMax  int           `env:"RATE_LIMIT_CREATE, default=100"`
	GeneralMax int           `env:"RATE_LIMIT_API,    default=1000"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
