package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// TokenTTL bounds how long an issued bearer token stays valid.
	TokenTTL time.Duration `env:"TOKEN_TTL, default=1h"`

	Mongo MongoConfig
	Redis RedisConfig
	Guard GuardConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=payment_portal"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// GuardConfig tunes the two brute-force layers. The thresholds are
// deliberately independent: neither supersedes the other.
type GuardConfig struct {
	LockoutWindow      time.Duration `env:"LOCKOUT_WINDOW,        default=15m"`
	LockoutMaxFailures int           `env:"LOCKOUT_MAX_FAILURES,  default=3"`
	IPWindow           time.Duration `env:"LOGIN_IP_WINDOW,       default=15m"`
	IPMaxAttempts      int           `env:"LOGIN_IP_MAX_ATTEMPTS, default=5"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
