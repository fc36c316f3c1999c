package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	APIBaseURL string        `env:"API_BASE_URL, default=http://localhost:8080"`
	APITimeout time.Duration `env:"API_TIMEOUT,  default=15s"`
	Env        string        `env:"ENV,          default=development"`
	LogLevel   string        `env:"LOG_LEVEL,    default=info"`

	Storage   StorageConfig
	Redis     RedisConfig
	DevServer DevServerConfig
}

// StorageConfig selects where the credential record lives.
type StorageConfig struct {
	// Backend is "file" or "redis".
	Backend string `env:"STORAGE_BACKEND, default=file"`
	Path    string `env:"STORAGE_PATH,    default=.mediride/credentials.json"`
}

type RedisConfig struct {
	Addr      string `env:"REDIS_ADDR,       default=localhost:6379"`
	DB        int    `env:"REDIS_DB,         default=0"`
	KeyPrefix string `env:"REDIS_KEY_PREFIX, default=mediride:"`
}

// DevServerConfig configures the development mock API. It only applies to
// the `devserver` subcommand; the client itself never consults it.
type DevServerConfig struct {
	Port      string        `env:"DEV_SERVER_PORT, default=8080"`
	JWTSecret string        `env:"DEV_JWT_SECRET,  default=dev-only-secret"`
	TokenTTL  time.Duration `env:"DEV_TOKEN_TTL,   default=24h"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
