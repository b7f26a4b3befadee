package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryDSN string `env:"SENTRY_DSN"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT" env-default:"5432"`
		Host    string `env:"POSTGRES_HOST" env-default:"localhost"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
	Graph struct {
		BaseURL     string `env:"GRAPH_BASE_URL" env-default:"https://graph.facebook.com"`
		Version     string `env:"GRAPH_VERSION" env-default:"v19.0"`
		AccessToken string `env:"GRAPH_ACCESS_TOKEN"`
		OEmbedToken string `env:"GRAPH_OEMBED_TOKEN"`
		UserID      string `env:"GRAPH_BUSINESS_USER_ID"`
	}
	Telegram struct {
		Token  string `env:"TELEGRAM_TOKEN"`
		ChatID int64  `env:"TELEGRAM_CHAT_ID"`
	}
	Curation struct {
		Tags            string        `env:"CURATION_TAGS"`
		StorePath       string        `env:"CURATION_STORE_PATH" env-default:"./data/visible.db"`
		RefreshInterval time.Duration `env:"CURATION_REFRESH_INTERVAL" env-default:"6h"`
	}
	Limits struct {
		MaxConcurrentCalls int64         `env:"LIMITS_MAX_CONCURRENT_CALLS" env-default:"6"`
		ResolveConcurrency int           `env:"LIMITS_RESOLVE_CONCURRENCY" env-default:"5"`
		RequestsPerSecond  float64       `env:"LIMITS_REQUESTS_PER_SECOND" env-default:"4"`
		PageCacheTTL       time.Duration `env:"LIMITS_PAGE_CACHE_TTL" env-default:"30s"`
		MediaURLTTL        time.Duration `env:"LIMITS_MEDIA_URL_TTL" env-default:"20h"`
		MaxScanItems       int           `env:"LIMITS_MAX_SCAN_ITEMS" env-default:"500"`
		HardPageCap        int           `env:"LIMITS_HARD_PAGE_CAP" env-default:"10"`
	}
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}

// GetDSN builds the postgres connection string used by goose and the migrate tool.
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Postgres.User, c.Postgres.Pass, c.Postgres.Host, c.Postgres.Port, c.Postgres.Name, c.Postgres.SslMode,
	)
}
