package config

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/recall/pkg/log"
)

const (
	PlatformSlack    = "slack"
	PlatformTelegram = "telegram"

	BackendSQLite  = "sqlite"
	BackendChromem = "chromem"
)

var collectionName = regexp.MustCompile(`^[a-z][a-z0-9_]{0,62}$`)

type AppConfig struct {
	RuntimePath   string `env:"RECALL_RUNTIME_PATH"`
	Platform      string `env:"RECALL_PLATFORM" envDefault:"slack"`
	VectorBackend string `env:"RECALL_VECTOR_BACKEND" envDefault:"sqlite"`
	Collection    string `env:"RECALL_COLLECTION" envDefault:"messages"`

	// Retrieval
	TopK         int           `env:"RECALL_TOP_K" envDefault:"20"`
	DateKey      string        `env:"RECALL_DATE_KEY" envDefault:"when"`
	Timezone     string        `env:"RECALL_TIMEZONE" envDefault:"Local"`
	StoreTimeout time.Duration `env:"RECALL_STORE_TIMEOUT" envDefault:"10s"`
	LLMTimeout   time.Duration `env:"RECALL_LLM_TIMEOUT" envDefault:"60s"`

	// Workers
	Workers int `env:"RECALL_WORKERS" envDefault:"8"`

	// HTTP surface for the Slack Events API and metrics
	HTTPAddr string `env:"RECALL_HTTP_ADDR" envDefault:":3000"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	if c.RuntimePath == "" {
		c.RuntimePath = GetRuntimePath()
	}
	if err := c.Validate(); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("invalid App config")
	}
	return c
}

func (c AppConfig) Validate() error {
	switch c.Platform {
	case PlatformSlack, PlatformTelegram:
	default:
		return fmt.Errorf("unknown platform: %s", c.Platform)
	}
	switch c.VectorBackend {
	case BackendSQLite, BackendChromem:
	default:
		return fmt.Errorf("unknown vector backend: %s", c.VectorBackend)
	}
	if !collectionName.MatchString(c.Collection) {
		return fmt.Errorf("invalid collection name %q", c.Collection)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("top k must be positive, got %d", c.TopK)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location returns the zone used to render message timestamps.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "recall.db")
}

func (c AppConfig) GetChromemPath() string {
	return filepath.Join(c.RuntimePath, "chromem")
}

// GetPromptPath is the optional prompt template override.
func (c AppConfig) GetPromptPath() string {
	return filepath.Join(c.RuntimePath, "prompt.tmpl")
}

func (c AppConfig) GetCollection() string {
	return c.Collection
}

func (c AppConfig) GetPlatform() string {
	return c.Platform
}

func (c AppConfig) GetVectorBackend() string {
	return c.VectorBackend
}

func (c AppConfig) GetTopK() int {
	return c.TopK
}

func (c AppConfig) GetDateKey() string {
	return c.DateKey
}

func (c AppConfig) GetLocation() *time.Location {
	return c.Location()
}

func (c AppConfig) GetStoreTimeout() time.Duration {
	return c.StoreTimeout
}

func (c AppConfig) GetLLMTimeout() time.Duration {
	return c.LLMTimeout
}
