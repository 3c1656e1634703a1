package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/justinjudd/tennisbracket/storage"
)

// Config holds everything bracketd reads from the environment
type Config struct {
	DBPath          string        `env:"BRACKET_DB_PATH" envDefault:"bracket.db"`
	Addr            string        `env:"BRACKET_ADDR" envDefault:":8080"`
	CORSOrigins     []string      `env:"BRACKET_CORS_ORIGINS" envDefault:"*" envSeparator:","`
	ShutdownTimeout time.Duration `env:"BRACKET_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	R2AccountID       string `env:"BRACKET_R2_ACCOUNT_ID"`
	R2AccessKeyID     string `env:"BRACKET_R2_ACCESS_KEY_ID"`
	R2SecretAccessKey string `env:"BRACKET_R2_SECRET_ACCESS_KEY"`
	R2Bucket          string `env:"BRACKET_R2_BUCKET"`
	R2PublicBaseURL   string `env:"BRACKET_R2_PUBLIC_BASE_URL"`
	R2Endpoint        string `env:"BRACKET_R2_ENDPOINT"`
}

// Load reads an optional .env file and then the process environment
func Load(files ...string) (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load(files...)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("BRACKET_DB_PATH must not be empty")
	}
	return &cfg, nil
}

// R2 returns the export settings in the form the storage package takes
func (c *Config) R2() storage.R2Config {
	return storage.R2Config{
		AccountID:       c.R2AccountID,
		AccessKeyID:     c.R2AccessKeyID,
		SecretAccessKey: c.R2SecretAccessKey,
		BucketName:      c.R2Bucket,
		PublicBaseURL:   c.R2PublicBaseURL,
		Endpoint:        c.R2Endpoint,
	}
}
