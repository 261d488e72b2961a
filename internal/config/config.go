// Package config loads server configuration from environment variables.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the server needs at startup. All values come from
// the environment; a .env file may supply them during development (loaded by
// cmd/server before parsing).
type Config struct {
	Port     int    `env:"PORT"      envDefault:"8080"`
	DBPath   string `env:"DB_PATH"   envDefault:"data/anonboard.db"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// JWTSecret signs session cookies. The server refuses to start without it.
	JWTSecret string `env:"JWT_SECRET"`

	// Object storage. Endpoint empty means uploads are disabled; the server
	// still starts and upload routes report the storage as unavailable.
	S3Endpoint    string `env:"S3_ENDPOINT"`
	S3Region      string `env:"S3_REGION"     envDefault:"us-east-1"`
	S3AccessKey   string `env:"S3_ACCESS_KEY"`
	S3SecretKey   string `env:"S3_SECRET_KEY"`
	PostBucket    string `env:"S3_POST_BUCKET"    envDefault:"post-images"`
	GalleryBucket string `env:"S3_GALLERY_BUCKET" envDefault:"wedding-gallery"`
	PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`
}

// ParseEnv loads Config from the process environment.
func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Port)
	}
	return nil
}

// StorageEnabled reports whether object storage is configured.
func (c Config) StorageEnabled() bool {
	return c.S3Endpoint != ""
}
