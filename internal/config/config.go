package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port" env:"PORT"`
	} `yaml:"server"`
	Storage struct {
		File string `yaml:"file" env:"DATA_FILE"`
	} `yaml:"storage"`
	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url" env:"POSTGRES_URL"`
	} `yaml:"postgres"`
	Auth struct {
		JWTSecret string `yaml:"jwtSecret" env:"JWT_SECRET"`
		TokenTTL  string `yaml:"tokenTtl" env:"TOKEN_TTL"`
	} `yaml:"auth"`
	Mail struct {
		Region   string `yaml:"region" env:"AWS_REGION"`
		From     string `yaml:"from" env:"MAIL_FROM"`
		FromName string `yaml:"fromName" env:"MAIL_FROM_NAME"`
	} `yaml:"mail"`
	Uploads struct {
		Dir      string `yaml:"dir" env:"UPLOAD_DIR"`
		MaxBytes int64  `yaml:"maxBytes" env:"UPLOAD_MAX_BYTES"`
	} `yaml:"uploads"`
	RateLimit struct {
		PerMinute int `yaml:"perMinute" env:"RATE_LIMIT_PER_MINUTE"`
	} `yaml:"rateLimit"`
}

// Default returns the configuration a bare checkout runs with: flat-file
// storage next to the binary, dev JWT secret, log-only mail.
func Default() Config {
	var cfg Config
	cfg.Server.Port = "3000"
	cfg.Storage.File = "db.json"
	cfg.Auth.JWTSecret = "devsecret"
	cfg.Auth.TokenTTL = "720h"
	cfg.Uploads.Dir = "uploads"
	cfg.Uploads.MaxBytes = 5 * 1024 * 1024
	cfg.RateLimit.PerMinute = 60
	return cfg
}

// Load layers, in order: defaults, the YAML file (if it exists), then
// environment variables. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// fall through to env
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Duration parses a duration string or returns the fallback if empty or
// invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
