// Package config loads engine configuration from an optional YAML file
// with environment-variable overrides.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/hellenike/lexis/pkg/store"
)

// Config is the root configuration.
type Config struct {
	Store      StoreConfig   `yaml:"store"`
	Dictionary string        `yaml:"dictionary" env:"LEXIS_DICTIONARY" env-default:"woordenboekgrieks"`
	Resolve    ResolveConfig `yaml:"resolve"`
	Log        LogConfig     `yaml:"log"`
}

// StoreConfig holds graph-store connection settings.
type StoreConfig struct {
	URI        string        `yaml:"uri"         env:"LEXIS_STORE_URI"         env-default:"bolt://localhost:7687"`
	User       string        `yaml:"user"        env:"LEXIS_STORE_USER"        env-default:"neo4j"`
	Password   string        `yaml:"password"    env:"LEXIS_STORE_PASSWORD"`
	Database   string        `yaml:"database"    env:"LEXIS_STORE_DATABASE"    env-default:"neo4j"`
	Timeout    time.Duration `yaml:"timeout"     env:"LEXIS_STORE_TIMEOUT"     env-default:"5s"`
	MaxRetries int           `yaml:"max_retries" env:"LEXIS_STORE_MAX_RETRIES" env-default:"2"`
}

// ResolveConfig holds the resolution engine's tuning knobs.
type ResolveConfig struct {
	BatchSize         int `yaml:"batch_size"          env:"LEXIS_BATCH_SIZE"          env-default:"6"`
	Concurrency       int `yaml:"concurrency"         env:"LEXIS_CONCURRENCY"         env-default:"4"`
	MaxHops           int `yaml:"max_hops"            env:"LEXIS_MAX_HOPS"            env-default:"3"`
	SubstantiveMinLen int `yaml:"substantive_min_len" env:"LEXIS_SUBSTANTIVE_MIN_LEN" env-default:"20"`
	MinContent        int `yaml:"min_content"         env:"LEXIS_MIN_CONTENT"         env-default:"10"`
	ContainsLimit     int `yaml:"contains_limit"      env:"LEXIS_CONTAINS_LIMIT"      env-default:"3"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LEXIS_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LEXIS_LOG_FORMAT" env-default:"text"`
}

// Load reads configuration from path (YAML) plus the environment; an
// empty path reads the environment only.
func Load(path string) (*Config, error) {
	var cfg Config
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Resolve.BatchSize > store.MaxBatchKeys {
		return fmt.Errorf("batch_size %d exceeds transport ceiling %d", c.Resolve.BatchSize, store.MaxBatchKeys)
	}
	if c.Resolve.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive")
	}
	if c.Resolve.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive")
	}
	return nil
}
