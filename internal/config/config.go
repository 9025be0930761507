// Package config loads forge.config.json through viper and fills in the
// defaults a bare file leaves out.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Version     string     `json:"version" mapstructure:"version"`
	CatalogPath string     `json:"catalog_path" mapstructure:"catalog_path"`
	Generation  Generation `json:"generation" mapstructure:"generation"`
	Database    Database   `json:"database" mapstructure:"database"`
	Tokens      Tokens     `json:"tokens,omitempty" mapstructure:"tokens"`
}

// Generation carries the session defaults the gen command starts from.
// Flags override these per run.
type Generation struct {
	Rows      int   `json:"rows" mapstructure:"rows"`
	Seed      int64 `json:"seed" mapstructure:"seed"`
	ChunkSize int   `json:"chunk_size" mapstructure:"chunk_size"`
}

// Database names the provider and the environment variable holding the
// connection URL for incremental runs. The URL itself never lives in the
// config file.
type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	URLEnv   string `json:"url_env" mapstructure:"url_env"`
}

// Tokens overrides the built-in vocabulary behind phone and email
// synthesis. Empty lists keep the defaults.
type Tokens struct {
	PhonePrefixes []string `json:"phone_prefixes,omitempty" mapstructure:"phone_prefixes"`
	MailDomains   []string `json:"mail_domains,omitempty" mapstructure:"mail_domains"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Set defaults
	if cfg.Version == "" {
		cfg.Version = "1"
	}
	if cfg.CatalogPath == "" {
		cfg.CatalogPath = "forge/catalog.yaml"
	}
	if cfg.Generation.Rows == 0 {
		cfg.Generation.Rows = 10
	}
	if cfg.Generation.Seed == 0 && !viper.IsSet("generation.seed") {
		cfg.Generation.Seed = 42
	}
	if cfg.Generation.ChunkSize == 0 {
		cfg.Generation.ChunkSize = 100
	}
	if cfg.Database.Provider == "" {
		cfg.Database.Provider = "postgresql"
	}
	if cfg.Database.URLEnv == "" {
		cfg.Database.URLEnv = "DATABASE_URL"
	}

	return &cfg, nil
}

func (c *Config) GetDatabaseURL() (string, error) {
	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Database.URLEnv)
	}
	return dbURL, nil
}

func (c *Config) Validate() error {
	supportedProviders := []string{"postgresql", "postgres", "mysql", "sqlite", "sqlite3"}
	supported := false
	for _, provider := range supportedProviders {
		if c.Database.Provider == provider {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("unsupported database provider: %s. Supported providers: %v", c.Database.Provider, supportedProviders)
	}

	if c.CatalogPath == "" {
		return fmt.Errorf("catalog_path cannot be empty")
	}

	if c.Generation.Rows < 0 {
		return fmt.Errorf("generation.rows cannot be negative")
	}

	if c.Generation.ChunkSize < 0 {
		return fmt.Errorf("generation.chunk_size cannot be negative")
	}

	return nil
}
