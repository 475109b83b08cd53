package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file at the repo root.
const FileName = "anggaran.yaml"

// EnvDatabaseURL overrides Storage.DSN when set.
const EnvDatabaseURL = "ANGGARAN_DATABASE_URL"

// Storage drivers.
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config represents the top-level anggaran.yaml configuration.
type Config struct {
	Entity  EntityConfig  `yaml:"entity"`
	Import  ImportConfig  `yaml:"import"`
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
	Git     GitConfig     `yaml:"git"`
}

// EntityConfig identifies the default entity imports are scoped to.
type EntityConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// ImportConfig tunes the import pipeline and the inbox watcher.
type ImportConfig struct {
	MaxHeaderScan      int    `yaml:"max_header_scan"`
	DefaultCurrency    string `yaml:"default_currency"`
	PreviewSize        int    `yaml:"preview_size"`
	Schedule           string `yaml:"schedule"` // cron spec for `watch`
	IndonesianKeywords bool   `yaml:"indonesian_keywords"`
}

// StorageConfig selects the ledger backend.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn,omitempty"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads an anggaran.yaml file from disk. Missing fields take their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("", "")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadProject loads <root>/anggaran.yaml after reading <root>/.env, then
// applies environment overrides.
func LoadProject(root string) (*Config, error) {
	if err := LoadEnv(root); err != nil {
		return nil, err
	}
	cfg, err := Load(filepath.Join(root, FileName))
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// LoadEnv reads <root>/.env into the process environment. Variables that
// are already set win. A missing file is not an error.
func LoadEnv(root string) error {
	err := godotenv.Load(filepath.Join(root, ".env"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv() {
	if dsn := os.Getenv(EnvDatabaseURL); dsn != "" {
		c.Storage.DSN = dsn
		if c.Storage.Driver == DriverFile {
			c.Storage.Driver = DriverPostgres
		}
	}
}

// Validate checks field combinations Load cannot express in YAML alone.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverFile, DriverMemory:
	case DriverPostgres:
		if c.Storage.DSN == "" && os.Getenv(EnvDatabaseURL) == "" {
			return fmt.Errorf("storage driver %q needs a dsn or %s", c.Storage.Driver, EnvDatabaseURL)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Import.MaxHeaderScan < 0 {
		return fmt.Errorf("import.max_header_scan must not be negative")
	}
	return nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(entityID, entityName string) *Config {
	return &Config{
		Entity: EntityConfig{
			ID:   entityID,
			Name: entityName,
		},
		Import: ImportConfig{
			MaxHeaderScan:   20,
			DefaultCurrency: "IDR",
			PreviewSize:     5,
			Schedule:        "@every 5m",
		},
		Storage: StorageConfig{
			Driver: DriverFile,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Anggaran Importer",
			AuthorEmail: "importer@anggaran.dev",
		},
	}
}
