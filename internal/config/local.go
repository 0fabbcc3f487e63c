package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Storage backends for the durable session slot.
const (
	StorageLocal    = "local"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// LocalConfig holds configuration for local daemon mode
type LocalConfig struct {
	Daemon  DaemonConfig  `yaml:"daemon"`
	Storage StorageConfig `yaml:"storage"`
	Catalog CatalogConfig `yaml:"catalog"`
	Queue   QueueConfig   `yaml:"queue"`
	Notify  NotifyConfig  `yaml:"notify"`
}

// DaemonConfig holds daemon server settings
type DaemonConfig struct {
	Port     int    `yaml:"port"`
	Bind     string `yaml:"bind"`
	LogLevel string `yaml:"log_level"`
}

// StorageConfig selects where the durable session slot lives.
type StorageConfig struct {
	Backend string `yaml:"backend"` // local, sqlite, postgres
	Path    string `yaml:"path,omitempty"`
	DSN     string `yaml:"dsn,omitempty"` // postgres only
}

// CatalogConfig points at an optional collection file; empty means the
// built-in studio collection.
type CatalogConfig struct {
	Path string `yaml:"path,omitempty"`
}

// QueueConfig holds broker settings; an empty URL disables publishing.
type QueueConfig struct {
	URL     string `yaml:"url,omitempty"`
	Workers int    `yaml:"workers"`
}

// NotifyConfig holds outbound messaging settings.
type NotifyConfig struct {
	WebhookURL       string `yaml:"webhook_url,omitempty"`
	WhatsAppPhone    string `yaml:"whatsapp_phone"`
	WhatsAppGreeting string `yaml:"whatsapp_greeting"`
}

// Validate checks the parts of the config the daemon cannot limp along
// without.
func (c *LocalConfig) Validate() error {
	switch c.Storage.Backend {
	case StorageLocal, StorageSQLite:
	case StoragePostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage backend postgres requires a dsn")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if c.Daemon.Port <= 0 || c.Daemon.Port > 65535 {
		return fmt.Errorf("invalid daemon port %d", c.Daemon.Port)
	}

	return nil
}

// AtelierDir returns the path to ~/.atelier
func AtelierDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".atelier"), nil
}

// EnsureAtelierDir creates ~/.atelier and subdirectories if they don't exist
func EnsureAtelierDir() (string, error) {
	dir, err := AtelierDir()
	if err != nil {
		return "", err
	}

	subdirs := []string{
		"",
		"logs",
		"data",
	}

	for _, subdir := range subdirs {
		path := filepath.Join(dir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", fmt.Errorf("create dir %s: %w", path, err)
		}
	}

	return dir, nil
}

// DefaultLocalConfig returns sensible defaults for local mode
func DefaultLocalConfig() *LocalConfig {
	return &LocalConfig{
		Daemon: DaemonConfig{
			Port:     7433,
			Bind:     "127.0.0.1",
			LogLevel: "info",
		},
		Storage: StorageConfig{
			Backend: StorageLocal,
		},
		Queue: QueueConfig{
			Workers: 3,
		},
		Notify: NotifyConfig{
			WhatsAppPhone:    "233242650165",
			WhatsAppGreeting: "Hello Cognisance Fashion!",
		},
	}
}

// LoadLocalConfig loads configuration from ~/.atelier/config.yaml
func LoadLocalConfig() (*LocalConfig, error) {
	dir, err := AtelierDir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(dir, "config.yaml")

	// If config doesn't exist, return defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultLocalConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultLocalConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveLocalConfig saves configuration to ~/.atelier/config.yaml
func SaveLocalConfig(cfg *LocalConfig) error {
	dir, err := EnsureAtelierDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(dir, "config.yaml")

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}
