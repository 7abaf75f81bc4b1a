// Package models defines data structures for the bot configuration.
package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults match the constants the bot has always shipped with.
const (
	DefaultBatchSize    = 25
	DefaultBookmarkPage = "File:AddDOEContentTemplate"
	DefaultPlaceholder  = "{{DOE content needed}}"
)

// DefaultDOEHeaders returns the section names the bot recognizes when the
// config file does not override them.
func DefaultDOEHeaders() []string {
	return []string{"Topic at DOE", "DOE Relevance"}
}

// Config holds the deploy-time settings for the bot. Loaded once at startup
// and treated as immutable for the life of the process.
type Config struct {
	// APIURL is the full URL of the wiki's api.php endpoint.
	APIURL string `yaml:"api_url"`

	// Username and Password are bot-password credentials. Both may be
	// empty for read-only use (dry runs, inspect).
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// BatchSize is the number of page titles one run processes.
	BatchSize int `yaml:"batch_size"`

	// BookmarkPage is the page whose text stores the title the next run
	// starts from.
	BookmarkPage string `yaml:"bookmark_page"`

	// Placeholder is the template markup inserted into empty DOE sections.
	Placeholder string `yaml:"placeholder"`

	// DOEHeaders are the section names that get the placeholder when empty.
	DOEHeaders []string `yaml:"doe_headers"`

	// InsecureSkipVerify disables TLS certificate checks. The bot was built
	// for an intranet wiki behind a self-signed certificate.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`
}

// LoadConfig reads a YAML config file and applies defaults to unset values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.applyDefaults()

	if cfg.APIURL == "" {
		return nil, fmt.Errorf("config %s: api_url is required", path)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.BookmarkPage == "" {
		c.BookmarkPage = DefaultBookmarkPage
	}
	if c.Placeholder == "" {
		c.Placeholder = DefaultPlaceholder
	}
	if len(c.DOEHeaders) == 0 {
		c.DOEHeaders = DefaultDOEHeaders()
	}
}
