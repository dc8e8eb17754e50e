package invitation

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxNameLength     = 40
	DefaultMaxMessageLength  = 1000
	DefaultMaxPasswordLength = 64
	DefaultDuplicateWindow   = 600
	DefaultMaxPartySize      = 10
)

// Cache holds the parsed invitation file and swaps it on Reload.
type Cache struct {
	path   string
	config *Config
	mu     sync.RWMutex
}

func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// NewStaticCache wraps an already built config. Reload is a no-op for it.
func NewStaticCache(config *Config) *Cache {
	applyDefaults(config)
	return &Cache{config: config}
}

func (c *Cache) Reload() (*Config, error) {
	if c.path == "" {
		return c.Get(), nil
	}

	config, err := parseConfig(c.path)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", c.path, err)
	}

	c.mu.Lock()
	c.config = config
	c.mu.Unlock()

	slog.Debug("Invitation loaded", "path", c.path, "title", config.DisplayTitle(), "filters", len(config.Guestbook.Filters))

	return config, nil
}

func (c *Cache) Get() *Config {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.config == nil {
		config := &Config{}
		applyDefaults(config)
		return config
	}
	return c.config
}

func (c *Cache) GuestbookSettings() GuestbookSettings {
	return c.Get().Guestbook
}

func (c *Cache) RSVPSettings() RSVPSettings {
	return c.Get().RSVP
}

func parseConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyDefaults(&config)

	return &config, nil
}

func applyDefaults(config *Config) {
	gb := &config.Guestbook
	if gb.MaxNameLength == 0 {
		gb.MaxNameLength = DefaultMaxNameLength
	}
	if gb.MaxMessageLength == 0 {
		gb.MaxMessageLength = DefaultMaxMessageLength
	}
	if gb.MaxPasswordLength == 0 {
		gb.MaxPasswordLength = DefaultMaxPasswordLength
	}
	if gb.DuplicateWindow == 0 {
		gb.DuplicateWindow = DefaultDuplicateWindow
	}
	if config.RSVP.MaxPartySize == 0 {
		config.RSVP.MaxPartySize = DefaultMaxPartySize
	}
}

func validateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("config is nil")
	}

	if config.Date != "" {
		if _, err := time.Parse(time.DateOnly, config.Date); err != nil {
			return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
		}
	}

	positiveFields := map[string]int{
		"max name length":     config.Guestbook.MaxNameLength,
		"max message length":  config.Guestbook.MaxMessageLength,
		"max password length": config.Guestbook.MaxPasswordLength,
		"max party size":      config.RSVP.MaxPartySize,
	}

	for fieldName, fieldValue := range positiveFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	if config.Guestbook.DuplicateWindow < -1 {
		return fmt.Errorf("duplicate window must be -1 (disabled) or a number of seconds")
	}

	validFields := map[string]bool{
		"author_name": true,
		"message":     true,
	}

	for i, filter := range config.Guestbook.Filters {
		if !validFields[filter.Field] {
			return fmt.Errorf("invalid filter field at index %d: %s", i, filter.Field)
		}
		if len(filter.Includes) == 0 && len(filter.Excludes) == 0 {
			return fmt.Errorf("filter at index %d must have at least one include or exclude rule", i)
		}
	}

	return nil
}
