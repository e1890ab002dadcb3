package config

import (
	"fmt"
	"strings"
)

// Validate checks values that tags cannot express. Load calls it automatically.
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error (got %q)", c.Log.Level)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}

	if c.Watch.Debounce <= 0 {
		return fmt.Errorf("watch.debounce must be > 0 (got %s)", c.Watch.Debounce)
	}

	for key, value := range c.Catalogue.Settings {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("catalogue.settings.%s must not be empty", key)
		}
	}

	return nil
}
