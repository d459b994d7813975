package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0, 65535] (got %d)", c.Server.Port)
	}

	if err := c.Identity.validate(); err != nil {
		return fmt.Errorf("identity: %w", err)
	}

	if err := c.Maps.validate(); err != nil {
		return fmt.Errorf("maps: %w", err)
	}

	if err := c.Matching.validate(); err != nil {
		return fmt.Errorf("matching: %w", err)
	}

	return nil
}

func (c *IdentityConfig) validate() error {
	scopes := ParseScopes(c.ScopesRaw)
	if len(scopes) == 0 {
		return fmt.Errorf("scopes must list at least one scope")
	}
	c.Scopes = scopes

	return nil
}

func (c *MapsConfig) validate() error {
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("base_url must be an http(s) URL (got %q)", c.BaseURL)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0 (got %d)", c.MaxRetries)
	}
	if c.BackoffBase <= 0 {
		return fmt.Errorf("backoff_base must be > 0 (got %v)", c.BackoffBase)
	}
	if c.JitterMax < 0 {
		return fmt.Errorf("jitter_max must be >= 0 (got %v)", c.JitterMax)
	}

	return nil
}

func (c *MatchingConfig) validate() error {
	if c.DefaultLimit <= 0 {
		return fmt.Errorf("default_limit must be > 0 (got %d)", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max_limit must be >= default_limit (got %d < %d)", c.MaxLimit, c.DefaultLimit)
	}

	return nil
}

// ParseScopes parses a comma-separated scope list into a slice, trimming
// whitespace and dropping empty items. An empty string returns nil.
func ParseScopes(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	scopes := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		scopes = append(scopes, p)
	}

	return scopes
}
