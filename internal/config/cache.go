package config

import (
	"strings"
	"time"
)

// CacheConfig defines settings for the response cache placed in front
// of the public car endpoints. When Enabled is false or no Redis client
// is available, caching is disabled. Methods lists the HTTP methods to
// cache, TTL the lifetime of entries, KeyStrategy which parts of the
// request contribute to the key, and MaxBodyBytes the largest response
// body that is stored.
type CacheConfig struct {
	Enabled      bool            `mapstructure:"enabled"`
	Methods      map[string]bool `mapstructure:"-"`
	TTL          time.Duration   `mapstructure:"ttl"`
	KeyStrategy  string          `mapstructure:"key_strategy"`
	Prefix       string          `mapstructure:"prefix" validate:"required"`
	MaxBodyBytes int             `mapstructure:"max_body_bytes" validate:"gte=0"`
}

// parseMethods turns "GET, head" into {"GET": true, "HEAD": true}.
func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(strings.ToUpper(p))
		if p != "" {
			m[p] = true
		}
	}
	return m
}
