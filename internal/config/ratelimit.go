package config

import "time"

// RateLimitConfig drives the Redis token bucket guarding the auth
// endpoints. Capacity is the bucket size; RefillTokens are added every
// RefillInterval. TTL bounds how long an idle bucket survives.
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Capacity       int           `mapstructure:"capacity"`
	RefillTokens   int           `mapstructure:"refill_tokens"`
	RefillInterval time.Duration `mapstructure:"refill_interval"`
	TTL            time.Duration `mapstructure:"ttl"`
	KeyStrategy    string        `mapstructure:"key_strategy" validate:"omitempty,oneof=ip route ip_route"`
	Prefix         string        `mapstructure:"prefix" validate:"required"`
}

// normalize clamps values into a usable range so a bad env value never
// disables the limiter by accident.
func (c *RateLimitConfig) normalize() {
	if c.Capacity < 1 {
		c.Capacity = 1
	}
	if c.RefillTokens < 1 {
		c.RefillTokens = 1
	}
	if c.RefillInterval <= 0 {
		c.RefillInterval = time.Second
	}
	if minTTL := 5 * c.RefillInterval; c.TTL < minTTL {
		c.TTL = minTTL
	}
}
