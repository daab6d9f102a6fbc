// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/keepfeed/internal/validation"
)

// Validate checks field rules first, then the cross-field constraints the
// struct tags cannot express.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	if err := c.validateLibrary(); err != nil {
		return err
	}
	if err := c.validateWikipedia(); err != nil {
		return err
	}
	return c.validateServer()
}

func (c *Config) validateLibrary() error {
	if err := checkTimeout("library.http_timeout", c.Library.HTTPTimeout, time.Second, time.Minute); err != nil {
		return err
	}
	o := c.Library.Objectives
	if o.PlaytimeMinMinutes > o.PlaytimeMaxMinutes {
		return fmt.Errorf("library.objectives.playtime_min_minutes (%d) must not exceed playtime_max_minutes (%d)",
			o.PlaytimeMinMinutes, o.PlaytimeMaxMinutes)
	}
	return nil
}

func (c *Config) validateWikipedia() error {
	w := c.Wikipedia
	// Wikipedia asks API clients to time out between 10 and 15 seconds.
	if err := checkTimeout("wikipedia.http_timeout", w.HTTPTimeout, 10*time.Second, 15*time.Second); err != nil {
		return err
	}
	if w.MinClicks > w.MaxClicks {
		return fmt.Errorf("wikipedia.min_clicks (%d) must not exceed wikipedia.max_clicks (%d)", w.MinClicks, w.MaxClicks)
	}
	for name, ttl := range map[string]time.Duration{
		"wikipedia.trending_ttl": w.TrendingTTL,
		"wikipedia.featured_ttl": w.FeaturedTTL,
		"wikipedia.popular_ttl":  w.PopularTTL,
	} {
		if ttl <= 0 {
			return fmt.Errorf("%s must be positive, got %v", name, ttl)
		}
	}
	if w.RefreshInterval < 0 {
		return fmt.Errorf("wikipedia.refresh_interval must not be negative, got %v", w.RefreshInterval)
	}
	if w.Snapshot.Path != "" && w.Snapshot.RedisURL != "" {
		return fmt.Errorf("wikipedia.snapshot: set either path or redis_url, not both")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.SessionTTL <= 0 {
		return fmt.Errorf("server.session_ttl must be positive, got %v", c.Server.SessionTTL)
	}
	if !c.Server.RateLimitDisabled && c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("server.rate_limit_window must be positive when rate limiting is enabled")
	}
	return nil
}

func checkTimeout(name string, d, lo, hi time.Duration) error {
	if d < lo || d > hi {
		return fmt.Errorf("%s must be between %v and %v, got %v", name, lo, hi, d)
	}
	return nil
}
