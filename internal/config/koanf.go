// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config file locations searched in order.
var DefaultConfigPaths = []string{
	"keepfeed.yaml",
	"keepfeed.yml",
	"/etc/keepfeed/config.yaml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Library: LibraryConfig{
			HTTPTimeout:         15 * time.Second,
			Watch:               true,
			MinTimePlayed:       0,
			MaxTimePlayed:       -1,
			MinReleaseYear:      0,
			MaxReleaseYear:      9999,
			IncludeSourceInName: true,
			Objectives: LibraryObjectivesConfig{
				Tags:               true,
				Genres:             true,
				Platforms:          true,
				Categories:         true,
				Series:             true,
				Sources:            true,
				Features:           false,
				Years:              true,
				Ordinals:           true,
				Playtime:           true,
				PlaytimeMinMinutes: 15,
				PlaytimeMaxMinutes: 120,
				PlaytimeStep:       15,
			},
		},
		Wikipedia: WikipediaConfig{
			PackBaseDir:        ".",
			TrendingLimit:      100,
			FeaturedLimit:      500,
			PopularLimit:       100,
			TrendingObjectives: true,
			FeaturedObjectives: true,
			PopularObjectives:  true,
			ClickObjectives:    true,
			MinClicks:          3,
			MaxClicks:          10,
			APIURL:             "https://en.wikipedia.org/w/api.php",
			PageviewsURL:       "https://wikimedia.org/api/rest_v1/metrics/pageviews/top/en.wikipedia/all-access",
			UserAgent:          "keepfeed/1.0 (https://github.com/tomtom215/keepfeed)",
			HTTPTimeout:        10 * time.Second,
			RequestsPerSecond:  5,
			Burst:              5,
			TrendingTTL:        time.Hour,
			FeaturedTTL:        24 * time.Hour,
			PopularTTL:         time.Hour,
			RefreshInterval:    30 * time.Minute,
		},
		Server: ServerConfig{
			Host:              "127.0.0.1",
			Port:              8089,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			SessionTTL:        6 * time.Hour,
			RateLimitRequests: 120,
			RateLimitWindow:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadFrom layers defaults, the YAML file at path (skipped when empty) and
// environment variables, then validates the result.
func LoadFrom(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"library.excluded_games",
	"library.excluded_completion_statuses",
	"server.cors_origins",
}

// processSliceFields splits comma-separated env values for slice fields.
// Values that came from YAML are already slices and are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"playnite_library_json":              "library.json_path",
	"keepfeed_library_http_timeout":      "library.http_timeout",
	"keepfeed_library_watch":             "library.watch",
	"keepfeed_library_excluded_games":    "library.excluded_games",
	"keepfeed_library_excluded_statuses": "library.excluded_completion_statuses",

	"keepfeed_pack_dir":           "wikipedia.pack_base_dir",
	"keepfeed_pack_subfolder":     "wikipedia.pack_subfolder",
	"keepfeed_refresh_trending":   "wikipedia.refresh_trending",
	"keepfeed_refresh_featured":   "wikipedia.refresh_featured",
	"keepfeed_refresh_popular":    "wikipedia.refresh_popular",
	"keepfeed_wikipedia_api_url":  "wikipedia.api_url",
	"keepfeed_pageviews_url":      "wikipedia.pageviews_url",
	"keepfeed_user_agent":         "wikipedia.user_agent",
	"keepfeed_refresh_interval":   "wikipedia.refresh_interval",
	"keepfeed_snapshot_path":      "wikipedia.snapshot.path",
	"keepfeed_snapshot_redis_url": "wikipedia.snapshot.redis_url",

	"http_host":           "server.host",
	"http_port":           "server.port",
	"session_ttl":         "server.session_ttl",
	"cors_origins":        "server.cors_origins",
	"rate_limit_requests": "server.rate_limit_requests",
	"rate_limit_window":   "server.rate_limit_window",
	"rate_limit_disabled": "server.rate_limit_disabled",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps environment variable names to koanf paths.
// Unmapped keys return "" and are skipped, so the rest of the environment
// cannot leak into the config.
//
// Examples:
//   - PLAYNITE_LIBRARY_JSON -> library.json_path
//   - KEEPFEED_PACK_DIR -> wikipedia.pack_base_dir
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
