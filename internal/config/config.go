// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package config

import "time"

// Config holds all application configuration.
type Config struct {
	Library   LibraryConfig   `koanf:"library"`
	Wikipedia WikipediaConfig `koanf:"wikipedia"`
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// LibraryConfig configures the Playnite library provider.
//
// Environment Variables:
//   - PLAYNITE_LIBRARY_JSON: file, directory containing games.json, or http(s) URL
//   - KEEPFEED_LIBRARY_EXCLUDED_GAMES: comma-separated names or ids
//   - KEEPFEED_LIBRARY_EXCLUDED_STATUSES: comma-separated completion statuses
//
// PLAYNITE_LIBRARY_MIN_* and PLAYNITE_LIBRARY_MAX_* are deliberately not mapped;
// they only appear in the library diagnostics log.
type LibraryConfig struct {
	JSONPath    string        `koanf:"json_path"`
	HTTPTimeout time.Duration `koanf:"http_timeout"`

	// Watch enables the fsnotify watcher in serve mode.
	Watch bool `koanf:"watch"`

	// Filters. A minimum above its maximum is legal and yields an empty library.
	MinTimePlayed              int      `koanf:"min_time_played" validate:"gte=0"`
	MaxTimePlayed              int      `koanf:"max_time_played" validate:"gte=-1"`
	ExcludedGames              []string `koanf:"excluded_games"`
	ExcludedCompletionStatuses []string `koanf:"excluded_completion_statuses"`
	MinReleaseYear             int      `koanf:"min_release_year" validate:"gte=0,lte=9999"`
	MaxReleaseYear             int      `koanf:"max_release_year" validate:"gte=0,lte=9999"`
	MinUserScore               int      `koanf:"min_user_score" validate:"gte=0,lte=100"`
	MinCriticScore             int      `koanf:"min_critic_score" validate:"gte=0,lte=100"`
	MinCommunityScore          int      `koanf:"min_community_score" validate:"gte=0,lte=100"`

	IncludeSourceInName bool `koanf:"include_source_in_name"`

	Objectives LibraryObjectivesConfig `koanf:"objectives"`
}

// LibraryObjectivesConfig toggles the library template groups.
type LibraryObjectivesConfig struct {
	Tags       bool `koanf:"tags"`
	Genres     bool `koanf:"genres"`
	Platforms  bool `koanf:"platforms"`
	Categories bool `koanf:"categories"`
	Series     bool `koanf:"series"`
	Sources    bool `koanf:"sources"`
	Features   bool `koanf:"features"`
	Years      bool `koanf:"years"`
	Ordinals   bool `koanf:"ordinals"`
	Playtime   bool `koanf:"playtime"`

	PlaytimeMinMinutes int `koanf:"playtime_min_minutes" validate:"gte=1"`
	PlaytimeMaxMinutes int `koanf:"playtime_max_minutes" validate:"gte=1"`
	PlaytimeStep       int `koanf:"playtime_step" validate:"gte=1"`
}

// WikipediaConfig configures the Wikipedia Game provider and its article caches.
type WikipediaConfig struct {
	// PackBaseDir is the parent of the wikipedia_game_packs directory.
	PackBaseDir   string `koanf:"pack_base_dir" validate:"required"`
	PackSubfolder string `koanf:"pack_subfolder"`

	RefreshTrending bool `koanf:"refresh_trending"`
	RefreshFeatured bool `koanf:"refresh_featured"`
	RefreshPopular  bool `koanf:"refresh_popular"`

	TrendingLimit int `koanf:"trending_limit" validate:"gte=1,lte=500"`
	FeaturedLimit int `koanf:"featured_limit" validate:"gte=1,lte=10000"`
	PopularLimit  int `koanf:"popular_limit" validate:"gte=1,lte=1000"`

	TrendingObjectives bool `koanf:"trending_objectives"`
	FeaturedObjectives bool `koanf:"featured_objectives"`
	PopularObjectives  bool `koanf:"popular_objectives"`
	ClickObjectives    bool `koanf:"click_objectives"`
	MinClicks          int  `koanf:"min_clicks" validate:"gte=1"`
	MaxClicks          int  `koanf:"max_clicks" validate:"gte=1"`

	APIURL       string        `koanf:"api_url" validate:"required,url"`
	PageviewsURL string        `koanf:"pageviews_url" validate:"required,url"`
	UserAgent    string        `koanf:"user_agent" validate:"required"`
	HTTPTimeout  time.Duration `koanf:"http_timeout"`

	// RequestsPerSecond paces outbound API calls; Burst allows short spikes.
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"gt=0"`
	Burst             int     `koanf:"burst" validate:"gte=1"`

	TrendingTTL time.Duration `koanf:"trending_ttl"`
	FeaturedTTL time.Duration `koanf:"featured_ttl"`
	PopularTTL  time.Duration `koanf:"popular_ttl"`

	// RefreshInterval drives the background cache warmer. Zero disables it.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	Snapshot SnapshotConfig `koanf:"snapshot"`
}

// SnapshotConfig selects where the last good article lists are persisted.
// Path enables Badger; RedisURL enables Redis. Both empty disables snapshots.
type SnapshotConfig struct {
	Path     string `koanf:"path"`
	RedisURL string `koanf:"redis_url"`
}

// ServerConfig holds the host bridge HTTP settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// SessionTTL bounds how long a provider session stays resolvable.
	SessionTTL time.Duration `koanf:"session_ttl"`

	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"gte=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level" validate:"oneof=trace debug info warn warning error disabled"`

	// Format is json or console.
	Format string `koanf:"format" validate:"oneof=json console"`

	Caller bool `koanf:"caller"`
}

// Load reads configuration from defaults, the config file found via
// CONFIG_PATH or DefaultConfigPaths, and the environment.
func Load() (*Config, error) {
	return LoadFrom(findConfigFile())
}
