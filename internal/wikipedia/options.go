// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package wikipedia

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/keepfeed/internal/config"
)

// Options configures one Wikipedia Game provider instance.
type Options struct {
	Subfolder string `json:"subfolder"`

	RefreshTrending bool `json:"refresh_trending"`
	RefreshFeatured bool `json:"refresh_featured"`
	RefreshPopular  bool `json:"refresh_popular"`

	TrendingObjectives bool `json:"trending_objectives"`
	FeaturedObjectives bool `json:"featured_objectives"`
	PopularObjectives  bool `json:"popular_objectives"`
	ClickObjectives    bool `json:"click_objectives"`

	MinClicks int `json:"min_clicks" validate:"gte=1"`
	MaxClicks int `json:"max_clicks" validate:"gte=1,gtefield=MinClicks"`
}

// DefaultOptions enables every objective group and no pack refresh.
func DefaultOptions() Options {
	return Options{
		TrendingObjectives: true,
		FeaturedObjectives: true,
		PopularObjectives:  true,
		ClickObjectives:    true,
		MinClicks:          3,
		MaxClicks:          10,
	}
}

// OptionsFromConfig maps the wikipedia configuration section.
func OptionsFromConfig(cfg *config.WikipediaConfig) Options {
	return Options{
		Subfolder:          cfg.PackSubfolder,
		RefreshTrending:    cfg.RefreshTrending,
		RefreshFeatured:    cfg.RefreshFeatured,
		RefreshPopular:     cfg.RefreshPopular,
		TrendingObjectives: cfg.TrendingObjectives,
		FeaturedObjectives: cfg.FeaturedObjectives,
		PopularObjectives:  cfg.PopularObjectives,
		ClickObjectives:    cfg.ClickObjectives,
		MinClicks:          cfg.MinClicks,
		MaxClicks:          cfg.MaxClicks,
	}
}

func (o Options) ensureOptions() EnsureOptions {
	return EnsureOptions{
		Subfolder:       o.Subfolder,
		RefreshTrending: o.RefreshTrending,
		RefreshFeatured: o.RefreshFeatured,
		RefreshPopular:  o.RefreshPopular,
	}
}

// ParseOptions overlays a host-supplied option bag on base using the
// configuration key names. Values of the wrong type are ignored, and a
// click range whose bounds end up inverted is swapped.
func ParseOptions(base Options, bag map[string]any) Options {
	opts := base
	if v, ok := bag["pack_subfolder"].(string); ok {
		opts.Subfolder = v
	}
	for key, dst := range map[string]*bool{
		"refresh_trending":    &opts.RefreshTrending,
		"refresh_featured":    &opts.RefreshFeatured,
		"refresh_popular":     &opts.RefreshPopular,
		"trending_objectives": &opts.TrendingObjectives,
		"featured_objectives": &opts.FeaturedObjectives,
		"popular_objectives":  &opts.PopularObjectives,
		"click_objectives":    &opts.ClickObjectives,
	} {
		if b, ok := bag[key].(bool); ok {
			*dst = b
		}
	}
	if n, ok := positiveInt(bag["min_clicks"]); ok {
		opts.MinClicks = n
	}
	if n, ok := positiveInt(bag["max_clicks"]); ok {
		opts.MaxClicks = n
	}
	if opts.MinClicks > opts.MaxClicks {
		opts.MinClicks, opts.MaxClicks = opts.MaxClicks, opts.MinClicks
	}
	return opts
}

func positiveInt(v any) (int, bool) {
	var n int
	switch x := v.(type) {
	case float64:
		n = int(x)
	case int:
		n = x
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return 0, false
		}
		n = int(i)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, false
		}
		n = i
	default:
		return 0, false
	}
	return n, n > 0
}
