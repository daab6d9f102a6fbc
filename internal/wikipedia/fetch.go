// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package wikipedia

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	// maxQueryLimit is the MediaWiki per-request cap for list queries.
	maxQueryLimit = 500

	// maxFeaturedPages bounds cmcontinue pagination.
	maxFeaturedPages = 50

	featuredCategory = "Category:Featured articles"
)

func (c *Client) apiQuery(params url.Values) string {
	params.Set("action", "query")
	params.Set("format", "json")
	sep := "?"
	if strings.Contains(c.apiURL, "?") {
		sep = "&"
	}
	return c.apiURL + sep + params.Encode()
}

func parseJSON(body []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("%w: invalid JSON", ErrMalformedResponse)
	}
	return gjson.ParseBytes(body), nil
}

// Trending returns up to limit distinct titles of recently created or
// edited main-namespace articles.
func (c *Client) Trending(ctx context.Context, limit int) ([]string, error) {
	params := url.Values{}
	params.Set("list", "recentchanges")
	params.Set("rctype", "new|edit")
	params.Set("rcnamespace", "0")
	params.Set("rclimit", strconv.Itoa(min(limit, maxQueryLimit)))

	body, err := c.get(ctx, c.apiQuery(params))
	if err != nil {
		return nil, fmt.Errorf("trending: %w", err)
	}
	doc, err := parseJSON(body)
	if err != nil {
		return nil, fmt.Errorf("trending: %w", err)
	}
	changes := doc.Get("query.recentchanges")
	if !changes.IsArray() {
		return nil, fmt.Errorf("trending: %w: missing query.recentchanges", ErrMalformedResponse)
	}

	set := newTitleSet(limit)
	changes.ForEach(func(_, v gjson.Result) bool {
		set.add(v.Get("title").String())
		return !set.full()
	})
	return set.titles(), nil
}

// Featured returns up to limit members of the featured articles category,
// following cmcontinue until the category or the limit is exhausted.
func (c *Client) Featured(ctx context.Context, limit int) ([]string, error) {
	set := newTitleSet(limit)
	var cont url.Values

	for page := 0; page < maxFeaturedPages && !set.full(); page++ {
		params := url.Values{}
		params.Set("list", "categorymembers")
		params.Set("cmtitle", featuredCategory)
		params.Set("cmnamespace", "0")
		params.Set("cmlimit", strconv.Itoa(min(limit, maxQueryLimit)))
		for k, v := range cont {
			params[k] = v
		}

		body, err := c.get(ctx, c.apiQuery(params))
		if err != nil {
			return nil, fmt.Errorf("featured page %d: %w", page, err)
		}
		doc, err := parseJSON(body)
		if err != nil {
			return nil, fmt.Errorf("featured page %d: %w", page, err)
		}
		members := doc.Get("query.categorymembers")
		if !members.IsArray() {
			return nil, fmt.Errorf("featured page %d: %w: missing query.categorymembers", page, ErrMalformedResponse)
		}
		members.ForEach(func(_, v gjson.Result) bool {
			set.add(v.Get("title").String())
			return !set.full()
		})

		next := doc.Get("continue.cmcontinue")
		if !next.Exists() || next.String() == "" {
			break
		}
		cont = url.Values{"cmcontinue": {next.String()}}
		if token := doc.Get("continue.continue"); token.Exists() {
			cont.Set("continue", token.String())
		}
	}
	return set.titles(), nil
}

// Popular returns up to limit of yesterday's (UTC) most viewed articles.
func (c *Client) Popular(ctx context.Context, limit int) ([]string, error) {
	day := c.now().UTC().AddDate(0, 0, -1)
	reqURL := fmt.Sprintf("%s/%04d/%02d/%02d", c.pageviewsURL, day.Year(), int(day.Month()), day.Day())

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("popular: %w", err)
	}
	doc, err := parseJSON(body)
	if err != nil {
		return nil, fmt.Errorf("popular: %w", err)
	}
	articles := doc.Get("items.0.articles")
	if !articles.IsArray() {
		return nil, fmt.Errorf("popular: %w: missing items[0].articles", ErrMalformedResponse)
	}

	set := newTitleSet(limit)
	articles.ForEach(func(_, v gjson.Result) bool {
		set.add(strings.ReplaceAll(v.Get("article").String(), "_", " "))
		return !set.full()
	})
	return set.titles(), nil
}
