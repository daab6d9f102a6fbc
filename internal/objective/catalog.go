// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package objective

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"
)

// Source produces the current values for a token.
type Source func(ctx context.Context) []string

// Catalog maps tokens to sources. It is immutable after construction and
// safe for concurrent use.
type Catalog struct {
	sources map[string]Source
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{sources: make(map[string]Source)}
}

// Bind registers src for token and returns the catalog for chaining.
// Bind is only called while a provider is being constructed.
func (c *Catalog) Bind(token string, src Source) *Catalog {
	c.sources[token] = src
	return c
}

// Resolve implements Resolver.
func (c *Catalog) Resolve(ctx context.Context, token string) ([]string, error) {
	src, ok := c.sources[token]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownToken, token)
	}
	return src(ctx), nil
}

// Tokens lists the bound tokens, sorted.
func (c *Catalog) Tokens() []string {
	out := make([]string, 0, len(c.sources))
	for tok := range c.sources {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

// Static serves a fixed list.
func Static(values ...string) Source {
	return func(context.Context) []string { return values }
}

// Range serves min..max inclusive in steps of step, formatted as decimals.
func Range(lo, hi, step int) Source {
	if step < 1 {
		step = 1
	}
	var values []string
	for n := lo; n <= hi; n += step {
		values = append(values, strconv.Itoa(n))
	}
	return Static(values...)
}

// Ints adapts an int-valued accessor.
func Ints(fn func(ctx context.Context) []int) Source {
	return func(ctx context.Context) []string {
		ints := fn(ctx)
		out := make([]string, len(ints))
		for i, n := range ints {
			out[i] = strconv.Itoa(n)
		}
		return out
	}
}

// Render fills the label of t with values drawn from r. Each variable draws
// Count distinct values, substituted into successive occurrences of its token.
func Render(ctx context.Context, t Template, r Resolver, rng *rand.Rand) (string, error) {
	drawn := make(map[string][]string, len(t.Variables))
	for _, v := range t.Variables {
		values, err := r.Resolve(ctx, v.Token)
		if err != nil {
			return "", err
		}
		picks, err := pick(values, v.Count, rng)
		if err != nil {
			return "", fmt.Errorf("%w: %s has %d, needs %d", err, v.Token, len(distinct(values)), v.Count)
		}
		drawn[v.Token] = picks
	}

	var b strings.Builder
	last := 0
	for _, loc := range tokenPattern.FindAllStringIndex(t.Label, -1) {
		tok := t.Label[loc[0]:loc[1]]
		queue := drawn[tok]
		if len(queue) == 0 {
			continue
		}
		b.WriteString(t.Label[last:loc[0]])
		b.WriteString(queue[0])
		drawn[tok] = queue[1:]
		last = loc[1]
	}
	b.WriteString(t.Label[last:])
	return b.String(), nil
}

func pick(values []string, n int, rng *rand.Rand) ([]string, error) {
	pool := distinct(values)
	if len(pool) < n {
		return nil, ErrInsufficientValues
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool[:n], nil
}

func distinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
