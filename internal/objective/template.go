// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

// Package objective defines the host contract shared by every provider.
//
// Providers hand out Template shells whose labels contain upper-case tokens
// (GAME, TAG, ARTICLE...). Token values are not part of the shell: the host
// calls Resolve at draw time, so values always reflect the provider's state
// when the objective is rolled, not when the template list was built.
package objective

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// ErrUnknownToken is returned by Resolve for tokens a provider does not serve.
var ErrUnknownToken = errors.New("unknown token")

// ErrInsufficientValues is returned by Render when a token has fewer distinct
// values than its Variable requests.
var ErrInsufficientValues = errors.New("not enough values for token")

// Variable is a named free slot in a label. Count distinct values are drawn
// for it; the label must contain the token at least Count times.
type Variable struct {
	Token string `json:"token" validate:"required,token"`
	Count int    `json:"count" validate:"gte=1"`
}

// Template is an objective shell.
type Template struct {
	Label           string     `json:"label" validate:"required"`
	Variables       []Variable `json:"variables" validate:"dive"`
	IsTimeConsuming bool       `json:"is_time_consuming"`
	IsDifficult     bool       `json:"is_difficult"`
	Weight          int        `json:"weight" validate:"gte=1"`
}

// Resolver returns the live candidate list for a token.
type Resolver interface {
	Resolve(ctx context.Context, token string) ([]string, error)
}

// Provider is implemented by every objective data provider.
type Provider interface {
	Resolver
	Templates(ctx context.Context) []Template
	ConstraintTemplates(ctx context.Context) []Template
}

// New builds a template with weight 1 and one draw per token.
func New(label string, tokens ...string) Template {
	vars := make([]Variable, 0, len(tokens))
	for _, tok := range tokens {
		vars = append(vars, Variable{Token: tok, Count: 1})
	}
	return Template{Label: label, Variables: vars, Weight: 1}
}

// Draw sets how many distinct values the token needs.
func (t Template) Draw(token string, count int) Template {
	vars := make([]Variable, len(t.Variables))
	copy(vars, t.Variables)
	for i := range vars {
		if vars[i].Token == token {
			vars[i].Count = count
		}
	}
	t.Variables = vars
	return t
}

// Weighted returns a copy with weight w.
func (t Template) Weighted(w int) Template {
	t.Weight = w
	return t
}

// TimeConsuming marks the template as time consuming.
func (t Template) TimeConsuming() Template {
	t.IsTimeConsuming = true
	return t
}

// Difficult marks the template as difficult.
func (t Template) Difficult() Template {
	t.IsDifficult = true
	return t
}

var tokenPattern = regexp.MustCompile(`\b[A-Z][A-Z0-9_]*\b`)

// Check verifies that each variable's token occurs in the label often enough.
func (t Template) Check() error {
	counts := make(map[string]int)
	for _, tok := range tokenPattern.FindAllString(t.Label, -1) {
		counts[tok]++
	}
	for _, v := range t.Variables {
		if counts[v.Token] < v.Count {
			return fmt.Errorf("template %q: token %s occurs %d times, needs %d", t.Label, v.Token, counts[v.Token], v.Count)
		}
	}
	return nil
}

// DedupeLabels drops templates whose label was already seen, keeping the
// first occurrence and the original order.
func DedupeLabels(templates []Template) []Template {
	seen := make(map[string]struct{}, len(templates))
	out := make([]Template, 0, len(templates))
	for _, t := range templates {
		if _, dup := seen[t.Label]; dup {
			continue
		}
		seen[t.Label] = struct{}{}
		out = append(out, t)
	}
	return out
}
