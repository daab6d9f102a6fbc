// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package library

import (
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// toInt coerces a decoded JSON value to an int. Anything that is not a
// finite number or a numeric string yields ok=false.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		return parseIntString(string(n))
	case float64:
		return floatToInt(n)
	case int:
		return n, true
	case int64:
		return int(n), true
	case string:
		return parseIntString(n)
	default:
		return 0, false
	}
}

func parseIntString(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if i, err := strconv.Atoi(s); err == nil {
		return i, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return floatToInt(f)
}

func floatToInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.Abs(f) > 1e15 {
		return 0, false
	}
	return int(f), true
}

// intOr returns the coerced value or def.
func intOr(v any, def int) int {
	if n, ok := toInt(v); ok {
		return n
	}
	return def
}

func clamp(n, lo, hi int) int {
	return max(lo, min(n, hi))
}

// toIdentifier renders an id that may be a string or a number.
func toIdentifier(v any) string {
	switch id := v.(type) {
	case string:
		return strings.TrimSpace(id)
	case json.Number:
		return id.String()
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return ""
	}
}

// toName extracts a scalar name from a {"Name": ...} object or a plain string.
func toName(v any) *string {
	name, ok := itemName(v)
	if !ok {
		return nil
	}
	return &name
}

func toBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return err == nil && parsed
	case json.Number:
		n, ok := parseIntString(string(b))
		return ok && n != 0
	default:
		return false
	}
}

func toList(v any) []any {
	if list, ok := v.([]any); ok {
		return list
	}
	return nil
}

// yearFromDate pulls the year out of "2020-05-01", "2020-05-01T00:00:00" or
// {"ReleaseDate": "2020-05-01"}.
func yearFromDate(v any) int {
	switch d := v.(type) {
	case map[string]any:
		return yearFromDate(d["ReleaseDate"])
	case string:
		d = strings.TrimSpace(d)
		if len(d) < 4 {
			return 0
		}
		year, err := strconv.Atoi(d[:4])
		if err != nil || year < 1 {
			return 0
		}
		return year
	default:
		return 0
	}
}

func rawJSON(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}
