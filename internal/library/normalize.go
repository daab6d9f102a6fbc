// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package library

import (
	"fmt"
	"strings"
)

// rootKeys are the object keys that may hold the entry list, in lookup order.
var rootKeys = []string{"Games", "games", "Items", "items", "Library", "library"}

// Parse decodes and normalizes a library export.
func Parse(data []byte) ([]Entry, error) {
	root, err := Decode(data)
	if err != nil {
		return nil, err
	}
	raw, err := rootEntries(root)
	if err != nil {
		return nil, err
	}
	return Normalize(raw), nil
}

func rootEntries(root any) ([]any, error) {
	switch v := root.(type) {
	case []any:
		return v, nil
	case map[string]any:
		for _, key := range rootKeys {
			if list, ok := v[key].([]any); ok {
				return list, nil
			}
		}
		return nil, fmt.Errorf("%w: object without a Games/Items/Library list", ErrUnsupportedShape)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedShape, root)
	}
}

// Normalize converts raw decoded records into entries, preserving order.
// Records that are not objects or have no usable Name are skipped.
func Normalize(raw []any) []Entry {
	out := make([]Entry, 0, len(raw))
	for _, item := range raw {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if e, ok := normalizeEntry(obj); ok {
			out = append(out, e)
		}
	}
	return out
}

func normalizeEntry(obj map[string]any) (Entry, bool) {
	name, _ := obj["Name"].(string)
	name = strings.TrimSpace(name)
	if name == "" {
		return Entry{}, false
	}

	// Playtime is exported in seconds.
	playtimeSeconds := intOr(obj["Playtime"], 0)

	year := intOr(obj["ReleaseYear"], 0)
	if _, present := obj["ReleaseYear"]; !present {
		year = yearFromDate(obj["ReleaseDate"])
	}

	return Entry{
		Name:             name,
		ID:               toIdentifier(obj["Id"]),
		PlaytimeMinutes:  max(playtimeSeconds, 0) / 60,
		Source:           toName(obj["Source"]),
		CompletionStatus: toName(obj["CompletionStatus"]),
		ReleaseYear:      max(year, 0),
		UserScore:        clamp(intOr(obj["UserScore"], 0), 0, 100),
		CriticScore:      clamp(intOr(obj["CriticScore"], 0), 0, 100),
		CommunityScore:   clamp(intOr(obj["CommunityScore"], 0), 0, 100),
		Tags:             toList(obj["Tags"]),
		Genres:           toList(obj["Genres"]),
		Features:         toList(obj["Features"]),
		Platforms:        toList(obj["Platforms"]),
		Categories:       toList(obj["Categories"]),
		Series:           obj["Series"],
		Favorite:         toBool(obj["Favorite"]),
		Added:            rawJSON(obj["Added"]),
		Modified:         rawJSON(obj["Modified"]),
	}, true
}
