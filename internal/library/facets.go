// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package library

import (
	"maps"
	"slices"
)

type stringSet map[string]struct{}

func (s stringSet) add(names []string) {
	for _, n := range names {
		s[n] = struct{}{}
	}
}

func (s stringSet) sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// FacetIndex accumulates the distinct facet values of a set of entries.
// The zero value is not usable; call NewFacetIndex.
type FacetIndex struct {
	categories stringSet
	series     stringSet
	tags       stringSet
	genres     stringSet
	platforms  stringSet
	features   stringSet
	sources    stringSet
	years      map[int]struct{}
}

// NewFacetIndex returns an empty index.
func NewFacetIndex() *FacetIndex {
	return &FacetIndex{
		categories: stringSet{},
		series:     stringSet{},
		tags:       stringSet{},
		genres:     stringSet{},
		platforms:  stringSet{},
		features:   stringSet{},
		sources:    stringSet{},
		years:      map[int]struct{}{},
	}
}

// Add folds one entry into the index.
func (f *FacetIndex) Add(e *Entry) {
	f.categories.add(FacetNames(e.Categories))
	f.series.add(FacetNames(e.Series))
	f.tags.add(FacetNames(e.Tags))
	f.genres.add(FacetNames(e.Genres))
	f.platforms.add(FacetNames(e.Platforms))
	f.features.add(FacetNames(e.Features))
	if e.Source != nil && *e.Source != "" {
		f.sources[*e.Source] = struct{}{}
	}
	if e.ReleaseYear > 0 {
		f.years[e.ReleaseYear] = struct{}{}
	}
}

func (f *FacetIndex) Categories() []string { return f.categories.sorted() }
func (f *FacetIndex) Series() []string     { return f.series.sorted() }
func (f *FacetIndex) Tags() []string       { return f.tags.sorted() }
func (f *FacetIndex) Genres() []string     { return f.genres.sorted() }
func (f *FacetIndex) Platforms() []string  { return f.platforms.sorted() }
func (f *FacetIndex) Features() []string   { return f.features.sorted() }
func (f *FacetIndex) Sources() []string    { return f.sources.sorted() }

// Years returns the distinct known release years, ascending.
func (f *FacetIndex) Years() []int {
	return slices.Sorted(maps.Keys(f.years))
}

// FacetCounts is the number of distinct values per facet.
type FacetCounts struct {
	Categories int `json:"categories"`
	Series     int `json:"series"`
	Tags       int `json:"tags"`
	Genres     int `json:"genres"`
	Platforms  int `json:"platforms"`
	Features   int `json:"features"`
	Sources    int `json:"sources"`
	Years      int `json:"years"`
}

// Counts returns the distinct value counts.
func (f *FacetIndex) Counts() FacetCounts {
	return FacetCounts{
		Categories: len(f.categories),
		Series:     len(f.series),
		Tags:       len(f.tags),
		Genres:     len(f.genres),
		Platforms:  len(f.platforms),
		Features:   len(f.features),
		Sources:    len(f.sources),
		Years:      len(f.years),
	}
}
