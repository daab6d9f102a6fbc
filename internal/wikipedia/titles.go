// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package wikipedia

import "strings"

// MainPage is never a usable article.
const MainPage = "Main Page"

var metaPrefixes = []string{"Special:", "Wikipedia:", "User:", "Template:", "File:"}

// IsMetaTitle reports whether title is a project page rather than an article.
func IsMetaTitle(title string) bool {
	if title == MainPage {
		return true
	}
	for _, p := range metaPrefixes {
		if strings.HasPrefix(title, p) {
			return true
		}
	}
	return false
}

// titleSet collects unique article titles in first-seen order up to a limit.
// A limit of zero or less means unbounded.
type titleSet struct {
	limit int
	seen  map[string]struct{}
	out   []string
}

func newTitleSet(limit int) *titleSet {
	return &titleSet{limit: limit, seen: make(map[string]struct{})}
}

// add records title unless it is blank, meta or a duplicate.
func (s *titleSet) add(title string) {
	title = strings.TrimSpace(title)
	if title == "" || s.full() || IsMetaTitle(title) {
		return
	}
	if _, dup := s.seen[title]; dup {
		return
	}
	s.seen[title] = struct{}{}
	s.out = append(s.out, title)
}

func (s *titleSet) full() bool {
	return s.limit > 0 && len(s.out) >= s.limit
}

func (s *titleSet) titles() []string {
	if s.out == nil {
		return []string{}
	}
	return s.out
}
