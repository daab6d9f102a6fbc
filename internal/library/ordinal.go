// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package library

import "strconv"

// Ordinal formats n as 1st, 2nd, 3rd, 4th, 11th, 21st, 112th...
func Ordinal(n int) string {
	suffix := "th"
	if tens := n % 100; tens < 10 || tens > 20 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}

func ordinals(lo, hi int) []string {
	out := make([]string, 0, hi-lo+1)
	for n := lo; n <= hi; n++ {
		out = append(out, Ordinal(n))
	}
	return out
}
