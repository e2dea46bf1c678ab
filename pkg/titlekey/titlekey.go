// Copyright (c) 2026 GwenBooks. All rights reserved.
// Author: dev@gwenbooks.app

// Package titlekey derives canonical comparison keys from book titles.
//
// # Usage
//
// Search results arrive from four catalogues that spell the same work in
// slightly different ways ("Émile: or, On Education" vs "EMILE, OR ON
// EDUCATION"). The aggregator deduplicates on the key produced here, so
// the key must be stable across accents, case, and stray punctuation.
package titlekey

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// From converts an arbitrary Unicode title into its canonical dedupe key.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD (decomposes accented chars: é → e + combining acute).
// 2. Removes combining marks (accents).
// 3. Applies Unicode case folding (stronger than ToLower for non-ASCII).
// 4. Collapses every run of non-alphanumeric characters into one space.
// 5. Trims leading/trailing whitespace.
func From(title string) string {
	// 1+2. Normalize and remove accents
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	result, _, _ := transform.String(t, title)

	// 3. Case folding. A Caser is stateful, so a fresh one per call keeps
	// this function safe for concurrent use.
	result = cases.Fold().String(result)

	// 4. Collapse punctuation and whitespace runs
	var b strings.Builder
	b.Grow(len(result))
	pendingSpace := false
	for _, r := range result {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}

	return b.String()
}

// Equal reports whether two titles collapse to the same canonical key.
func Equal(a, b string) bool {
	return From(a) == From(b)
}
