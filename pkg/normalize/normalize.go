// Package normalize canonicalizes text before any content check sees it,
// closing off the Unicode tricks (invisible characters, homoglyphs,
// compatibility variants) callers use to smuggle banned content past
// literal pattern matching.
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// invisibleSet is the fixed set of code points stripped outright: zero-width
// joiners/spaces, directional marks, the word joiner, BOM, soft hyphen, and
// the invisible math operators.
var invisibleSet = map[rune]bool{
	'​': true, '‌': true, '‍': true,
	'‎': true, '‏': true,
	'⁠': true, '﻿': true, '­': true,
	'⁡': true, '⁢': true, '⁣': true, '⁤': true,
}

// homoglyphTable folds common Cyrillic and fullwidth Latin look-alikes to
// their ASCII equivalents. This is a closed, design-constant table —
// extending it is a config change, not a runtime knob (spec.md §4.1).
var homoglyphTable = buildHomoglyphTable()

func buildHomoglyphTable() map[rune]rune {
	t := map[rune]rune{
		'А': 'A', 'В': 'B', 'Е': 'E', 'О': 'O', 'Р': 'P',
		'а': 'a', 'е': 'e', 'о': 'o', 'р': 'p', 'с': 'c',
		'у': 'y', 'х': 'x',
	}
	// Fullwidth Latin block U+FF21..U+FF3A (A-Z) and U+FF41..U+FF5A (a-z)
	// maps onto ASCII by a constant offset.
	for r := rune(0xFF21); r <= 0xFF3A; r++ {
		t[r] = 'A' + (r - 0xFF21)
	}
	for r := rune(0xFF41); r <= 0xFF5A; r++ {
		t[r] = 'a' + (r - 0xFF41)
	}
	return t
}

// isStrippedControl reports whether r is a null byte or ASCII control
// character that must be removed, preserving \t, \n, \r.
func isStrippedControl(r rune) bool {
	if r == 0 {
		return true
	}
	if r == '\t' || r == '\n' || r == '\r' {
		return false
	}
	return r < 0x20 || r == 0x7F
}

// Text canonicalizes a text blob per spec.md §4.1:
//  1. NFKC compatibility composition
//  2. deletion of the invisible set
//  3. deletion of null bytes and ASCII control characters
//  4. homoglyph folding
//
// The returned string is the surface every check matches and spans index
// into (span_basis = "normalized"). Total and deterministic — never fails.
func Text(text string) string {
	folded := norm.NFKC.String(text)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if invisibleSet[r] || isStrippedControl(r) {
			continue
		}
		if repl, ok := homoglyphTable[r]; ok {
			b.WriteRune(repl)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SpanBasis names the offset basis of finding spans: they index the
// normalized text, never the original. Checks do not write it into finding
// metadata; no finding carries a span_basis key.
const SpanBasis = "normalized"
