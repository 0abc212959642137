package view

import (
	"strings"
	"unicode/utf8"
)

// MaskStrategy deterministically obscures a supplier display name before it
// is shown to a customer. Two strategies coexist on purpose: they are used
// by different read paths and each is pinned by its own tests, so they are
// kept as named variants rather than unified.
type MaskStrategy interface {
	Mask(name string) string
}

var (
	// MaskEdgePreserving keeps the first and last character of every word.
	// Used by the composed order read path.
	MaskEdgePreserving MaskStrategy = edgePreserving{}
	// MaskPrefix keeps a two-character prefix of the first and last word.
	// Used by the supplier-interest list read path.
	MaskPrefix MaskStrategy = prefixStyle{}
)

type edgePreserving struct{}

// Mask replaces the interior of every word longer than two bytes with
// asterisks, one per interior byte, keeping the first and last character.
func (edgePreserving) Mask(name string) string {
	if utf8.RuneCountInString(name) < 2 {
		return name
	}

	words := strings.Fields(name)
	for i, w := range words {
		if len(w) <= 2 {
			continue
		}
		first, _ := utf8.DecodeRuneInString(w)
		last, _ := utf8.DecodeLastRuneInString(w)
		words[i] = string(first) + strings.Repeat("*", len(w)-2) + string(last)
	}
	return strings.Join(words, " ")
}

type prefixStyle struct{}

// Mask keeps a short prefix of the first and last word, dropping middle
// words entirely, and appends a fixed "***" suffix to each kept part.
func (prefixStyle) Mask(name string) string {
	if utf8.RuneCountInString(name) < 2 {
		return name
	}

	words := strings.Fields(name)
	if len(words) == 0 {
		return name
	}
	if len(words) == 1 {
		return maskPrefixWord(words[0])
	}
	return maskPrefixWord(words[0]) + " " + maskPrefixWord(words[len(words)-1])
}

func maskPrefixWord(w string) string {
	r := []rune(w)
	if len(r) > 2 {
		return string(r[:2]) + "***"
	}
	return w + "***"
}
