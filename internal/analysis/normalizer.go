// Package analysis turns raw document text into the token sequences that
// scoring and keyword matching operate on.
package analysis

import (
	"strings"
	"unicode"
)

// minTokenLen is the shortest token kept; single characters carry no signal.
const minTokenLen = 2

// Normalizer lowercases text, replaces everything outside [a-z0-9] and
// whitespace with spaces, splits on whitespace and drops stop words and
// single-character tokens. It holds no mutable state and is safe for
// concurrent use.
type Normalizer struct {
	stop StopWords
}

// NewNormalizer creates a Normalizer using stop.
func NewNormalizer(stop StopWords) *Normalizer {
	return &Normalizer{stop: stop}
}

// StopWords returns the set the normalizer filters against.
func (n *Normalizer) StopWords() StopWords { return n.stop }

// Normalize returns the cleaned tokens of text in input order, duplicates kept.
// Any input, including the empty string, yields a possibly empty slice.
func (n *Normalizer) Normalize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case unicode.IsSpace(r):
			return ' '
		}
		// The filter applies to lowercased text: U+212A KELVIN SIGN folds to 'k'.
		if lr := unicode.ToLower(r); lr >= 'a' && lr <= 'z' {
			return lr
		}
		return ' '
	}, text)

	fields := strings.Fields(cleaned)
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) < minTokenLen || n.stop.Contains(f) {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// NormalizeJoined returns the normalized tokens re-joined with single spaces.
func (n *Normalizer) NormalizeJoined(text string) string {
	return strings.Join(n.Normalize(text), " ")
}
