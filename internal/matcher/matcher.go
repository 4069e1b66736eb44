// Package matcher decides whether a typed answer is equivalent to an accepted
// solution.
//
// Parentheticals are removed before the character filter, and ß survives
// it, so "run (verb)" equals "run" and Straße can match Strasse.
package matcher

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	parenthetical = regexp.MustCompile(`\([^)]*\)`)
	disallowed    = regexp.MustCompile(`[^a-zA-Z0-9ß ]`)
)

// Matcher compares answers. The zero value folds case, which is the only
// mode the CLI exposes today.
type Matcher struct {
	CaseSensitive bool
}

// Default is the case-insensitive matcher used by the package functions.
var Default = Matcher{}

// Normalize reduces s to the form used for answer comparison.
// Normalize(Normalize(s)) == Normalize(s) for every s.
func (m Matcher) Normalize(s string) string {
	s = norm.NFC.String(s)
	if !m.CaseSensitive {
		s = cases.Lower(language.Und).String(s)
	}
	s = parenthetical.ReplaceAllString(s, "")
	s = disallowed.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Match reports whether candidate is equivalent to accepted.
func (m Matcher) Match(candidate, accepted string) bool {
	a, b := m.Normalize(candidate), m.Normalize(accepted)
	if a == b {
		return true
	}
	for _, va := range variants(a) {
		for _, vb := range variants(b) {
			if va == vb {
				return true
			}
		}
	}
	return false
}

// MatchAny reports whether candidate matches any accepted solution.
func (m Matcher) MatchAny(candidate string, accepted []string) bool {
	for _, s := range accepted {
		if m.Match(candidate, s) {
			return true
		}
	}
	return false
}

// Normalize calls Default.Normalize.
func Normalize(s string) string { return Default.Normalize(s) }

// Match calls Default.Match.
func Match(candidate, accepted string) bool { return Default.Match(candidate, accepted) }

// MatchAny calls Default.MatchAny.
func MatchAny(candidate string, accepted []string) bool {
	return Default.MatchAny(candidate, accepted)
}

// variants returns s together with its ß/ss spellings.
func variants(s string) []string {
	return []string{
		s,
		strings.ReplaceAll(s, "ß", "ss"),
		strings.ReplaceAll(s, "ss", "ß"),
	}
}
