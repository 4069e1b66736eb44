// Package grouper collapses raw quiz pairs into scheduling items, merging
// pairs whose prompts are equivalent into one item with several solutions.
package grouper

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/pavelanni/drill/internal/model"
)

// VerbPrefix marks an English infinitive.
const VerbPrefix = "to "

// Options controls grouping.
type Options struct {
	// Reverse groups by answer instead of prompt, so the answer is asked.
	Reverse bool
	// OnlyVerbs keeps groups whose display text starts with VerbPrefix.
	OnlyVerbs bool
}

type group struct {
	display    string
	upper      int
	solutions  []string
	normalized []string
}

// Group builds the ordered item list for words. The output follows the order
// in which each normalized key was first seen.
func Group(words []model.RawEntry, opts Options) []model.Entry {
	index := make(map[string]*group)
	var order []*group

	for _, w := range words {
		key, value := w.Prompt, w.Answer
		if opts.Reverse {
			key, value = w.Answer, w.Prompt
		}
		nk, nv := Key(key), Key(value)

		g, ok := index[nk]
		if !ok {
			g = &group{
				display:    key,
				upper:      UpperCount(key),
				solutions:  []string{value},
				normalized: []string{nv},
			}
			index[nk] = g
			order = append(order, g)
			continue
		}

		// More capitals wins; on a tie the first spelling stays.
		if n := UpperCount(key); n > g.upper {
			g.display, g.upper = key, n
		}
		if !contains(g.normalized, nv) {
			g.solutions = append(g.solutions, value)
			g.normalized = append(g.normalized, nv)
		}
	}

	entries := make([]model.Entry, 0, len(order))
	for _, g := range order {
		if opts.OnlyVerbs && !strings.HasPrefix(g.display, VerbPrefix) {
			continue
		}
		entries = append(entries, model.Entry{Prompt: g.display, Solutions: g.solutions})
	}
	return entries
}

// Key returns the grouping key of s: case-folded, with punctuation and
// symbols removed and spaces collapsed. Letters of every script are kept.
func Key(s string) string {
	s = cases.Fold().String(norm.NFC.String(s))
	s = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// UpperCount returns the number of upper-case letters in s.
func UpperCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsUpper(r) {
			n++
		}
	}
	return n
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
