// Package moderation masks configured words in message text before it is
// persisted, so the stored copy is already clean for every reader.
package moderation

import (
	"log/slog"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"

	"github.com/Alex7k/websocket-chat/errors"
)

// Censor matches a normalized view of the text against an Aho-Corasick
// automaton and masks the matched spans in the original runes, preserving
// spacing and punctuation.
type Censor struct {
	matcher     *goahocorasick.Machine
	replacement rune
	log         *slog.Logger
}

// NewCensor builds the automaton from a normalized copy of each word.
// An empty word list is an error: a censor with nothing to match should not
// be constructed, the caller simply skips the moderation stage instead.
func NewCensor(words []string, replacement rune, log *slog.Logger) (*Censor, error) {
	if len(words) == 0 {
		return nil, errors.ErrEmptyWords
	}

	patterns := make([][]rune, 0, len(words))
	for _, word := range words {
		norm, _ := normalize([]rune(word))
		if len(norm) == 0 {
			continue
		}
		patterns = append(patterns, norm)
	}
	if len(patterns) == 0 {
		return nil, errors.ErrEmptyWords
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Censor{matcher: m, replacement: replacement, log: log}, nil
}

// Apply returns the text with every forbidden span replaced by the
// replacement rune. Leet substitutions and interleaved punctuation do not
// hide a word: matching runs on the normalized view while masking applies
// to the original positions.
func (c *Censor) Apply(text string) string {
	orig := []rune(text)
	norm, origIdx := normalize(orig)
	if len(norm) == 0 {
		return text
	}

	spans := c.matcher.MultiPatternSearch(norm, false)
	if len(spans) == 0 {
		return text
	}

	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(origIdx) {
			continue
		}
		for i := origIdx[start]; i <= origIdx[end-1]; i++ {
			orig[i] = c.replacement
		}
	}

	c.log.Debug("censored message text", "spans", len(spans))
	return string(orig)
}

// normalize lowercases, undoes common leet substitutions and drops
// punctuation, spacing and symbols, tracking the original index of every
// kept rune so matches can be mapped back.
func normalize(input []rune) ([]rune, []int) {
	norm := make([]rune, 0, len(input))
	origIdx := make([]int, 0, len(input))
	for i, r := range input {
		clean := unleet(r)
		if unicode.IsPunct(clean) || unicode.IsSpace(clean) || unicode.IsSymbol(clean) {
			continue
		}
		norm = append(norm, unicode.ToLower(clean))
		origIdx = append(origIdx, i)
	}
	return norm, origIdx
}

// unleet maps common leet speak characters back to their alphabet
// counterparts so "b4dger" matches "badger".
func unleet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}
