package textnorm

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// wordRe matches word tokens including accented and umlaut characters,
// mirroring a \w+ scan over unicode text.
var wordRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Normalizer extracts index keywords from free text. It is constructed with
// an explicit stopword set so the same instance can be shared by every index
// without hidden package-level state.
//
// All methods are pure and safe for concurrent use.
type Normalizer struct {
	stopwords map[string]struct{}
}

// New creates a Normalizer with the union of the given stopword lists.
// With no arguments it uses the default multilingual set.
func New(stopwordLists ...[]string) *Normalizer {
	if len(stopwordLists) == 0 {
		stopwordLists = [][]string{StopwordsEnglish, StopwordsGerman}
	}

	stopwords := make(map[string]struct{})
	for _, list := range stopwordLists {
		for _, word := range list {
			stopwords[strings.ToLower(word)] = struct{}{}
		}
	}

	return &Normalizer{stopwords: stopwords}
}

// ExtractKeywords lowercases the text, splits it on non-word boundaries and
// returns the set of tokens that are neither stopwords nor shorter than two
// runes. Deterministic and idempotent: extracting from the joined keywords
// of a previous extraction yields the same set.
func (n *Normalizer) ExtractKeywords(text string) map[string]struct{} {
	keywords := make(map[string]struct{})
	for _, token := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if utf8.RuneCountInString(token) < 2 {
			continue
		}
		if _, stop := n.stopwords[token]; stop {
			continue
		}
		keywords[token] = struct{}{}
	}
	return keywords
}

// Tokens returns the lowercased word tokens of the text in order, with
// stopwords and short tokens removed. Unlike ExtractKeywords it preserves
// duplicates, which term-frequency weighting needs.
func (n *Normalizer) Tokens(text string) []string {
	raw := wordRe.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(raw))
	for _, token := range raw {
		if utf8.RuneCountInString(token) < 2 {
			continue
		}
		if _, stop := n.stopwords[token]; stop {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// IsStopword reports whether the lowercased word is in the configured set.
func (n *Normalizer) IsStopword(word string) bool {
	_, ok := n.stopwords[strings.ToLower(word)]
	return ok
}
