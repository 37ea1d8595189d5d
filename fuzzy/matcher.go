package fuzzy

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/worklens/worklens/textnorm"
)

// Match is one (query, candidate) pair with a similarity confidence in [0, 1].
type Match struct {
	Query      string
	Candidate  string
	Confidence float64
}

// Matcher matches noisy strings against a candidate catalog.
// Safe for concurrent use once constructed.
type Matcher struct {
	norm   *textnorm.Normalizer
	lev    *metrics.Levenshtein
	logger *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewMatcher creates a matcher that tokenizes with the given normalizer.
func NewMatcher(norm *textnorm.Normalizer, opts ...Option) (*Matcher, error) {
	if norm == nil {
		return nil, ErrNormalizerRequired
	}

	lev := metrics.NewLevenshtein()
	lev.CaseSensitive = false

	m := &Matcher{
		norm:   norm,
		lev:    lev,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// initialRunRe matches two adjacent single-letter tokens and the separator
// between them, so "A & B" and "H 2 O"-style fragments collapse into one
// token before vectorization.
var (
	initialRunRe  = regexp.MustCompile(`\b([\p{L}\p{N}_])[ &]+([\p{L}\p{N}_])\b`)
	specialCharRe = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	multiSpaceRe  = regexp.MustCompile(`\s+`)
)

// Preprocess normalizes a string for matching: fuses single-letter runs,
// strips special characters, collapses whitespace and lowercases.
func Preprocess(s string) string {
	for {
		fused := initialRunRe.ReplaceAllString(s, "$1$2")
		if fused == s {
			break
		}
		s = fused
	}
	s = specialCharRe.ReplaceAllString(s, "")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	return strings.ToLower(strings.TrimSpace(s))
}

// Match builds a matching table between the query strings and the candidate
// catalog. For each query it retrieves the nNeighbors nearest candidates in
// TF-IDF cosine space, re-scores that pool with edit-distance and token-set
// similarity, and keeps the top limit matches.
//
// Results are ordered by descending confidence within each query, queries in
// input order. An empty candidate catalog yields zero matches.
func (m *Matcher) Match(queries, candidates []string, nNeighbors, limit int) []Match {
	if len(queries) == 0 || len(candidates) == 0 || limit <= 0 {
		return nil
	}
	if nNeighbors < 1 {
		nNeighbors = 1
	}

	cleanCandidates := make([]string, len(candidates))
	candidateTokens := make([][]string, len(candidates))
	for i, c := range candidates {
		cleanCandidates[i] = Preprocess(c)
		candidateTokens[i] = m.norm.Tokens(cleanCandidates[i])
	}

	space := fitSpace(candidateTokens)

	var out []Match
	for _, query := range queries {
		clean := Preprocess(query)
		pool := space.nearest(space.transform(m.norm.Tokens(clean)), nNeighbors)

		scored := make([]Match, 0, len(pool))
		for _, idx := range pool {
			scored = append(scored, Match{
				Query:      query,
				Candidate:  candidates[idx],
				Confidence: m.score(clean, cleanCandidates[idx]),
			})
		}

		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].Confidence > scored[j].Confidence
		})
		if len(scored) > limit {
			scored = scored[:limit]
		}
		out = append(out, scored...)
	}

	m.logger.Debug("fuzzy match complete",
		"queries", len(queries), "candidates", len(candidates), "matches", len(out))
	return out
}

// score computes the fine-grained similarity between preprocessed strings:
// the maximum of plain edit-distance similarity, token-sort similarity and
// token-set similarity, in [0, 1].
func (m *Matcher) score(a, b string) float64 {
	if a == "" || b == "" {
		if a == b {
			return 1
		}
		return 0
	}

	best := strutil.Similarity(a, b, m.lev)

	sortedA := sortTokens(a)
	sortedB := sortTokens(b)
	if s := strutil.Similarity(sortedA, sortedB, m.lev); s > best {
		best = s
	}
	if s := m.tokenSetSimilarity(a, b); s > best {
		best = s
	}
	return best
}

// tokenSetSimilarity compares the shared token core of both strings against
// each side's remainder, which makes the metric forgiving when one string is
// a noisy superset of the other.
func (m *Matcher) tokenSetSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	var shared, onlyA, onlyB []string
	for t := range setA {
		if _, ok := setB[t]; ok {
			shared = append(shared, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range setB {
		if _, ok := setA[t]; !ok {
			onlyB = append(onlyB, t)
		}
	}
	sort.Strings(shared)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	core := strings.Join(shared, " ")
	full1 := strings.TrimSpace(core + " " + strings.Join(onlyA, " "))
	full2 := strings.TrimSpace(core + " " + strings.Join(onlyB, " "))

	best := strutil.Similarity(full1, full2, m.lev)
	if core != "" {
		if s := strutil.Similarity(core, full1, m.lev); s > best {
			best = s
		}
		if s := strutil.Similarity(core, full2, m.lev); s > best {
			best = s
		}
	}
	return best
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range strings.Fields(s) {
		set[t] = struct{}{}
	}
	return set
}
