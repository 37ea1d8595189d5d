package fuzzy

import (
	"math"
	"sort"
)

// tfidfSpace is a TF-IDF vector space fitted over the candidate catalog.
// Vectors are sparse term-weight maps, L2-normalized so the dot product of
// two vectors is their cosine similarity.
type tfidfSpace struct {
	idf     map[string]float64
	vectors []map[string]float64
}

// fitSpace builds the vector space from the tokenized candidates.
// Terms are word 1..2-grams. IDF is smoothed the way sklearn does it:
// ln((1+n)/(1+df)) + 1, so terms present in every document still carry a
// small positive weight.
func fitSpace(candidateTokens [][]string) *tfidfSpace {
	n := len(candidateTokens)

	df := make(map[string]int)
	grams := make([][]string, n)
	for i, tokens := range candidateTokens {
		grams[i] = ngrams(tokens)
		seen := make(map[string]struct{}, len(grams[i]))
		for _, g := range grams[i] {
			seen[g] = struct{}{}
		}
		for g := range seen {
			df[g]++
		}
	}

	idf := make(map[string]float64, len(df))
	for g, count := range df {
		idf[g] = math.Log(float64(1+n)/float64(1+count)) + 1
	}

	space := &tfidfSpace{idf: idf, vectors: make([]map[string]float64, n)}
	for i := range grams {
		space.vectors[i] = space.vectorize(grams[i])
	}
	return space
}

// vectorize builds the L2-normalized TF-IDF vector for a gram sequence.
// Grams outside the fitted vocabulary are dropped.
func (s *tfidfSpace) vectorize(grams []string) map[string]float64 {
	vec := make(map[string]float64)
	for _, g := range grams {
		if idf, ok := s.idf[g]; ok {
			vec[g] += idf
		}
	}

	var sumSquares float64
	for _, w := range vec {
		sumSquares += w * w
	}
	if sumSquares > 0 {
		norm := math.Sqrt(sumSquares)
		for g := range vec {
			vec[g] /= norm
		}
	}
	return vec
}

// transform vectorizes query tokens against the fitted vocabulary.
func (s *tfidfSpace) transform(tokens []string) map[string]float64 {
	return s.vectorize(ngrams(tokens))
}

// nearest returns the indices of up to k candidates closest to the query
// vector by cosine similarity, most similar first. Ties break on the lower
// candidate index so results are deterministic.
func (s *tfidfSpace) nearest(query map[string]float64, k int) []int {
	type scored struct {
		index int
		score float64
	}

	all := make([]scored, len(s.vectors))
	for i, vec := range s.vectors {
		all[i] = scored{index: i, score: dot(query, vec)}
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		return all[i].index < all[j].index
	})

	if k > len(all) {
		k = len(all)
	}
	indices := make([]int, k)
	for i := range k {
		indices[i] = all[i].index
	}
	return indices
}

// dot iterates the smaller map and probes the larger one.
func dot(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for g, wa := range a {
		if wb, ok := b[g]; ok {
			sum += wa * wb
		}
	}
	return sum
}

// ngrams expands a token sequence into word unigrams and bigrams.
func ngrams(tokens []string) []string {
	grams := make([]string, 0, 2*len(tokens))
	grams = append(grams, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		grams = append(grams, tokens[i]+" "+tokens[i+1])
	}
	return grams
}
