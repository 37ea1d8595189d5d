package vector

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/worklens/worklens/ai"
	"github.com/worklens/worklens/core"
)

// Match is one catalog entry ranked against a query vector. Score is the
// inner product of unit vectors, so it equals cosine similarity and lies in
// [-1, 1]. Position is the entry's index in the stored catalog.
type Match struct {
	Cell     core.Cell
	Score    float64
	Position int
}

// Index is an exact nearest-neighbor store over unit-normalized embedding
// vectors. Vectors and labels are parallel arrays held in one struct; their
// count parity is validated on every mutation. The dimension is fixed at
// construction.
//
// The index is built once and then queried read-only; Search methods are
// safe for concurrent use as long as no SetEmbeddings call runs alongside.
type Index struct {
	dim     int
	vectors [][]float32
	labels  []core.Cell
	logger  *slog.Logger
}

// Option configures an Index.
type Option func(*Index) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(idx *Index) error {
		if logger == nil {
			logger = slog.Default()
		}
		idx.logger = logger
		return nil
	}
}

// NewIndex creates an empty index for vectors of the given dimension.
func NewIndex(dim int, opts ...Option) (*Index, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: dimension %d", ErrInvalidDimension, dim)
	}

	idx := &Index{
		dim:    dim,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(idx); err != nil {
			return nil, err
		}
	}

	return idx, nil
}

// SetEmbeddings replaces the store's contents with the given vectors and
// their positionally corresponding cell labels. Any prior state is reset.
// Every vector must have the index dimension and the two slices must have
// equal length.
func (idx *Index) SetEmbeddings(vectors [][]float32, labels []core.Cell) error {
	if len(vectors) != len(labels) {
		return fmt.Errorf("%w: %d vectors, %d labels", ErrLabelMismatch, len(vectors), len(labels))
	}
	for i, vec := range vectors {
		if len(vec) != idx.dim {
			return fmt.Errorf("%w: vector %d has dimension %d, index expects %d",
				ErrInvalidDimension, i, len(vec), idx.dim)
		}
	}

	idx.vectors = make([][]float32, len(vectors))
	for i, vec := range vectors {
		cp := make([]float32, len(vec))
		copy(cp, vec)
		idx.vectors[i] = cp
	}
	idx.labels = make([]core.Cell, len(labels))
	copy(idx.labels, labels)

	idx.logger.Debug("replaced embeddings", "count", len(vectors), "dim", idx.dim)
	return nil
}

// SearchByVector returns the k stored entries nearest to the query by inner
// product, most similar first. If k <= 0 the full ranked catalog is
// returned, which the fusion step uses to score every cell. Ties break on
// the lower catalog position.
func (idx *Index) SearchByVector(query []float32, k int) ([]Match, error) {
	if len(query) != idx.dim {
		return nil, fmt.Errorf("%w: query has dimension %d, index expects %d",
			ErrInvalidDimension, len(query), idx.dim)
	}

	matches := make([]Match, len(idx.vectors))
	for i, vec := range idx.vectors {
		matches[i] = Match{
			Cell:     idx.labels[i],
			Score:    innerProduct(query, vec),
			Position: i,
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Position < matches[j].Position
	})

	if k > 0 && k < len(matches) {
		matches = matches[:k]
	}
	return matches, nil
}

// SearchByDocument embeds the document text with the collaborator,
// L2-normalizes the result and delegates to SearchByVector. The embedder
// must be the same model the stored vectors were produced with, or the
// similarity scores are meaningless.
func (idx *Index) SearchByDocument(ctx context.Context, text string, embedder ai.Embedder, k int) ([]Match, error) {
	embedding, err := embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query document: %w", err)
	}
	return idx.SearchByVector(Normalize(embedding), k)
}

// Len returns the number of stored vectors.
func (idx *Index) Len() int {
	return len(idx.vectors)
}

// Dim returns the vector dimension fixed at construction.
func (idx *Index) Dim() int {
	return idx.dim
}

// Vectors exposes the stored vectors for persistence. The slice must be
// treated as read-only.
func (idx *Index) Vectors() [][]float32 {
	return idx.vectors
}

// Labels exposes the stored cell labels for persistence, positionally
// aligned with Vectors. The slice must be treated as read-only.
func (idx *Index) Labels() []core.Cell {
	return idx.labels
}

// Normalize scales the vector to unit L2 norm. A zero vector is returned
// unchanged. The input is not modified.
func Normalize(vec []float32) []float32 {
	var sumSquares float64
	for _, v := range vec {
		sumSquares += float64(v) * float64(v)
	}

	out := make([]float32, len(vec))
	if sumSquares == 0 {
		copy(out, vec)
		return out
	}

	norm := math.Sqrt(sumSquares)
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out
}

// innerProduct accumulates in float64 to keep long sums stable.
func innerProduct(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
