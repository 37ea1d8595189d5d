package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worklens/worklens/ai/mock"
	"github.com/worklens/worklens/core"
	"github.com/worklens/worklens/keyword"
	"github.com/worklens/worklens/textnorm"
	"github.com/worklens/worklens/vector"
)

// embedFor maps test texts onto a tiny 3-dimensional space so vector
// scores in the assertions below are exact.
func embedFor(text string) []float32 {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "optimax"):
		return []float32{0, 1, 0}
	case strings.Contains(lower, "gasum"):
		return []float32{1, 0, 0}
	default:
		return []float32{0, 0, 1}
	}
}

func newTestEmbedder() *mock.MockEmbedder {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return embedFor(text), nil
	}
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i, text := range texts {
			vectors[i] = embedFor(text)
		}
		return vectors, nil
	}
	return embedder
}

// newTestIndices builds a fitted two-cell catalog.
//
// Gasum/Modeling keywords: gasum, modeling, gas, transport, forecast, model (6).
// Optimax/Demo keywords: optimax, demo, apps, models (4).
func newTestIndices(t *testing.T) (*keyword.Index, *vector.Index) {
	t.Helper()

	norm := textnorm.New()

	kw, err := keyword.NewIndex(norm)
	require.NoError(t, err)
	kw.AddDocument("Gasum", "Modeling", "gas transport forecast model")
	kw.AddDocument("Optimax", "Demo", "apps models demo")

	vec, err := vector.NewIndex(3)
	require.NoError(t, err)
	require.NoError(t, vec.SetEmbeddings(
		[][]float32{{1, 0, 0}, {0, 1, 0}},
		[]core.Cell{
			{Project: "Gasum", Activity: "Modeling"},
			{Project: "Optimax", Activity: "Demo"},
		},
	))

	return kw, vec
}

func newTestPipeline(t *testing.T, embedder *mock.MockEmbedder, opts ...Option) *Pipeline {
	t.Helper()

	kw, vec := newTestIndices(t)
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockKeyphraseExtractor())

	p, err := NewPipeline(kw, vec, provider, opts...)
	require.NoError(t, err)
	t.Cleanup(p.Release)
	return p
}

func TestNewPipeline(t *testing.T) {
	kw, vec := newTestIndices(t)
	provider := mock.NewMockProvider()

	t.Run("nil keyword index", func(t *testing.T) {
		_, err := NewPipeline(nil, vec, provider)
		assert.ErrorIs(t, err, ErrKeywordIndexRequired)
	})

	t.Run("nil vector index", func(t *testing.T) {
		_, err := NewPipeline(kw, nil, provider)
		assert.ErrorIs(t, err, ErrVectorIndexRequired)
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewPipeline(kw, vec, nil)
		assert.ErrorIs(t, err, ErrAIProviderRequired)
	})

	t.Run("valid", func(t *testing.T) {
		p, err := NewPipeline(kw, vec, provider, WithPoolSize(2))
		require.NoError(t, err)
		p.Release()
	})
}

func TestRunClassifiesBatch(t *testing.T) {
	p := newTestPipeline(t, newTestEmbedder())

	events := []core.Event{
		{Id: "1", Subject: "Optimax demo", Body: "apps"},
		{Id: "2", Subject: "Gasum transport model review", Body: "gas transport forecast"},
		{Id: "3", Subject: "lunch"},
	}

	results, err := p.Run(context.Background(), events)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Output is positionally aligned with the input
	for i, result := range results {
		assert.Equal(t, events[i].Id, result.Event.Id)
	}

	// Event 1: title prior 1.0 + overlap 3/4, vector 1.0
	require.True(t, results[0].Classified())
	pred := results[0].Prediction
	assert.Equal(t, "Optimax", pred.ProjectDescription)
	assert.Equal(t, "Demo", pred.ProjectActivity)
	assert.InDelta(t, 1.75, pred.KeywordScore, 1e-4)
	assert.InDelta(t, 1.0, pred.VectorScore, 1e-4)
	assert.InDelta(t, 2.75, pred.FusedScore, 1e-4)

	// Event 2: title prior 1.0 + overlap 5/6, vector 1.0
	require.True(t, results[1].Classified())
	pred = results[1].Prediction
	assert.Equal(t, "Gasum", pred.ProjectDescription)
	assert.Equal(t, "Modeling", pred.ProjectActivity)
	assert.InDelta(t, 1.8333, pred.KeywordScore, 1e-4)
	assert.InDelta(t, 2.8333, pred.FusedScore, 1e-4)

	// Event 3: no keyword overlap with any cell, so the join is empty
	assert.False(t, results[2].Classified())
	assert.ErrorIs(t, results[2].Err, ErrUnclassified)
}

func TestRunEmptyBatch(t *testing.T) {
	p := newTestPipeline(t, newTestEmbedder())

	results, err := p.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestClassifySingleEvent(t *testing.T) {
	p := newTestPipeline(t, newTestEmbedder())

	result := p.Classify(context.Background(), core.Event{Id: "1", Subject: "Optimax demo"})

	require.True(t, result.Classified())
	assert.Equal(t, "Optimax", result.Prediction.ProjectDescription)
}

func TestClassifyQueryKeyphraseEnrichment(t *testing.T) {
	ctx := context.Background()

	newPipelineWithExtractor := func(t *testing.T, extractor *mock.MockKeyphraseExtractor, opts ...Option) *Pipeline {
		t.Helper()
		kw, vec := newTestIndices(t)
		provider := mock.NewMockProviderWithServices(newTestEmbedder(), extractor)
		p, err := NewPipeline(kw, vec, provider, opts...)
		require.NoError(t, err)
		t.Cleanup(p.Release)
		return p
	}

	t.Run("extracted phrases recover an unmatchable event", func(t *testing.T) {
		event := core.Event{Id: "1", Subject: "Team sync", Body: "quarterly planning"}

		// Without enrichment this event shares no keywords with the catalog.
		base := newPipelineWithExtractor(t, mock.NewMockKeyphraseExtractor())
		assert.ErrorIs(t, base.Classify(ctx, event).Err, ErrUnclassified)

		extractor := mock.NewMockKeyphraseExtractor()
		extractor.ExtractKeyphrasesFunc = func(ctx context.Context, text string) ([]string, error) {
			return []string{"optimax", "demo"}, nil
		}
		p := newPipelineWithExtractor(t, extractor, WithQueryKeyphrases(true))

		result := p.Classify(ctx, event)
		require.True(t, result.Classified())
		assert.Equal(t, "Optimax", result.Prediction.ProjectDescription)
		assert.Equal(t, "Demo", result.Prediction.ProjectActivity)
		// Two of Optimax/Demo's four keywords came from the extractor.
		assert.InDelta(t, 0.5, result.Prediction.KeywordScore, 1e-9)
		assert.Equal(t, 1, extractor.CallCount())
	})

	t.Run("extraction failure falls back to lexical keywords", func(t *testing.T) {
		extractor := mock.NewMockKeyphraseExtractor()
		extractor.ExtractKeyphrasesFunc = func(ctx context.Context, text string) ([]string, error) {
			return nil, errors.New("extractor offline")
		}
		p := newPipelineWithExtractor(t, extractor, WithQueryKeyphrases(true))

		result := p.Classify(ctx, core.Event{Id: "2", Subject: "Optimax demo", Body: "apps"})
		require.True(t, result.Classified())
		assert.Equal(t, "Optimax", result.Prediction.ProjectDescription)
		assert.Equal(t, 1, extractor.CallCount())
	})

	t.Run("disabled by default", func(t *testing.T) {
		extractor := mock.NewMockKeyphraseExtractor()
		p := newPipelineWithExtractor(t, extractor)

		result := p.Classify(ctx, core.Event{Id: "3", Subject: "Optimax demo", Body: "apps"})
		require.True(t, result.Classified())
		assert.Equal(t, 0, extractor.CallCount())
	})
}

func TestFusionVectorSignalDecides(t *testing.T) {
	// Two cells with identical keyword scores; the vector signal breaks
	// the symmetry.
	norm := textnorm.New()
	kw, err := keyword.NewIndex(norm)
	require.NoError(t, err)
	kw.AddDocument("Alpha", "Work", "shared terms here")
	kw.AddDocument("Beta", "Work", "shared terms here")

	vec, err := vector.NewIndex(3)
	require.NoError(t, err)
	require.NoError(t, vec.SetEmbeddings(
		[][]float32{{1, 0, 0}, {0, 1, 0}},
		[]core.Cell{
			{Project: "Alpha", Activity: "Work"},
			{Project: "Beta", Activity: "Work"},
		},
	))

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{0.6, 0.8, 0}
		}
		return vectors, nil
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockKeyphraseExtractor())

	p, err := NewPipeline(kw, vec, provider)
	require.NoError(t, err)
	defer p.Release()

	results, err := p.Run(context.Background(), []core.Event{{Id: "1", Subject: "shared terms"}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.True(t, results[0].Classified())

	pred := results[0].Prediction
	assert.Equal(t, "Beta", pred.ProjectDescription)
	assert.InDelta(t, 0.8, pred.VectorScore, 1e-4)
	assert.Greater(t, pred.FusedScore, pred.KeywordScore)
}

func TestFusionTieBreaksLexicographically(t *testing.T) {
	norm := textnorm.New()
	kw, err := keyword.NewIndex(norm)
	require.NoError(t, err)
	kw.AddDocument("Beta", "Work", "shared terms here")
	kw.AddDocument("Alpha", "Work", "shared terms here")

	vec, err := vector.NewIndex(3)
	require.NoError(t, err)
	require.NoError(t, vec.SetEmbeddings(
		[][]float32{{1, 0, 0}, {1, 0, 0}},
		[]core.Cell{
			{Project: "Beta", Activity: "Work"},
			{Project: "Alpha", Activity: "Work"},
		},
	))

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{1, 0, 0}
		}
		return vectors, nil
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockKeyphraseExtractor())

	p, err := NewPipeline(kw, vec, provider)
	require.NoError(t, err)
	defer p.Release()

	results, err := p.Run(context.Background(), []core.Event{{Id: "1", Subject: "shared terms"}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.True(t, results[0].Classified())

	assert.Equal(t, "Alpha", results[0].Prediction.ProjectDescription)
}

func TestRunBatchEmbeddingFallback(t *testing.T) {
	embedder := newTestEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("batch endpoint unavailable")
	}

	p := newTestPipeline(t, embedder)

	results, err := p.Run(context.Background(), []core.Event{
		{Id: "1", Subject: "Optimax demo", Body: "apps"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	// The batch failure falls back to per-event embedding
	require.True(t, results[0].Classified())
	assert.Equal(t, "Optimax", results[0].Prediction.ProjectDescription)
}

func TestRunEmbedFailureStaysEventScoped(t *testing.T) {
	embedFailure := errors.New("embedding service down")

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		if strings.Contains(text, "poison") {
			return nil, embedFailure
		}
		return embedFor(text), nil
	}

	p := newTestPipeline(t, embedder, WithBatchEmbedding(false))

	results, err := p.Run(context.Background(), []core.Event{
		{Id: "1", Subject: "Optimax demo poison", Body: "apps"},
		{Id: "2", Subject: "Optimax demo", Body: "apps"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.False(t, results[0].Classified())
	assert.ErrorIs(t, results[0].Err, embedFailure)

	require.True(t, results[1].Classified())
	assert.Equal(t, "Optimax", results[1].Prediction.ProjectDescription)
}

func TestRunPreservesOrderUnderConcurrency(t *testing.T) {
	p := newTestPipeline(t, newTestEmbedder(), WithPoolSize(4))

	events := make([]core.Event, 40)
	for i := range events {
		if i%2 == 0 {
			events[i] = core.Event{Id: string(rune('A' + i)), Subject: "Optimax demo", Body: "apps"}
		} else {
			events[i] = core.Event{Id: string(rune('A' + i)), Subject: "Gasum transport", Body: "forecast model"}
		}
	}

	results, err := p.Run(context.Background(), events)
	require.NoError(t, err)
	require.Len(t, results, len(events))

	for i, result := range results {
		require.Equal(t, events[i].Id, result.Event.Id)
		require.True(t, result.Classified())
		if i%2 == 0 {
			assert.Equal(t, "Optimax", result.Prediction.ProjectDescription)
		} else {
			assert.Equal(t, "Gasum", result.Prediction.ProjectDescription)
		}
	}
}
