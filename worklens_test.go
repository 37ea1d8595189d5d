package worklens

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worklens/worklens/ai/mock"
	"github.com/worklens/worklens/core"
	"github.com/worklens/worklens/pipeline"
)

func testEmbedFor(text string) []float32 {
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

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return testEmbedFor(text), nil
	}
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i, text := range texts {
			vectors[i] = testEmbedFor(text)
		}
		return vectors, nil
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockKeyphraseExtractor())

	c, err := NewClassifier(WithProvider(provider))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func testCatalog() []core.Document {
	return []core.Document{
		{
			ProjectDescription:  "Gasum",
			ProjectDefinition:   "gas transport forecast",
			ActivityDescription: "Modeling",
			Comment:             "model maintenance",
		},
		{
			ProjectDescription:  "Optimax Apps&Models CZ 2024",
			ProjectDefinition:   "apps models development",
			ActivityDescription: "WP-12081.04",
			Comment:             "demo sessions",
		},
	}
}

func TestClassifierFitAndClassify(t *testing.T) {
	c := newTestClassifier(t)
	ctx := context.Background()

	require.False(t, c.Fitted())
	require.NoError(t, c.Fit(ctx, testCatalog(), 0))
	require.True(t, c.Fitted())

	p, err := c.NewPipeline()
	require.NoError(t, err)
	defer p.Release()

	results, err := p.Run(ctx, []core.Event{
		{Id: "1", Subject: "OPTIMAX APPS&MODELS CZ 2024 WP-12081.04", Body: "demo"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.True(t, results[0].Classified())

	pred := results[0].Prediction
	assert.Equal(t, "Optimax Apps&Models CZ 2024", pred.ProjectDescription)
	assert.Equal(t, "WP-12081.04", pred.ProjectActivity)
	assert.Greater(t, pred.KeywordScore, 0.0)
	assert.InDelta(t, 1.0, pred.VectorScore, 1e-4)
	assert.InDelta(t, pred.KeywordScore+pred.VectorScore, pred.FusedScore, 1e-9)
}

func TestClassifierFitValidation(t *testing.T) {
	c := newTestClassifier(t)
	ctx := context.Background()

	t.Run("empty catalog", func(t *testing.T) {
		err := c.Fit(ctx, nil, 0)
		assert.ErrorIs(t, err, ErrNoDocuments)
	})

	t.Run("invalid document", func(t *testing.T) {
		err := c.Fit(ctx, []core.Document{{ActivityDescription: "Work"}}, 0)
		assert.ErrorIs(t, err, core.ErrEmptyProject)
	})
}

func TestClassifierRequiresFitting(t *testing.T) {
	c := newTestClassifier(t)

	_, err := c.NewPipeline()
	assert.ErrorIs(t, err, ErrNotFitted)

	err = c.Save(t.TempDir())
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestClassifierSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	fitted := newTestClassifier(t)
	require.NoError(t, fitted.Fit(ctx, testCatalog(), 0))
	require.NoError(t, fitted.Save(dir))

	loaded := newTestClassifier(t)
	require.NoError(t, loaded.Load(dir))
	require.True(t, loaded.Fitted())

	event := core.Event{Id: "1", Subject: "Gasum transport forecast", Body: "model review"}

	classify := func(c *Classifier) core.ClassifiedEvent {
		p, err := c.NewPipeline(pipeline.WithPoolSize(1))
		require.NoError(t, err)
		defer p.Release()
		return p.Classify(ctx, event)
	}

	want := classify(fitted)
	got := classify(loaded)

	require.True(t, want.Classified())
	require.True(t, got.Classified())
	assert.Equal(t, *want.Prediction, *got.Prediction)
}

func TestClassifierLoadMissingDirectory(t *testing.T) {
	c := newTestClassifier(t)
	err := c.Load(t.TempDir())
	assert.Error(t, err)
	assert.False(t, c.Fitted())
}
