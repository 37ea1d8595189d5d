// Copyright 2026 Worklens Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package worklens classifies free-text calendar events against a catalog
// of timesheet projects and activities by fusing keyword and embedding
// retrieval signals.
package worklens

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/worklens/worklens/ai"
	"github.com/worklens/worklens/ai/openai"
	"github.com/worklens/worklens/core"
	"github.com/worklens/worklens/keyword"
	"github.com/worklens/worklens/pipeline"
	"github.com/worklens/worklens/storage"
	"github.com/worklens/worklens/textnorm"
	"github.com/worklens/worklens/vector"
)

var (
	// ErrNotFitted is returned when an operation needs fitted indices and
	// neither Fit nor Load has run.
	ErrNotFitted = errors.New("classifier is not fitted")

	// ErrNoDocuments is returned when Fit receives an empty catalog.
	ErrNoDocuments = errors.New("no catalog documents")
)

// Classifier is the top-level facade. It owns the text normalizer, the two
// retrieval indices and the AI provider, and hands out classification
// pipelines over the fitted state.
type Classifier struct {
	norm       *textnorm.Normalizer
	keywordIdx *keyword.Index
	vectorIdx  *vector.Index
	provider   ai.AIProvider
	logger     *slog.Logger
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*classifierOptions)

type classifierOptions struct {
	aiConfig  *ai.Config
	provider  ai.AIProvider
	stopwords [][]string
}

// WithAIConfig sets the AI collaborator configuration used to build the
// default OpenAI-compatible provider.
func WithAIConfig(config *ai.Config) ClassifierOption {
	return func(o *classifierOptions) {
		o.aiConfig = config
	}
}

// WithProvider injects a pre-built AI provider, an ai/mock provider in
// tests for example. Overrides WithAIConfig.
func WithProvider(provider ai.AIProvider) ClassifierOption {
	return func(o *classifierOptions) {
		o.provider = provider
	}
}

// WithStopwords replaces the default English and German stopword lists.
func WithStopwords(lists ...[]string) ClassifierOption {
	return func(o *classifierOptions) {
		o.stopwords = lists
	}
}

// NewClassifier creates an unfitted classifier. Call Fit with the catalog
// documents or Load a previously saved index directory before requesting
// a pipeline.
func NewClassifier(opts ...ClassifierOption) (*Classifier, error) {
	options := &classifierOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	provider := options.provider
	if provider == nil {
		var err error
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			return nil, err
		}
	}

	return &Classifier{
		norm:     textnorm.New(options.stopwords...),
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

// Fit builds both indices from the catalog documents. Keywords that occur
// in more than pruneThreshold cells are dropped from the keyword index; a
// non-positive threshold disables pruning. Fit replaces any previously
// fitted or loaded state.
func (c *Classifier) Fit(ctx context.Context, documents []core.Document, pruneThreshold int) error {
	if len(documents) == 0 {
		return ErrNoDocuments
	}

	for i, doc := range documents {
		if err := core.ValidateDocument(&doc); err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
	}

	keywordIdx, err := keyword.NewIndex(c.norm)
	if err != nil {
		return err
	}

	texts := make([]string, len(documents))
	labels := make([]core.Cell, len(documents))
	for i, doc := range documents {
		cell := doc.Cell()
		keywordIdx.AddDocument(cell.Project, cell.Activity, doc.FreeText())
		texts[i] = strings.TrimSpace(cell.Label() + " " + doc.FreeText())
		labels[i] = cell
	}

	if pruneThreshold > 0 {
		keywordIdx.PruneFrequent(pruneThreshold)
	}

	embeddings, err := c.provider.Embedder().EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding catalog documents: %w", err)
	}
	if len(embeddings) != len(documents) {
		return fmt.Errorf("embedder returned %d vectors for %d documents", len(embeddings), len(documents))
	}

	vectors := make([][]float32, len(embeddings))
	for i, embedding := range embeddings {
		vectors[i] = vector.Normalize(embedding)
	}

	vectorIdx, err := vector.NewIndex(len(vectors[0]))
	if err != nil {
		return err
	}
	if err := vectorIdx.SetEmbeddings(vectors, labels); err != nil {
		return err
	}

	c.keywordIdx = keywordIdx
	c.vectorIdx = vectorIdx
	c.logger.Info("fitted classifier",
		"documents", len(documents),
		"cells", keywordIdx.Cells(),
		"dim", vectorIdx.Dim())
	return nil
}

// Fitted reports whether the classifier has indices to search.
func (c *Classifier) Fitted() bool {
	return c.keywordIdx != nil && c.vectorIdx != nil
}

// Save writes the fitted indices to dir.
func (c *Classifier) Save(dir string) error {
	if !c.Fitted() {
		return ErrNotFitted
	}
	if err := storage.SaveKeywordIndex(dir, c.keywordIdx); err != nil {
		return err
	}
	return storage.SaveVectorIndex(dir, c.vectorIdx)
}

// Load replaces the classifier's state with indices previously written by
// Save. The embedding model behind the provider must match the one the
// vectors were produced with.
func (c *Classifier) Load(dir string) error {
	keywordIdx, err := storage.LoadKeywordIndex(dir, c.norm)
	if err != nil {
		return err
	}
	vectorIdx, err := storage.LoadVectorIndex(dir)
	if err != nil {
		return err
	}

	c.keywordIdx = keywordIdx
	c.vectorIdx = vectorIdx
	return nil
}

// KeywordIndex returns the fitted keyword index, or nil before fitting.
func (c *Classifier) KeywordIndex() *keyword.Index {
	return c.keywordIdx
}

// VectorIndex returns the fitted vector index, or nil before fitting.
func (c *Classifier) VectorIndex() *vector.Index {
	return c.vectorIdx
}

// NewPipeline creates a classification pipeline over the fitted indices.
func (c *Classifier) NewPipeline(opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	if !c.Fitted() {
		return nil, ErrNotFitted
	}
	return pipeline.NewPipeline(c.keywordIdx, c.vectorIdx, c.provider, opts...)
}

// Close releases the AI provider.
func (c *Classifier) Close() error {
	return c.provider.Close()
}
