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


package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/worklens/worklens/ai"
	"github.com/worklens/worklens/core"
	"github.com/worklens/worklens/keyword"
	"github.com/worklens/worklens/vector"
)

// Pipeline classifies calendar events against the fitted catalog by fusing
// the keyword and vector retrieval signals. It reads both indices but never
// mutates them, so a single classification pass can fan out over a worker
// pool.
type Pipeline struct {
	keywordIndex    *keyword.Index
	vectorIndex     *vector.Index
	embedder        ai.Embedder
	extractor       ai.KeyphraseExtractor
	pool            *ants.Pool
	eventTimeout    time.Duration
	batchEmbed      bool
	queryKeyphrases bool
	logger          *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent classification.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithEventTimeout bounds the classification of a single event. A timeout
// surfaces as that event's error; the rest of the batch is unaffected.
// Zero disables the bound, which is the default.
func WithEventTimeout(timeout time.Duration) Option {
	return func(p *Pipeline) error {
		if timeout < 0 {
			timeout = 0
		}
		p.eventTimeout = timeout
		return nil
	}
}

// WithQueryKeyphrases enriches each event's keyword set with key phrases
// extracted by the provider's language model before the keyword signal is
// scored. Extraction failures are event-scoped: the event falls back to
// its lexical keywords alone. Disabled by default.
func WithQueryKeyphrases(enabled bool) Option {
	return func(p *Pipeline) error {
		p.queryKeyphrases = enabled
		return nil
	}
}

// WithBatchEmbedding controls whether event texts are embedded in one
// EmbedTexts call up front. Enabled by default; disabling it embeds each
// event individually inside the worker.
func WithBatchEmbedding(enabled bool) Option {
	return func(p *Pipeline) error {
		p.batchEmbed = enabled
		return nil
	}
}

// NewPipeline creates a classification pipeline over fitted indices.
func NewPipeline(
	keywordIndex *keyword.Index,
	vectorIndex *vector.Index,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if keywordIndex == nil {
		return nil, ErrKeywordIndexRequired
	}
	if vectorIndex == nil {
		return nil, ErrVectorIndexRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		keywordIndex: keywordIndex,
		vectorIndex:  vectorIndex,
		embedder:     provider.Embedder(),
		extractor:    provider.KeyphraseExtractor(),
		pool:         pool,
		batchEmbed:   true,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Run classifies a batch of events. The returned slice is positionally
// aligned with the input; every event gets exactly one entry carrying
// either a prediction or an event-scoped error. Run itself fails only on
// batch-level problems, never because individual events were unmatchable.
func (p *Pipeline) Run(ctx context.Context, events []core.Event) ([]core.ClassifiedEvent, error) {
	if len(events) == 0 {
		return []core.ClassifiedEvent{}, nil
	}

	// Embed all event texts in one call where possible. A batch failure
	// falls back to per-event embedding inside the workers so one bad
	// request cannot sink the whole run.
	var embeddings [][]float32
	if p.batchEmbed {
		texts := make([]string, len(events))
		for i, event := range events {
			texts[i] = event.Query().Text()
		}

		batch, err := p.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			p.logger.Warn("batch embedding failed, falling back to per-event embedding", "err", err)
		} else if len(batch) != len(events) {
			p.logger.Warn("batch embedding returned unexpected count, falling back to per-event embedding",
				"expected", len(events), "got", len(batch))
		} else {
			embeddings = batch
		}
	}

	results := make([]core.ClassifiedEvent, len(events))
	var wg sync.WaitGroup

	for i, event := range events {
		i, event := i, event

		var queryVector []float32
		if embeddings != nil {
			queryVector = embeddings[i]
		}

		wg.Add(1)
		task := func() {
			defer wg.Done()
			results[i] = p.classify(ctx, event, queryVector)
		}

		if err := p.pool.Submit(task); err != nil {
			// Pool rejected the task; classify on the calling goroutine.
			task()
		}
	}

	wg.Wait()

	classified := 0
	for _, result := range results {
		if result.Classified() {
			classified++
		}
	}
	p.logger.Info("classified events", "total", len(events), "classified", classified)

	return results, nil
}

// Classify classifies a single event.
func (p *Pipeline) Classify(ctx context.Context, event core.Event) core.ClassifiedEvent {
	return p.classify(ctx, event, nil)
}

// classify fuses the two retrieval signals for one event. queryVector may
// carry a batch-precomputed embedding; nil means embed here.
func (p *Pipeline) classify(ctx context.Context, event core.Event, queryVector []float32) core.ClassifiedEvent {
	if p.eventTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.eventTimeout)
		defer cancel()
	}

	query := event.Query()

	queryKeywords := p.keywordIndex.ProcessQuery(query.Title, query.Body)
	if p.queryKeyphrases {
		phrases, extractErr := p.extractor.ExtractKeyphrases(ctx, query.Text())
		if extractErr != nil {
			p.logger.Warn("keyphrase extraction failed, using lexical keywords only",
				"subject", event.Subject, "err", extractErr)
		} else {
			for kw := range p.keywordIndex.ProcessQuery(strings.Join(phrases, " "), "") {
				queryKeywords[kw] = struct{}{}
			}
		}
	}

	keywordScores := p.keywordIndex.Search(queryKeywords, query.Title)

	vectorScores, err := p.vectorScores(ctx, query, queryVector)
	if err != nil {
		p.logger.Error("error scoring event against vector index",
			"subject", event.Subject, "err", err)
		return core.ClassifiedEvent{Event: event, Err: err}
	}

	candidates := joinSignals(keywordScores, vectorScores)
	if len(candidates) == 0 {
		p.logger.Debug("no overlapping candidates for event", "subject", event.Subject)
		return core.ClassifiedEvent{Event: event, Err: ErrUnclassified}
	}

	best := candidates[0]
	for _, candidate := range candidates[1:] {
		if candidate.FusedScore > best.FusedScore {
			best = candidate
			continue
		}
		if candidate.FusedScore == best.FusedScore && candidate.Cell.Less(best.Cell) {
			best = candidate
		}
	}

	return core.ClassifiedEvent{
		Event: event,
		Prediction: &core.Prediction{
			ProjectDescription: best.Cell.Project,
			ProjectActivity:    best.Cell.Activity,
			KeywordScore:       best.KeywordScore,
			VectorScore:        best.VectorScore,
			FusedScore:         best.FusedScore,
		},
	}
}

// vectorScores ranks the full catalog for the query and collapses the
// ranking to the best score per cell. Multiple catalog documents can share
// a cell label; the cell keeps the maximum.
func (p *Pipeline) vectorScores(ctx context.Context, query core.Query, queryVector []float32) (map[core.Cell]float64, error) {
	var matches []vector.Match
	var err error

	if queryVector != nil {
		matches, err = p.vectorIndex.SearchByVector(vector.Normalize(queryVector), 0)
	} else {
		matches, err = p.vectorIndex.SearchByDocument(ctx, query.Text(), p.embedder, 0)
	}
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	scores := make(map[core.Cell]float64, len(matches))
	for _, match := range matches {
		if existing, ok := scores[match.Cell]; !ok || match.Score > existing {
			scores[match.Cell] = match.Score
		}
	}
	return scores, nil
}

// joinSignals inner-joins the two score maps on cell and sums the scores.
// Iterates the smaller map and probes the larger one.
func joinSignals(keywordScores, vectorScores map[core.Cell]float64) []core.MatchCandidate {
	small, large := keywordScores, vectorScores
	swapped := false
	if len(large) < len(small) {
		small, large = large, small
		swapped = true
	}

	candidates := make([]core.MatchCandidate, 0, len(small))
	for cell, smallScore := range small {
		largeScore, ok := large[cell]
		if !ok {
			continue
		}

		keywordScore, vectorScore := smallScore, largeScore
		if swapped {
			keywordScore, vectorScore = largeScore, smallScore
		}

		candidates = append(candidates, core.MatchCandidate{
			Cell:         cell,
			KeywordScore: keywordScore,
			VectorScore:  vectorScore,
			FusedScore:   keywordScore + vectorScore,
		})
	}
	return candidates
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
