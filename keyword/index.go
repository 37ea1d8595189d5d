package keyword

import (
	"log/slog"
	"math"
	"sort"

	"github.com/worklens/worklens/core"
	"github.com/worklens/worklens/fuzzy"
	"github.com/worklens/worklens/textnorm"
)

const (
	// defaultTitleConfidence is the minimum fuzzy confidence for a title
	// match to contribute a prior to the cells of the matched project.
	defaultTitleConfidence = 0.95

	// defaultTitleNeighbors bounds the fuzzy re-rank pool for title matching.
	defaultTitleNeighbors = 5
)

// TitleMatcher proposes the closest known project names for a noisy title.
type TitleMatcher interface {
	Match(queries, candidates []string, nNeighbors, limit int) []fuzzy.Match
}

// Index is a hierarchical keyword inverted index over (project, activity)
// cells. It is built once from historical documents, optionally pruned, and
// then queried read-only; Search is safe for concurrent use as long as no
// AddDocument or PruneFrequent call runs alongside it.
type Index struct {
	norm            *textnorm.Normalizer
	matcher         TitleMatcher
	cells           map[core.Cell]map[string]struct{}
	titleConfidence float64
	logger          *slog.Logger
}

// Option configures an Index.
type Option func(*Index) error

// WithTitleMatcher replaces the fuzzy matcher used for the title prior.
func WithTitleMatcher(matcher TitleMatcher) Option {
	return func(idx *Index) error {
		if matcher == nil {
			return ErrMatcherRequired
		}
		idx.matcher = matcher
		return nil
	}
}

// WithTitleConfidence sets the minimum confidence for title priors.
// Default is 0.95; the threshold is inclusive.
func WithTitleConfidence(confidence float64) Option {
	return func(idx *Index) error {
		idx.titleConfidence = confidence
		return nil
	}
}

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

// NewIndex creates an empty keyword index using the given normalizer.
// Unless overridden, the title prior uses a fuzzy matcher built on the same
// normalizer.
func NewIndex(norm *textnorm.Normalizer, opts ...Option) (*Index, error) {
	if norm == nil {
		return nil, ErrNormalizerRequired
	}

	idx := &Index{
		norm:            norm,
		cells:           make(map[core.Cell]map[string]struct{}),
		titleConfidence: defaultTitleConfidence,
		logger:          slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(idx); err != nil {
			return nil, err
		}
	}

	if idx.matcher == nil {
		matcher, err := fuzzy.NewMatcher(norm, fuzzy.WithLogger(idx.logger))
		if err != nil {
			return nil, err
		}
		idx.matcher = matcher
	}

	return idx, nil
}

// cell returns the keyword set for the given cell, creating it if absent.
func (idx *Index) cell(key core.Cell) map[string]struct{} {
	set, ok := idx.cells[key]
	if !ok {
		set = make(map[string]struct{})
		idx.cells[key] = set
	}
	return set
}

// AddDocument extracts keywords from the project name, activity name and
// free text of one historical document and unions them into the document's
// cell. Re-adding an identical document leaves the stored set unchanged.
func (idx *Index) AddDocument(project, activity, text string) {
	keywords := idx.norm.ExtractKeywords(project + " " + activity + " " + text)
	set := idx.cell(core.Cell{Project: project, Activity: activity})
	for kw := range keywords {
		set[kw] = struct{}{}
	}
	idx.logger.Debug("added core document",
		"project", project, "activity", activity, "keywords", len(keywords))
}

// PruneFrequent removes keywords that occur in more than threshold cells
// across the whole index. Keywords that common carry no discriminative
// signal for any single cell. Apply exactly once, after all documents have
// been added and before the first search, so scores stay comparable.
func (idx *Index) PruneFrequent(threshold int) {
	counts := make(map[string]int)
	for _, keywords := range idx.cells {
		for kw := range keywords {
			counts[kw]++
		}
	}

	for key, keywords := range idx.cells {
		before := len(keywords)
		for kw := range keywords {
			if counts[kw] > threshold {
				delete(keywords, kw)
			}
		}
		if removed := before - len(keywords); removed > 0 {
			idx.logger.Debug("pruned frequent keywords",
				"project", key.Project, "activity", key.Activity, "removed", removed)
		}
	}
}

// ProcessQuery extracts the query keyword set from an event's title and body.
func (idx *Index) ProcessQuery(title, body string) map[string]struct{} {
	return idx.norm.ExtractKeywords(title + " " + body)
}

// Search scores every cell against the query keywords.
//
// If title is non-empty, the fuzzy title matcher is run against the known
// project names; each match at or above the confidence threshold adds its
// confidence as a prior to every activity of the matched project. Every cell
// then adds its lexical term: the keyword overlap divided by the cell's
// keyword count. A cell with no keywords contributes a zero lexical term
// rather than dividing by zero. Only cells with a positive total are
// returned, rounded to 4 decimal places.
func (idx *Index) Search(queryKeywords map[string]struct{}, title string) map[core.Cell]float64 {
	priors := make(map[string]float64)
	if title != "" {
		matches := idx.matcher.Match([]string{title}, idx.Projects(), defaultTitleNeighbors, 1)
		for _, match := range matches {
			if match.Confidence < idx.titleConfidence {
				continue
			}
			if match.Confidence > priors[match.Candidate] {
				priors[match.Candidate] = match.Confidence
			}
		}
	}

	results := make(map[core.Cell]float64)
	for key, keywords := range idx.cells {
		score := priors[key.Project]
		if len(keywords) > 0 {
			overlap := 0
			for kw := range queryKeywords {
				if _, ok := keywords[kw]; ok {
					overlap++
				}
			}
			score += float64(overlap) / float64(len(keywords))
		}
		if score > 0 {
			results[key] = math.Round(score*10000) / 10000
		}
	}

	return results
}

// Projects returns the known project names in sorted order.
func (idx *Index) Projects() []string {
	seen := make(map[string]struct{})
	for key := range idx.cells {
		seen[key.Project] = struct{}{}
	}
	projects := make([]string, 0, len(seen))
	for p := range seen {
		projects = append(projects, p)
	}
	sort.Strings(projects)
	return projects
}

// Cells returns the number of (project, activity) cells in the index.
func (idx *Index) Cells() int {
	return len(idx.cells)
}

// Snapshot exports the index as a nested project -> activity -> sorted
// keyword list mapping, the persisted representation.
func (idx *Index) Snapshot() map[string]map[string][]string {
	snapshot := make(map[string]map[string][]string)
	for key, keywords := range idx.cells {
		activities, ok := snapshot[key.Project]
		if !ok {
			activities = make(map[string][]string)
			snapshot[key.Project] = activities
		}
		sorted := make([]string, 0, len(keywords))
		for kw := range keywords {
			sorted = append(sorted, kw)
		}
		sort.Strings(sorted)
		activities[key.Activity] = sorted
	}
	return snapshot
}

// FromSnapshot rebuilds an index from its persisted representation.
// Keyword order in the snapshot is not significant.
func FromSnapshot(snapshot map[string]map[string][]string, norm *textnorm.Normalizer, opts ...Option) (*Index, error) {
	idx, err := NewIndex(norm, opts...)
	if err != nil {
		return nil, err
	}
	for project, activities := range snapshot {
		for activity, keywords := range activities {
			set := idx.cell(core.Cell{Project: project, Activity: activity})
			for _, kw := range keywords {
				set[kw] = struct{}{}
			}
		}
	}
	return idx, nil
}
