package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// KeyphraseExtractor extracts multi-word key phrases and named entities from
// text. It is the optional alternate keyword-extraction path: the default
// path is the pure textnorm tokenizer, but an index can be fed richer
// phrases from an NLP model instead.
// Implementations must be thread-safe for concurrent use.
type KeyphraseExtractor interface {
	// ExtractKeyphrases analyzes text and returns lowercase key phrases.
	// Returns an empty slice if no phrases are found.
	// Returns an error if extraction fails.
	ExtractKeyphrases(ctx context.Context, text string) ([]string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and KeyphraseExtractor instances,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// KeyphraseExtractor returns the key phrase extraction service.
	// The returned KeyphraseExtractor is safe for concurrent use.
	KeyphraseExtractor() KeyphraseExtractor

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
