package mock

import (
	"context"
	"strings"
)

// MockKeyphraseExtractor is a test double for ai.KeyphraseExtractor.
// It allows custom behavior injection via function fields.
type MockKeyphraseExtractor struct {
	// ExtractKeyphrasesFunc is called by ExtractKeyphrases if set.
	// If nil, uses default simple word extraction.
	ExtractKeyphrasesFunc func(ctx context.Context, text string) ([]string, error)

	callCount int
}

// NewMockKeyphraseExtractor creates a mock extractor with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockExtractor().
func NewMockKeyphraseExtractor() *MockKeyphraseExtractor {
	return &MockKeyphraseExtractor{}
}

// ExtractKeyphrases extracts simple mock key phrases from text.
// Default behavior: lowercases the text and returns its first few words.
func (m *MockKeyphraseExtractor) ExtractKeyphrases(ctx context.Context, text string) ([]string, error) {
	m.callCount++

	if m.ExtractKeyphrasesFunc != nil {
		return m.ExtractKeyphrasesFunc(ctx, text)
	}

	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return []string{}, nil
	}

	phrases := make([]string, 0, len(words))
	for i, word := range words {
		if i >= 5 { // Limit to 5 phrases
			break
		}

		word = strings.Trim(word, ".,!?;:\"'()[]{}")
		if word == "" {
			continue
		}

		phrases = append(phrases, word)
	}

	return phrases, nil
}

// CallCount returns the number of times ExtractKeyphrases was called.
func (m *MockKeyphraseExtractor) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockKeyphraseExtractor) Reset() {
	m.callCount = 0
	m.ExtractKeyphrasesFunc = nil
}
