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


package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/worklens/worklens/ai"
)

// KeyphraseExtractor implements ai.KeyphraseExtractor using OpenAI-compatible chat APIs.
type KeyphraseExtractor struct {
	client llms.Model
	logger *slog.Logger
}

// extraction is the wrapper structure for the LLM's JSON response.
type extraction struct {
	Keyphrases []string `json:"keyphrases"`
}

// newKeyphraseExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newKeyphraseExtractor(config *ai.Config) (*KeyphraseExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat/extraction
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ExtractorHost),
		openai.WithToken("none"),
		openai.WithModel(config.ExtractorModel),
	)
	if err != nil {
		return nil, err
	}

	return &KeyphraseExtractor{
		client: client,
		logger: slog.Default().With("component", "openai-extractor"),
	}, nil
}

// NewKeyphraseExtractor creates a new key phrase extractor using the provided configuration.
//
// Returns ai.KeyphraseExtractor interface to enforce abstraction.
func NewKeyphraseExtractor(config *ai.Config) (ai.KeyphraseExtractor, error) {
	return newKeyphraseExtractor(config)
}

// ExtractKeyphrases extracts identifying key phrases from text using an LLM.
func (e *KeyphraseExtractor) ExtractKeyphrases(ctx context.Context, text string) ([]string, error) {
	systemPrompt := buildSystemPrompt()
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(text),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result extraction
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			e.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			e.logger.Debug("no choices returned from model")
			return []string{}, nil
		}

		choice := response.Choices[0]

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(choice.Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			e.logger.Warn("error parsing extractor response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		// Success
		lastErr = nil
		break
	}

	if lastErr != nil {
		e.logger.Error("failed to parse extractor response after retries", "err", lastErr)
		return nil, lastErr
	}

	// Normalize and drop empty entries
	phrases := make([]string, 0, len(result.Keyphrases))
	for _, p := range result.Keyphrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		phrases = append(phrases, p)
	}

	e.logger.Debug("extracted key phrases", "count", len(phrases))
	return phrases, nil
}
