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


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/worklens/worklens"
	"github.com/worklens/worklens/ai"
	"github.com/worklens/worklens/core"
	"github.com/worklens/worklens/pipeline"
	"github.com/worklens/worklens/storage/badger"
)

func main() {
	app := &cli.App{
		Name:  "worklens",
		Usage: "Classify calendar events against a timesheet project catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "fit",
				Usage:  "Build the retrieval indices from a catalog documents file",
				Action: fitCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "documents",
						Aliases:  []string{"f"},
						Usage:    "Path to the catalog documents JSON file",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "index-dir",
						Aliases:  []string{"i"},
						Usage:    "Directory to write the fitted indices to",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "prune-threshold",
						Usage: "Drop keywords occurring in more than this many cells (0 disables pruning)",
						Value: 0,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "paraphrase-multilingual-mpnet-base-v2",
					},
				},
			},
			{
				Name:   "classify",
				Usage:  "Classify an events JSON file against fitted indices",
				Action: classifyCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "events",
						Aliases:  []string{"e"},
						Usage:    "Path to the events JSON file",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "index-dir",
						Aliases:  []string{"i"},
						Usage:    "Directory holding the fitted indices",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write classified events JSON to this file (default stdout)",
					},
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Also persist results to this BadgerDB directory",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "paraphrase-multilingual-mpnet-base-v2",
					},
					&cli.BoolFlag{
						Name:  "keyphrases",
						Usage: "Enrich event keywords with LLM-extracted key phrases",
					},
					&cli.StringFlag{
						Name:  "extractor-model",
						Usage: "Key phrase extraction model name",
						Value: "qwen2.5:3b",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Worker pool size for concurrent classification",
					},
					&cli.DurationFlag{
						Name:  "event-timeout",
						Usage: "Per-event classification timeout (0 disables)",
					},
				},
			},
			{
				Name:   "results",
				Usage:  "List persisted classification results",
				Action: resultsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the BadgerDB results directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "project",
						Aliases: []string{"p"},
						Usage:   "Only results predicted for this project",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results to print (0 prints all)",
						Value: 0,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newClassifier(c *cli.Context) (*worklens.Classifier, error) {
	configOpts := []ai.ConfigOption{
		ai.WithHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	}
	if model := c.String("extractor-model"); model != "" {
		configOpts = append(configOpts, ai.WithExtractorModel(model))
	}

	aiConfig := ai.NewConfig(configOpts...)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	return worklens.NewClassifier(worklens.WithAIConfig(aiConfig))
}

func fitCommand(c *cli.Context) error {
	ctx := context.Background()

	var documents []core.Document
	if err := readJSONFile(c.String("documents"), &documents); err != nil {
		return fmt.Errorf("failed to read documents: %w", err)
	}

	classifier, err := newClassifier(c)
	if err != nil {
		return err
	}
	defer classifier.Close()

	started := time.Now()
	if err := classifier.Fit(ctx, documents, c.Int("prune-threshold")); err != nil {
		return fmt.Errorf("failed to fit classifier: %w", err)
	}

	indexDir := c.String("index-dir")
	if err := classifier.Save(indexDir); err != nil {
		return fmt.Errorf("failed to save indices: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Fitted %d documents into %d cells in %s\n",
		len(documents), classifier.KeywordIndex().Cells(), time.Since(started).Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "Indices written to %s\n", indexDir)
	return nil
}

func classifyCommand(c *cli.Context) error {
	ctx := context.Background()

	var events []core.Event
	if err := readJSONFile(c.String("events"), &events); err != nil {
		return fmt.Errorf("failed to read events: %w", err)
	}

	classifier, err := newClassifier(c)
	if err != nil {
		return err
	}
	defer classifier.Close()

	if err := classifier.Load(c.String("index-dir")); err != nil {
		return fmt.Errorf("failed to load indices: %w", err)
	}

	var opts []pipeline.Option
	if c.Bool("keyphrases") {
		opts = append(opts, pipeline.WithQueryKeyphrases(true))
	}
	if size := c.Int("pool-size"); size > 0 {
		opts = append(opts, pipeline.WithPoolSize(size))
	}
	if timeout := c.Duration("event-timeout"); timeout > 0 {
		opts = append(opts, pipeline.WithEventTimeout(timeout))
	}

	p, err := classifier.NewPipeline(opts...)
	if err != nil {
		return err
	}
	defer p.Release()

	classified, err := p.Run(ctx, events)
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	if dbPath := c.String("db"); dbPath != "" {
		if err := persistResults(ctx, dbPath, classified); err != nil {
			return fmt.Errorf("failed to persist results: %w", err)
		}
	}

	return writeOutput(c.String("output"), classified)
}

func persistResults(ctx context.Context, dbPath string, classified []core.ClassifiedEvent) error {
	backend, err := badger.OpenBackend(dbPath, false)
	if err != nil {
		return err
	}
	defer backend.Close()

	repo, err := badger.NewResultRepository(backend)
	if err != nil {
		return err
	}
	defer repo.Close()

	results := make([]*core.Result, 0, len(classified))
	for _, event := range classified {
		if !event.Classified() {
			continue
		}
		results = append(results, &core.Result{
			Event:      event.Event,
			Prediction: *event.Prediction,
		})
	}

	if len(results) == 0 {
		return nil
	}

	_, err = repo.AddResults(ctx, results...)
	if err == nil {
		fmt.Fprintf(os.Stderr, "Persisted %d results to %s\n", len(results), dbPath)
	}
	return err
}

func resultsCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewResultRepository(backend)
	if err != nil {
		return err
	}
	defer repo.Close()

	var results []*core.Result
	if project := c.String("project"); project != "" {
		results, err = repo.GetResultsByProject(ctx, project)
		if limit := c.Int("limit"); err == nil && limit > 0 && len(results) > limit {
			results = results[:limit]
		}
	} else {
		results, err = repo.ListResults(ctx, c.Int("limit"))
	}
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func writeOutput(path string, classified []core.ClassifiedEvent) error {
	data, err := json.MarshalIndent(classified, "", "  ")
	if err != nil {
		return err
	}

	if path == "" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
