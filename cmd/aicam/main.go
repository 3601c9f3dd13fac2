// Copyright 2025 AICam Authors
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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	aicam "github.com/zhangxiaofan-star/AICam"
	"github.com/zhangxiaofan-star/AICam/ai"
	"github.com/zhangxiaofan-star/AICam/dataset"
	"github.com/zhangxiaofan-star/AICam/graph"
)

func main() {
	app := &cli.App{
		Name:  "aicam",
		Usage: "Manufacturing process knowledge graph and Q&A",
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
				Name:   "load",
				Usage:  "Load the process and tool tables into the graph",
				Action: loadCommand,
				Flags: append(connectionFlags(),
					&cli.StringFlag{
						Name:     "processes",
						Aliases:  []string{"p"},
						Usage:    "Path to the process template CSV",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "tools",
						Aliases:  []string{"t"},
						Usage:    "Path to the tool CSV",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Load mode (full-rebuild, incremental)",
						Value: string(graph.FullRebuild),
					},
				),
			},
			{
				Name:   "index",
				Usage:  "Rebuild the retrieval index from the graph",
				Action: indexCommand,
				Flags:  append(connectionFlags(), aiFlags()...),
			},
			{
				Name:      "ask",
				Usage:     "Answer a natural-language question",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: append(append(connectionFlags(), aiFlags()...),
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Retrieval mode (naive, local, global, hybrid)",
						Value: "hybrid",
					},
				),
			},
			{
				Name:   "stats",
				Usage:  "Report node and relationship counts",
				Action: statsCommand,
				Flags:  connectionFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func connectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "neo4j-uri",
			Usage:   "Neo4j connection URI",
			Value:   "bolt://localhost:7687",
			EnvVars: []string{"NEO4J_URI"},
		},
		&cli.StringFlag{
			Name:    "neo4j-user",
			Usage:   "Neo4j username",
			Value:   "neo4j",
			EnvVars: []string{"NEO4J_USER"},
		},
		&cli.StringFlag{
			Name:    "neo4j-password",
			Usage:   "Neo4j password",
			EnvVars: []string{"NEO4J_PASSWORD"},
		},
		&cli.StringFlag{
			Name:    "neo4j-database",
			Usage:   "Neo4j database name",
			EnvVars: []string{"NEO4J_DATABASE"},
		},
		&cli.StringFlag{
			Name:    "index-path",
			Usage:   "Directory for the persisted retrieval index",
			EnvVars: []string{"AICAM_INDEX_PATH"},
		},
	}
}

func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "ai-host",
			Usage:   "OpenAI-compatible service host URL",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"AICAM_AI_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   "bge-large-zh-v1.5",
			EnvVars: []string{"AICAM_EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "llm-model",
			Usage:   "Generation model name",
			Value:   "qwen2.5:7b",
			EnvVars: []string{"AICAM_LLM_MODEL"},
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "API key for the AI service",
			EnvVars: []string{"AICAM_API_KEY"},
		},
	}
}

func newSystem(c *cli.Context) (*aicam.System, error) {
	graphOpts := []graph.ConfigOption{
		graph.WithURI(c.String("neo4j-uri")),
		graph.WithAuth(c.String("neo4j-user"), c.String("neo4j-password")),
	}
	if db := c.String("neo4j-database"); db != "" {
		graphOpts = append(graphOpts, graph.WithDatabase(db))
	}

	aiOpts := []ai.ConfigOption{
		ai.WithHost(c.String("ai-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithLLMModel(c.String("llm-model")),
	}
	if key := c.String("api-key"); key != "" {
		aiOpts = append(aiOpts, ai.WithAPIKey(key))
	}

	return aicam.NewSystem(c.Context,
		aicam.WithGraphConfig(graph.NewConfig(graphOpts...)),
		aicam.WithAIConfig(ai.NewConfig(aiOpts...)),
		aicam.WithIndexPath(c.String("index-path")),
	)
}

func loadCommand(c *cli.Context) error {
	mode, err := parseLoadMode(c.String("mode"))
	if err != nil {
		return err
	}

	sys, err := newSystem(c)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	defer sys.Close()

	sources := dataset.Sources{
		ProcessesPath: c.String("processes"),
		ToolsPath:     c.String("tools"),
	}
	report, err := sys.Load(c.Context, sources, mode)
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Mode: %s\n", report.Mode)
	fmt.Fprintf(os.Stderr, "Rows read: %d, skipped: %d\n", report.RowsRead, report.RowsSkipped)
	fmt.Fprintf(os.Stderr, "Nodes created: %d, relationships created: %d\n",
		report.NodesCreated, report.RelationshipsCreated)
	for _, v := range report.Violations {
		fmt.Fprintf(os.Stderr, "skipped %s line %d: %s\n", v.Table, v.Line, v.Reason)
	}
	return nil
}

func indexCommand(c *cli.Context) error {
	sys, err := newSystem(c)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	defer sys.Close()

	ix, err := sys.BuildIndex(c.Context)
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Indexed %d units, %d with embeddings\n", ix.Len(), ix.EmbeddedCount())
	return nil
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	sys, err := newSystem(c)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	defer sys.Close()

	result, err := sys.Ask(c.Context, question, c.String("mode"))
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	fmt.Println(result.Answer)
	fmt.Fprintf(os.Stderr, "\n[mode=%s tier=%s state=%s]\n", result.Mode, result.Tier, result.State)
	for _, cit := range result.Citations {
		fmt.Fprintf(os.Stderr, "  source: %s (score %.3f)\n", cit.TemplateID, cit.Score)
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	sys, err := newSystem(c)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	defer sys.Close()

	stats, err := sys.Stats(c.Context)
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}
	fmt.Printf("Features:       %d\n", stats.Features)
	fmt.Printf("Processes:      %d\n", stats.Processes)
	fmt.Printf("Process types:  %d\n", stats.ProcessTypes)
	fmt.Printf("Process stages: %d\n", stats.ProcessStages)
	fmt.Printf("Tools:          %d\n", stats.Tools)
	fmt.Printf("Relationships:  %d\n", stats.Relationships)
	return nil
}

func parseLoadMode(s string) (graph.LoadMode, error) {
	switch graph.LoadMode(strings.ToLower(strings.TrimSpace(s))) {
	case graph.FullRebuild:
		return graph.FullRebuild, nil
	case graph.Incremental:
		return graph.Incremental, nil
	}
	return "", fmt.Errorf("invalid load mode %q: must be full-rebuild or incremental", s)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

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

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
