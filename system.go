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

package aicam

import (
	"context"
	"log/slog"

	"github.com/zhangxiaofan-star/AICam/ai"
	"github.com/zhangxiaofan-star/AICam/ai/openai"
	"github.com/zhangxiaofan-star/AICam/core"
	"github.com/zhangxiaofan-star/AICam/dataset"
	"github.com/zhangxiaofan-star/AICam/graph"
	"github.com/zhangxiaofan-star/AICam/index"
	"github.com/zhangxiaofan-star/AICam/resolve"
)

// System wires the graph store, the retrieval index and the AI provider
// into one process-knowledge service. It owns every component it creates
// and releases them in Close.
type System struct {
	client   *graph.Client
	loader   *graph.Loader
	store    *graph.Store
	units    *index.UnitStore
	provider ai.Provider
	builder  *index.Builder
	resolver *resolve.Resolver
	logger   *slog.Logger
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	graphConfig *graph.Config
	aiConfig    *ai.Config
	indexPath   string
	topK        int
	runner      graph.Runner
	provider    ai.Provider
}

// WithGraphConfig overrides the Neo4j connection settings.
func WithGraphConfig(cfg *graph.Config) SystemOption {
	return func(o *systemOptions) {
		o.graphConfig = cfg
	}
}

// WithAIConfig overrides the embedding and generation settings.
func WithAIConfig(cfg *ai.Config) SystemOption {
	return func(o *systemOptions) {
		o.aiConfig = cfg
	}
}

// WithIndexPath persists the retrieval index under dir instead of
// keeping it in memory. A persisted index survives restarts and is
// reloaded lazily on the first question.
func WithIndexPath(dir string) SystemOption {
	return func(o *systemOptions) {
		o.indexPath = dir
	}
}

// WithTopK bounds how many retrieved units back one answer.
func WithTopK(k int) SystemOption {
	return func(o *systemOptions) {
		o.topK = k
	}
}

// WithRunner injects a query runner in place of a live Neo4j client.
func WithRunner(runner graph.Runner) SystemOption {
	return func(o *systemOptions) {
		o.runner = runner
	}
}

// WithProvider injects an AI provider in place of the OpenAI one.
func WithProvider(provider ai.Provider) SystemOption {
	return func(o *systemOptions) {
		o.provider = provider
	}
}

func NewSystem(ctx context.Context, opts ...SystemOption) (*System, error) {
	// Apply options
	options := &systemOptions{
		graphConfig: graph.DefaultConfig(),
		aiConfig:    ai.DefaultConfig(), // Default if not provided
		topK:        0,                  // resolver default
	}
	for _, opt := range opts {
		opt(options)
	}
	logger := slog.Default()

	// Connect to the graph store
	var client *graph.Client
	runner := options.runner
	if runner == nil {
		var err error
		client, err = graph.NewClient(ctx, options.graphConfig, logger)
		if err != nil {
			return nil, err
		}
		runner = client
	}
	closeClient := func() {
		if client != nil {
			client.Close(ctx)
		}
	}

	loader := graph.NewLoader(runner, options.graphConfig.BatchSize, logger)
	store := graph.NewStore(runner)

	// Open the unit cache
	units, err := index.OpenUnitStore(options.indexPath, options.indexPath == "")
	if err != nil {
		closeClient()
		return nil, err
	}

	// Create AI provider with configured settings
	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			units.Close()
			closeClient()
			return nil, err
		}
	}

	builder, err := index.NewBuilder(store, provider.Embedder(), index.WithLogger(logger))
	if err != nil {
		provider.Close()
		units.Close()
		closeClient()
		return nil, err
	}

	var resolverOpts []resolve.Option
	if options.topK > 0 {
		resolverOpts = append(resolverOpts, resolve.WithTopK(options.topK))
	}
	resolverOpts = append(resolverOpts, resolve.WithLogger(logger))
	resolver, err := resolve.NewResolver(nil, store, provider.Embedder(), provider.Generator(), resolverOpts...)
	if err != nil {
		builder.Release()
		provider.Close()
		units.Close()
		closeClient()
		return nil, err
	}

	return &System{
		client:   client,
		loader:   loader,
		store:    store,
		units:    units,
		provider: provider,
		builder:  builder,
		resolver: resolver,
		logger:   logger,
	}, nil
}

// Load reads the two CSV tables and writes them into the graph. Rows
// the readers could not parse are counted and reported alongside the
// loader's own mapping violations.
func (s *System) Load(ctx context.Context, sources dataset.Sources, mode graph.LoadMode) (*core.LoadReport, error) {
	processRows, processViolations, err := dataset.ReadProcessTable(sources.ProcessesPath)
	if err != nil {
		return nil, err
	}
	toolRows, toolViolations, err := dataset.ReadToolTable(sources.ToolsPath)
	if err != nil {
		return nil, err
	}
	readerViolations := append(processViolations, toolViolations...)
	for _, v := range readerViolations {
		s.logger.Warn("skipping row", "table", v.Table, "line", v.Line, "reason", v.Reason)
	}

	report, err := s.loader.Load(ctx, processRows, toolRows, mode)
	if report != nil {
		report.RowsSkipped += len(readerViolations)
		report.Violations = append(readerViolations, report.Violations...)
	}
	return report, err
}

// BuildIndex rebuilds the retrieval index from the graph, swaps it into
// the resolver and persists the units for the next start.
func (s *System) BuildIndex(ctx context.Context) (*index.Index, error) {
	ix, err := s.builder.Build(ctx)
	if err != nil {
		return nil, err
	}
	s.resolver.SetIndex(ix)
	if err := s.units.Clear(); err != nil {
		return ix, err
	}
	if err := s.units.PutUnits(ix.Units()); err != nil {
		return ix, err
	}
	return ix, nil
}

// Ask answers one natural-language question. When no index has been
// built in this process it first tries to reload the persisted one;
// without it the resolver still answers from the graph.
func (s *System) Ask(ctx context.Context, question string, modeName string) (*resolve.Result, error) {
	mode, err := resolve.ParseMode(modeName)
	if err != nil {
		return nil, err
	}
	s.ensureIndex()
	return s.resolver.Ask(ctx, question, mode)
}

// Stats reports node and relationship counts from the graph.
func (s *System) Stats(ctx context.Context) (*graph.Statistics, error) {
	return s.store.Statistics(ctx)
}

// Store exposes the graph read side.
func (s *System) Store() *graph.Store {
	return s.store
}

func (s *System) ensureIndex() {
	if s.resolver.HasIndex() {
		return
	}
	units, err := s.units.LoadUnits()
	if err != nil {
		s.logger.Warn("persisted index unavailable", "err", err)
		return
	}
	if len(units) == 0 {
		return
	}
	s.resolver.SetIndex(index.New(units))
	s.logger.Info("retrieval index restored", "units", len(units))
}

func (s *System) Close() error {
	// Close AI provider first
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}
	s.builder.Release()

	if err := s.units.Close(); err != nil {
		s.logger.Error("error closing unit store", "err", err)
		return err
	}
	if s.client != nil {
		if err := s.client.Close(context.Background()); err != nil {
			s.logger.Error("error closing graph client", "err", err)
			return err
		}
	}
	return nil
}
