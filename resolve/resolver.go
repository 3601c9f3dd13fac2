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


package resolve

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/zhangxiaofan-star/AICam/ai"
	"github.com/zhangxiaofan-star/AICam/core"
	"github.com/zhangxiaofan-star/AICam/graph"
	"github.com/zhangxiaofan-star/AICam/index"
)

// GraphReader is the read side of the graph the resolver needs.
// *graph.Store implements it.
type GraphReader interface {
	FeatureNames(ctx context.Context) ([]string, error)
	ToolsForFeature(ctx context.Context, feature string) ([]graph.ToolInfo, error)
	ToolsWithDiameter(ctx context.Context, diameterMM float64) ([]graph.ToolInfo, error)
	SuitableTools(ctx context.Context, maxDiameterMM, minStickoutMM float64) ([]graph.ToolInfo, error)
	ProcessTemplates(ctx context.Context, feature string) ([]graph.KnowledgeRow, error)
	Catalog(ctx context.Context) (*graph.Catalog, error)
}

// Resolver runs questions through retrieval, generation, and the fallback
// tiers. All dependencies are optional; a missing one just disables the
// tiers that need it.
type Resolver struct {
	index     *index.Index
	reader    GraphReader
	embedder  ai.Embedder
	generator ai.Generator
	topK      int
	logger    *slog.Logger

	mu      sync.Mutex
	catalog *graph.Catalog
}

// Option configures a Resolver.
type Option func(*Resolver) error

// WithTopK sets how many retrieval units feed the generation context.
// Default is 5.
func WithTopK(k int) Option {
	return func(r *Resolver) error {
		if k < 1 {
			k = 1
		}
		r.topK = k
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger.With("component", "resolver")
		return nil
	}
}

// NewResolver creates a Resolver. ix, reader, embedder and generator may
// each be nil; the fallback chain covers whatever is missing.
func NewResolver(ix *index.Index, reader GraphReader, embedder ai.Embedder, generator ai.Generator, opts ...Option) (*Resolver, error) {
	r := &Resolver{
		index:     ix,
		reader:    reader,
		embedder:  embedder,
		generator: generator,
		topK:      5,
		logger:    slog.Default().With("component", "resolver"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// SetIndex swaps in a freshly built index.
func (r *Resolver) SetIndex(ix *index.Index) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.index = ix
}

// HasIndex reports whether an index has been set.
func (r *Resolver) HasIndex() bool {
	return r.currentIndex() != nil
}

func (r *Resolver) currentIndex() *index.Index {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index
}

// Ask resolves one question. The answer is never empty: the worst healthy
// outcome is the static apology. An error comes back only on an empty
// question, an unknown mode, caller cancellation, or a wiring defect.
func (r *Resolver) Ask(ctx context.Context, question string, mode Mode) (*Result, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, core.ErrEmptyQuestion
	}
	r.logger.Info("question received", "state", StateReceived, "question", question)

	mode, err := ParseMode(string(mode))
	if err != nil {
		return nil, err
	}
	r.logger.Info("mode selected", "state", StateModeSelected, "mode", mode)

	found := recognize(question, r.catalogFor(ctx))
	facts, factsErr := r.gatherFacts(ctx, found)
	if factsErr != nil {
		r.logger.Warn("graph traversal failed while gathering facts", "err", factsErr)
	}

	// Ordered fallback tiers. genDown skips the naive retry once the
	// generation service itself has failed.
	genDown := false
	tiers := []struct {
		tier Tier
		run  func() (*Result, string)
	}{
		{TierGeneration, func() (*Result, string) {
			return r.generate(ctx, question, mode, found, facts, TierGeneration, &genDown)
		}},
		{TierNaive, func() (*Result, string) {
			if genDown {
				return nil, "generation service already failed"
			}
			if mode == ModeNaive {
				return nil, "requested mode was already naive"
			}
			return r.generate(ctx, question, ModeNaive, found, facts, TierNaive, &genDown)
		}},
		{TierGraph, func() (*Result, string) {
			return r.graphAnswer(ctx, mode, found, facts, factsErr)
		}},
		{TierStatic, func() (*Result, string) {
			return &Result{
				Answer: staticApology,
				Mode:   mode,
				Tier:   TierStatic,
				State:  StateDegraded,
			}, ""
		}},
	}

	for _, t := range tiers {
		if ctx.Err() != nil {
			return &Result{Mode: mode, State: StateFailed}, ctx.Err()
		}
		result, reason := t.run()
		if result != nil {
			r.logger.Info("question resolved",
				"state", result.State, "tier", result.Tier, "mode", result.Mode,
				"citations", len(result.Citations))
			return result, nil
		}
		r.logger.Warn("descending fallback chain", "tier", t.tier, "reason", reason)
	}

	return &Result{Mode: mode, State: StateFailed}, ErrNoTierProduced
}

// generate runs retrieval in the given mode and sends the assembled
// context to the generation service. A nil result carries the descent
// reason.
func (r *Resolver) generate(ctx context.Context, question string, mode Mode, found *mentions, facts []string, tier Tier, genDown *bool) (*Result, string) {
	if r.generator == nil {
		*genDown = true
		return nil, "generation service not configured"
	}

	var vector []float32
	if mode.needsEmbedding() {
		if r.embedder == nil {
			return nil, "embedding service not configured"
		}
		v, err := r.embedder.EmbedText(ctx, question)
		if err != nil {
			return nil, "embedding service unavailable: " + err.Error()
		}
		vector = index.NormalizeVector(v)
	}

	results := r.retrieve(mode, index.Tokenize(question), vector, found)
	contextText, citations := assembleContext(results, facts)
	if contextText == "" {
		return nil, "no retrieval context for question"
	}
	r.logger.Info("context assembled",
		"state", StateContextAssembled, "mode", mode,
		"units", len(citations), "facts", len(facts))

	answer, err := r.generator.GenerateAnswer(ctx, question, contextText)
	if err != nil {
		*genDown = true
		return nil, "generation service unavailable: " + err.Error()
	}

	state := StateAnswered
	if tier != TierGeneration {
		state = StateDegraded
	}
	return &Result{
		Answer:    answer,
		Mode:      mode,
		Tier:      tier,
		State:     state,
		Citations: citations,
	}, ""
}

// retrieve gathers top-k units for the mode.
func (r *Resolver) retrieve(mode Mode, terms []string, vector []float32, found *mentions) []index.Result {
	ix := r.currentIndex()
	if ix == nil {
		return nil
	}
	switch mode {
	case ModeNaive:
		return ix.Search(index.Query{Terms: terms}, r.topK)
	case ModeGlobal:
		return ix.Search(index.Query{Vector: vector}, r.topK)
	case ModeLocal:
		results := ix.Search(index.Query{Vector: vector}, ix.Len())
		filtered := filterByEntities(results, found)
		if len(filtered) == 0 {
			// No entity restriction applies; local widens to global.
			filtered = results
		}
		if len(filtered) > r.topK {
			filtered = filtered[:r.topK]
		}
		return filtered
	default: // hybrid
		return ix.Search(index.Query{Terms: terms, Vector: vector}, r.topK)
	}
}

func filterByEntities(results []index.Result, found *mentions) []index.Result {
	if found == nil || (len(found.Features) == 0 && len(found.Tools) == 0) {
		return nil
	}
	var filtered []index.Result
	for _, result := range results {
		if unitMentioned(result.Unit, found) {
			filtered = append(filtered, result)
		}
	}
	return filtered
}

func unitMentioned(unit index.Unit, found *mentions) bool {
	for _, feature := range found.Features {
		if unit.FeatureName == feature {
			return true
		}
	}
	for _, tool := range found.Tools {
		for _, unitTool := range unit.Tools {
			if unitTool == tool {
				return true
			}
		}
	}
	return false
}

// assembleContext joins retrieved unit texts and traversal facts into the
// generation context.
func assembleContext(results []index.Result, facts []string) (string, []Citation) {
	var parts []string
	citations := make([]Citation, 0, len(results))
	for _, result := range results {
		parts = append(parts, result.Unit.Text)
		citations = append(citations, Citation{
			UnitKey:    result.Unit.Key,
			TemplateID: result.Unit.TemplateID,
			Score:      result.Score,
		})
	}
	parts = append(parts, facts...)
	return strings.Join(parts, "\n"), citations
}

// gatherFacts runs the direct traversals for recognized entities. The
// first store error stops the walk; facts gathered so far still count.
func (r *Resolver) gatherFacts(ctx context.Context, found *mentions) ([]string, error) {
	if r.reader == nil || !found.any() {
		return nil, nil
	}

	var facts []string
	appendFact := func(fact string) {
		if fact != "" {
			facts = append(facts, fact)
		}
	}

	if found.WantsFeatureList {
		names, err := r.reader.FeatureNames(ctx)
		if err != nil {
			return facts, err
		}
		appendFact(renderFeatureList(names))
	}

	for _, feature := range found.Features {
		rows, err := r.reader.ProcessTemplates(ctx, feature)
		if err != nil {
			return facts, err
		}
		appendFact(renderProcessRoute(feature, rows))

		tools, err := r.reader.ToolsForFeature(ctx, feature)
		if err != nil {
			return facts, err
		}
		appendFact(renderTools("特征"+feature+"的推荐刀具：", tools))
	}

	if d := found.Dimensions; d != nil {
		if d.Diameter > 0 {
			tools, err := r.reader.ToolsWithDiameter(ctx, d.Diameter)
			if err != nil {
				return facts, err
			}
			appendFact(renderTools("符合直径要求的刀具：", tools))
		}
		if d.MaxDiameter > 0 {
			tools, err := r.reader.SuitableTools(ctx, d.MaxDiameter, d.MinStickout)
			if err != nil {
				return facts, err
			}
			appendFact(renderTools("满足尺寸约束的刀具：", tools))
		}
	}

	return facts, nil
}

// graphAnswer is the generation-free tier: a templated answer straight
// from the traversal facts. A nil result carries the descent reason.
func (r *Resolver) graphAnswer(ctx context.Context, mode Mode, found *mentions, facts []string, factsErr error) (*Result, string) {
	if r.reader == nil {
		return nil, "graph store not configured"
	}
	if factsErr != nil {
		return nil, "graph store unavailable: " + factsErr.Error()
	}

	if len(facts) > 0 {
		return &Result{
			Answer: strings.Join(facts, "\n\n"),
			Mode:   mode,
			Tier:   TierGraph,
			State:  StateAnswered,
		}, ""
	}

	// Nothing matched the question. Confirm the store is reachable so the
	// explicit no-knowledge answer is honest.
	if _, err := r.reader.FeatureNames(ctx); err != nil {
		return nil, "graph store unavailable: " + err.Error()
	}
	return &Result{
		Answer: noKnowledgeAnswer,
		Mode:   mode,
		Tier:   TierGraph,
		State:  StateAnswered,
	}, ""
}

// catalogFor returns the cached entity catalog, loading it on first use.
// A store failure just means no entity recognition this round.
func (r *Resolver) catalogFor(ctx context.Context) *graph.Catalog {
	if r.reader == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.catalog != nil {
		return r.catalog
	}
	catalog, err := r.reader.Catalog(ctx)
	if err != nil {
		r.logger.Debug("entity catalog unavailable", "err", err)
		return nil
	}
	r.catalog = catalog
	return catalog
}
