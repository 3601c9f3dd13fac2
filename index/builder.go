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


package index

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/zhangxiaofan-star/AICam/ai"
	"github.com/zhangxiaofan-star/AICam/core"
	"github.com/zhangxiaofan-star/AICam/graph"
)

// KnowledgeSource yields the rows to index. *graph.Store implements it.
type KnowledgeSource interface {
	KnowledgeRows(ctx context.Context) ([]graph.KnowledgeRow, error)
}

// Builder composes retrieval units from the graph and embeds them with a
// bounded worker pool.
type Builder struct {
	source      KnowledgeSource
	embedder    ai.Embedder
	pool        *ants.Pool
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) BuilderOption {
	return func(b *Builder) error {
		if size < 1 {
			size = 1
		}
		if b.pool != nil {
			b.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		b.pool = pool
		return nil
	}
}

// WithRetry sets the per-unit embedding retry policy.
// Default is 3 attempts starting at 500ms.
func WithRetry(maxAttempts int, baseDelay time.Duration) BuilderOption {
	return func(b *Builder) error {
		if maxAttempts < 1 {
			return ai.ErrInvalidMaxAttempts
		}
		b.maxAttempts = maxAttempts
		b.baseDelay = baseDelay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger.With("component", "indexer")
		return nil
	}
}

// NewBuilder creates a Builder over source. embedder may be nil, in which
// case every unit is lexical-only.
func NewBuilder(source KnowledgeSource, embedder ai.Embedder, opts ...BuilderOption) (*Builder, error) {
	if source == nil {
		return nil, ErrStoreRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	b := &Builder{
		source:      source,
		embedder:    embedder,
		pool:        pool,
		maxAttempts: 3,
		baseDelay:   500 * time.Millisecond,
		logger:      slog.Default().With("component", "indexer"),
	}
	for _, opt := range opts {
		if optErr := opt(b); optErr != nil {
			b.Release()
			return nil, optErr
		}
	}
	return b, nil
}

// Build reads the knowledge rows and produces the index. Units whose
// embedding calls fail after retries keep an empty vector and stay
// searchable lexically; only an empty graph fails the build.
func (b *Builder) Build(ctx context.Context) (*Index, error) {
	started := time.Now()

	rows, err := b.source.KnowledgeRows(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: graph has no process knowledge", core.ErrIndexBuildFailure)
	}

	units := make([]Unit, len(rows))
	for i, row := range rows {
		units[i] = UnitFromKnowledge(row)
	}

	if b.embedder != nil {
		b.embedUnits(ctx, units)
	}

	embedded := 0
	for i := range units {
		if len(units[i].Vector) > 0 {
			embedded++
		}
	}
	b.logger.Info("index built",
		"units", len(units),
		"embedded", embedded,
		"lexical_only", len(units)-embedded,
		"duration", time.Since(started))

	return New(units), nil
}

// embedUnits fills unit vectors concurrently. Each worker writes only its
// own slot, so assembly is order-independent.
func (b *Builder) embedUnits(ctx context.Context, units []Unit) {
	var wg sync.WaitGroup
	for i := range units {
		unit := &units[i]
		task := func() {
			defer wg.Done()
			var vector []float32
			err := ai.RetryWithBackoff(ctx, func() error {
				v, embedErr := b.embedder.EmbedText(ctx, unit.Text)
				if embedErr != nil {
					return embedErr
				}
				vector = v
				return nil
			}, b.maxAttempts, b.baseDelay)
			if err != nil {
				b.logger.Warn("embedding failed, unit degrades to lexical-only",
					"unit", unit.Key, "template", unit.TemplateID, "err", err)
				return
			}
			unit.Vector = NormalizeVector(vector)
		}

		wg.Add(1)
		if err := b.pool.Submit(task); err != nil {
			// Pool refused (released or overloaded): run inline.
			task()
		}
	}
	wg.Wait()
}

// EmbedQuery embeds a question for hybrid search. A nil embedder or a
// failed call returns an empty vector so the caller degrades to lexical.
func (b *Builder) EmbedQuery(ctx context.Context, question string) []float32 {
	if b.embedder == nil {
		return nil
	}
	vector, err := b.embedder.EmbedText(ctx, question)
	if err != nil {
		b.logger.Warn("query embedding failed, degrading to lexical", "err", err)
		return nil
	}
	return NormalizeVector(vector)
}

// Release releases the worker pool. The builder must not be used after.
func (b *Builder) Release() {
	if b.pool != nil {
		b.pool.Release()
	}
}
