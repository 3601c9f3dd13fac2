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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhangxiaofan-star/AICam/ai/mock"
	"github.com/zhangxiaofan-star/AICam/core"
	"github.com/zhangxiaofan-star/AICam/graph"
)

type fakeSource struct {
	rows []graph.KnowledgeRow
	err  error
}

func (s *fakeSource) KnowledgeRows(_ context.Context) ([]graph.KnowledgeRow, error) {
	return s.rows, s.err
}

func knowledgeFixture() []graph.KnowledgeRow {
	return []graph.KnowledgeRow{
		{Key: "02", TemplateID: "P002", FeatureID: "F001", FeatureName: "圆柱通孔", SurfaceType: "平面", Stage: "精加工", ProcessType: "底壁铣", Allowance: 0.1, Tools: []string{"立铣刀D10"}},
		{Key: "01", TemplateID: "P001", FeatureID: "F001", FeatureName: "圆柱通孔", SurfaceType: "平面", Stage: "粗加工", ProcessType: "底壁铣", Allowance: 0.5},
		{Key: "03", TemplateID: "P003", FeatureID: "F002", FeatureName: "矩形凹槽", SurfaceType: "曲面", Stage: "粗加工", ProcessType: "平面轮廓铣", SidewallFeature: true},
	}
}

func TestBuilderBuild(t *testing.T) {
	t.Run("embeds every unit", func(t *testing.T) {
		builder, err := NewBuilder(&fakeSource{rows: knowledgeFixture()}, mock.NewMockEmbedder(), WithPoolSize(1))
		require.NoError(t, err)
		defer builder.Release()

		ix, err := builder.Build(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, ix.Len())
		assert.Equal(t, 3, ix.EmbeddedCount())
	})

	t.Run("units come out in key order regardless of row order", func(t *testing.T) {
		builder, err := NewBuilder(&fakeSource{rows: knowledgeFixture()}, nil)
		require.NoError(t, err)
		defer builder.Release()

		ix, err := builder.Build(context.Background())
		require.NoError(t, err)
		units := ix.Units()
		require.Len(t, units, 3)
		assert.Equal(t, "01", units[0].Key)
		assert.Equal(t, "P001", units[0].TemplateID)
		assert.Equal(t, "03", units[2].Key)
	})

	t.Run("nil embedder builds a lexical-only index", func(t *testing.T) {
		builder, err := NewBuilder(&fakeSource{rows: knowledgeFixture()}, nil)
		require.NoError(t, err)
		defer builder.Release()

		ix, err := builder.Build(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, ix.Len())
		assert.Equal(t, 0, ix.EmbeddedCount())

		results := ix.Search(Query{Terms: Tokenize("凹槽")}, 5)
		require.Len(t, results, 1)
		assert.Equal(t, "P003", results[0].Unit.TemplateID)
	})

	t.Run("failed embeddings degrade their unit only", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextFunc = func(_ context.Context, text string) ([]float32, error) {
			if text == UnitFromKnowledge(knowledgeFixture()[2]).Text {
				return nil, errors.New("503 service unavailable")
			}
			return []float32{1, 0}, nil
		}
		builder, err := NewBuilder(&fakeSource{rows: knowledgeFixture()}, embedder,
			WithPoolSize(1), WithRetry(2, time.Millisecond))
		require.NoError(t, err)
		defer builder.Release()

		ix, err := builder.Build(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, ix.Len())
		assert.Equal(t, 2, ix.EmbeddedCount())

		// The degraded unit is still found lexically.
		results := ix.Search(Query{Terms: Tokenize("矩形凹槽")}, 5)
		require.NotEmpty(t, results)
		assert.Equal(t, "P003", results[0].Unit.TemplateID)
	})

	t.Run("empty graph fails the build", func(t *testing.T) {
		builder, err := NewBuilder(&fakeSource{}, mock.NewMockEmbedder())
		require.NoError(t, err)
		defer builder.Release()

		_, err = builder.Build(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrIndexBuildFailure)
	})

	t.Run("source errors surface", func(t *testing.T) {
		builder, err := NewBuilder(&fakeSource{err: core.ErrStoreUnavailable}, nil)
		require.NoError(t, err)
		defer builder.Release()

		_, err = builder.Build(context.Background())
		assert.ErrorIs(t, err, core.ErrStoreUnavailable)
	})

	t.Run("nil source is rejected", func(t *testing.T) {
		_, err := NewBuilder(nil, nil)
		assert.ErrorIs(t, err, ErrStoreRequired)
	})
}

func TestBuilderEmbedQuery(t *testing.T) {
	t.Run("normalizes the query vector", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
			return []float32{3, 4}, nil
		}
		builder, err := NewBuilder(&fakeSource{rows: knowledgeFixture()}, embedder)
		require.NoError(t, err)
		defer builder.Release()

		v := builder.EmbedQuery(context.Background(), "孔的精加工")
		require.Len(t, v, 2)
		assert.InDelta(t, 0.6, v[0], 1e-6)
		assert.InDelta(t, 0.8, v[1], 1e-6)
	})

	t.Run("embedding outage returns empty", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
			return nil, errors.New("connection refused")
		}
		builder, err := NewBuilder(&fakeSource{rows: knowledgeFixture()}, embedder)
		require.NoError(t, err)
		defer builder.Release()

		assert.Empty(t, builder.EmbedQuery(context.Background(), "孔的精加工"))
	})
}
