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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitWithText(key, text string, vector []float32) Unit {
	return Unit{
		Key:    key,
		Text:   text,
		Terms:  Tokenize(text),
		Vector: NormalizeVector(vector),
	}
}

func TestIndexSearch(t *testing.T) {
	units := []Unit{
		unitWithText("c", "矩形凹槽粗加工", []float32{0, 1, 0}),
		unitWithText("a", "圆柱通孔精加工", []float32{1, 0, 0}),
		unitWithText("b", "圆柱沉头孔精加工", []float32{0.9, 0.1, 0}),
	}
	ix := New(units)

	t.Run("units are held in key order", func(t *testing.T) {
		keys := make([]string, 0, ix.Len())
		for _, u := range ix.Units() {
			keys = append(keys, u.Key)
		}
		assert.Equal(t, []string{"a", "b", "c"}, keys)
	})

	t.Run("hybrid blends cosine and overlap", func(t *testing.T) {
		results := ix.Search(Query{
			Terms:  Tokenize("圆柱通孔"),
			Vector: NormalizeVector([]float32{1, 0, 0}),
		}, 10)
		require.NotEmpty(t, results)
		assert.Equal(t, "a", results[0].Unit.Key)
		assert.InDelta(t, 1.0, results[0].Cosine, 1e-6)
		assert.InDelta(t, 1.0, results[0].Lexical, 1e-6)
		assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	})

	t.Run("lexical-only query still ranks", func(t *testing.T) {
		results := ix.Search(Query{Terms: Tokenize("凹槽")}, 10)
		require.Len(t, results, 1)
		assert.Equal(t, "c", results[0].Unit.Key)
		assert.Equal(t, results[0].Lexical, results[0].Score)
	})

	t.Run("equal scores break by ascending key", func(t *testing.T) {
		tied := New([]Unit{
			unitWithText("z", "底壁铣", nil),
			unitWithText("m", "底壁铣", nil),
		})
		results := tied.Search(Query{Terms: Tokenize("底壁铣")}, 10)
		require.Len(t, results, 2)
		assert.Equal(t, "m", results[0].Unit.Key)
		assert.Equal(t, "z", results[1].Unit.Key)
		assert.Equal(t, results[0].Score, results[1].Score)
	})

	t.Run("zero scores are dropped", func(t *testing.T) {
		results := ix.Search(Query{Terms: Tokenize("车削")}, 10)
		assert.Empty(t, results)
	})

	t.Run("limit truncates", func(t *testing.T) {
		results := ix.Search(Query{Terms: Tokenize("加工")}, 1)
		assert.Len(t, results, 1)
	})

	t.Run("degraded unit competes lexically under a vector query", func(t *testing.T) {
		mixed := New([]Unit{
			unitWithText("v", "圆柱通孔精加工", []float32{1, 0, 0}),
			unitWithText("l", "圆柱通孔精加工", nil),
		})
		results := mixed.Search(Query{
			Terms:  Tokenize("圆柱通孔"),
			Vector: NormalizeVector([]float32{1, 0, 0}),
		}, 10)
		require.Len(t, results, 2)
		assert.Equal(t, "v", results[0].Unit.Key)
		assert.Equal(t, "l", results[1].Unit.Key)
		assert.InDelta(t, LexicalWeight, results[1].Score, 1e-6)
	})
}
