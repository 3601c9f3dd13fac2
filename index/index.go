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
	"sort"
)

// Score weights for the hybrid blend.
const (
	CosineWeight  = 0.6
	LexicalWeight = 0.4
)

// Query carries the two representations of a question. Vector may be
// empty when the embedding service is down; search then scores lexically.
type Query struct {
	Terms  []string
	Vector []float32
}

// Result is one scored unit.
type Result struct {
	Unit    Unit
	Score   float32
	Cosine  float32
	Lexical float32
}

// Index is the in-memory searchable form of the built units.
type Index struct {
	units []Unit
}

// New creates an Index over units. Units are copied and kept in ascending
// key order regardless of input order.
func New(units []Unit) *Index {
	sorted := append([]Unit(nil), units...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })
	return &Index{units: sorted}
}

// Len returns the number of units.
func (ix *Index) Len() int {
	return len(ix.units)
}

// EmbeddedCount returns how many units carry a vector.
func (ix *Index) EmbeddedCount() int {
	n := 0
	for i := range ix.units {
		if len(ix.units[i].Vector) > 0 {
			n++
		}
	}
	return n
}

// Units returns the units in key order. The slice is shared; callers must
// not mutate it.
func (ix *Index) Units() []Unit {
	return ix.units
}

// Search scores every unit against the query and returns the top limit
// results, highest score first.
//
// With a query vector, a unit scores CosineWeight*cosine +
// LexicalWeight*overlap; units that degraded to lexical-only compete on
// the lexical component alone. Without a query vector the overlap is the
// whole score. Zero-score units are dropped, and equal scores order by
// ascending unit key.
func (ix *Index) Search(q Query, limit int) []Result {
	if limit <= 0 {
		return nil
	}

	results := make([]Result, 0, len(ix.units))
	for i := range ix.units {
		unit := &ix.units[i]
		r := Result{Unit: *unit, Lexical: Overlap(q.Terms, unit.Terms)}
		if len(q.Vector) > 0 && len(unit.Vector) > 0 {
			r.Cosine = dotProduct(q.Vector, unit.Vector)
			if r.Cosine < 0 {
				r.Cosine = 0
			}
			r.Score = CosineWeight*r.Cosine + LexicalWeight*r.Lexical
		} else if len(q.Vector) > 0 {
			r.Score = LexicalWeight * r.Lexical
		} else {
			r.Score = r.Lexical
		}
		if r.Score > 0 {
			results = append(results, r)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Unit.Key < results[j].Unit.Key
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}
