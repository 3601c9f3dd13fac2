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


// Package index builds and searches the retrieval index over the graph's
// knowledge rows.
//
// One retrieval Unit is composed per process row: a Chinese text rendering
// of the row, its lexical terms, and (when the embedding service is up) a
// unit-length vector. Units whose embedding calls fail degrade to
// lexical-only instead of failing the build, so an index always comes out
// as long as at least one unit exists.
//
// The Index scores candidates with a weighted blend of cosine similarity
// and lexical term overlap. Identical scores order by ascending unit key,
// making result order deterministic run to run.
//
// Built units persist in a Badger store so the resolver can start without
// re-embedding.
package index
