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


package graph

import "context"

// Counters reports what a write query changed in the store.
type Counters struct {
	NodesCreated         int
	NodesDeleted         int
	RelationshipsCreated int
	RelationshipsDeleted int
}

// Add accumulates another query's counters into c.
func (c *Counters) Add(other Counters) {
	c.NodesCreated += other.NodesCreated
	c.NodesDeleted += other.NodesDeleted
	c.RelationshipsCreated += other.RelationshipsCreated
	c.RelationshipsDeleted += other.RelationshipsDeleted
}

// Runner executes Cypher against a graph store. Client implements it over
// neo4j-go-driver sessions; tests implement it with an in-memory fake.
type Runner interface {
	// WriteQuery runs cypher in a write transaction and returns the
	// summary counters.
	WriteQuery(ctx context.Context, cypher string, params map[string]any) (Counters, error)

	// ReadQuery runs cypher in a read transaction and returns one map per
	// result record, keyed by the query's return aliases.
	ReadQuery(ctx context.Context, cypher string, params map[string]any) ([]map[string]any, error)
}
