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


// Package graph owns the Neo4j property graph: batched idempotent loading
// of the machining schema and the traversal queries the indexer and
// resolver read it with.
//
// # Managed schema
//
// Labels: Feature, Process, ProcessType, ProcessStage, Tool.
// Relationships: (Process)-[:PROCESSES]->(Feature),
// (Process)-[:HAS_TYPE]->(ProcessType), (Process)-[:IN_STAGE]->(ProcessStage),
// (Tool)-[:RECOMMENDED_FOR]->(Process).
//
// Every node carries a deterministic `key` property (core.NodeKey hex);
// MERGE always matches on `key` alone, which is what makes reloading the
// same tables an upsert rather than an insert. A full rebuild deletes the
// managed labels only and never touches data outside the declared schema.
//
// # Runner abstraction
//
// Loader and Store issue Cypher through the narrow Runner interface;
// Client implements it over neo4j-go-driver sessions, and tests implement
// it with an in-memory fake. Driver-level failures are surfaced as
// core.ErrStoreUnavailable so callers can abort a batch or descend the
// resolver's fallback chain.
package graph
