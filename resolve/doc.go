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


// Package resolve answers natural-language machining questions.
//
// Each question runs through a small state machine: received, mode
// selected, context assembled, then answered, degraded, or failed. Context
// comes from the retrieval index (four modes: naive, local, global,
// hybrid) plus direct graph traversal facts for questions that mention a
// known entity by name.
//
// Answering is an ordered list of tiers, each tried only when the one
// above it cannot run:
//
//  1. retrieval in the requested mode + generation
//  2. lexical-only retrieval + generation (embedding service down)
//  3. templated answer from direct graph traversal (generation down)
//  4. static apology (graph store down too)
//
// Every descent is logged with its reason. The resolver never returns an
// empty answer: it terminates answered or degraded, and fails only on a
// wiring defect or caller cancellation.
package resolve
