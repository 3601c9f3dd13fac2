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


package core

import (
	"errors"
	"fmt"
)

// Pipeline error taxonomy. Row- and unit-level failures are absorbed and
// counted by their component; connection- and service-level failures
// propagate so the caller can abort a batch or descend the fallback chain.
var (
	// ErrSchemaViolation marks a source row that fails schema mapping.
	// Matched via errors.Is against *SchemaViolation values.
	ErrSchemaViolation = errors.New("schema violation")

	// ErrStoreUnavailable indicates the property graph store is unreachable.
	ErrStoreUnavailable = errors.New("graph store unavailable")

	// ErrIndexBuildFailure indicates the retrieval index could not be built at all.
	ErrIndexBuildFailure = errors.New("index build failure")

	// ErrRetrievalServiceUnavailable indicates the embedding or generation
	// service is down or timed out.
	ErrRetrievalServiceUnavailable = errors.New("retrieval service unavailable")

	// ErrResolutionFailure indicates a question could not be mapped to any
	// context at all.
	ErrResolutionFailure = errors.New("question resolution failed")

	// ErrEmptyQuestion indicates a blank question was submitted.
	ErrEmptyQuestion = errors.New("question cannot be empty")
)

// SchemaViolation describes a source row that cannot be mapped to the
// graph schema. It names the offending table, line, and column so a bad
// row can be fixed rather than hunted.
type SchemaViolation struct {
	Table  string // source table name, e.g. "processes"
	Line   int    // 1-based line number in the source file
	Column string // offending column header
	Reason string
}

func (v *SchemaViolation) Error() string {
	return fmt.Sprintf("schema violation: %s line %d, column %q: %s", v.Table, v.Line, v.Column, v.Reason)
}

// Is makes errors.Is(err, ErrSchemaViolation) match any SchemaViolation.
func (v *SchemaViolation) Is(target error) bool {
	return target == ErrSchemaViolation
}

// Violation constructs a SchemaViolation for the given location.
func Violation(table string, line int, column, reason string) *SchemaViolation {
	return &SchemaViolation{Table: table, Line: line, Column: column, Reason: reason}
}
