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

import "strings"

// Mode selects how retrieval context is gathered for a question.
type Mode string

const (
	// ModeNaive is lexical-only top-k over the index.
	ModeNaive Mode = "naive"

	// ModeLocal is embedding similarity restricted to units linked to
	// entities mentioned in the question.
	ModeLocal Mode = "local"

	// ModeGlobal is embedding similarity over the whole index.
	ModeGlobal Mode = "global"

	// ModeHybrid blends embedding similarity and lexical overlap,
	// deduplicated and re-ranked by combined score. The default.
	ModeHybrid Mode = "hybrid"
)

// ParseMode parses a mode string. Empty selects the hybrid default.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return ModeHybrid, nil
	case ModeNaive:
		return ModeNaive, nil
	case ModeLocal:
		return ModeLocal, nil
	case ModeGlobal:
		return ModeGlobal, nil
	case ModeHybrid:
		return ModeHybrid, nil
	default:
		return "", ErrUnknownMode
	}
}

// needsEmbedding reports whether the mode requires a query vector.
func (m Mode) needsEmbedding() bool {
	return m != ModeNaive
}

// State is a query's position in its lifecycle.
type State string

const (
	StateReceived         State = "RECEIVED"
	StateModeSelected     State = "MODE_SELECTED"
	StateContextAssembled State = "CONTEXT_ASSEMBLED"
	StateAnswered         State = "ANSWERED"
	StateDegraded         State = "DEGRADED"
	StateFailed           State = "FAILED"
)

// Tier names which fallback tier produced an answer.
type Tier string

const (
	// TierGeneration is requested-mode retrieval plus generation.
	TierGeneration Tier = "generation"

	// TierNaive is lexical-only retrieval plus generation.
	TierNaive Tier = "naive-generation"

	// TierGraph is a templated answer from direct graph traversal.
	TierGraph Tier = "graph-template"

	// TierStatic is the static apology message.
	TierStatic Tier = "static"
)

// Citation names one retrieval unit that backed an answer.
type Citation struct {
	UnitKey    string
	TemplateID string
	Score      float32
}

// Result is the outcome of one resolved question.
type Result struct {
	Answer    string
	Mode      Mode
	Tier      Tier
	State     State
	Citations []Citation
}
