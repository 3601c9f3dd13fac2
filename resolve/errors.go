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

import "errors"

var (
	// ErrUnknownMode is returned when a mode string is not one of
	// naive, local, global, hybrid.
	ErrUnknownMode = errors.New("unknown retrieval mode")

	// ErrNoTierProduced is returned when every tier, including the static
	// one, was unable to run. This indicates a wiring defect, not a
	// runtime condition.
	ErrNoTierProduced = errors.New("no fallback tier produced an answer")
)
