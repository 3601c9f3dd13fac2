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


// Package ai defines the embedding and generation service abstractions.
//
// Both services are OpenAI-compatible HTTP APIs identified by a base URL,
// API key, and model name. They are opaque collaborators: this package
// specifies the request/response contract and treats every call as
// fallible with a bounded timeout, so callers can map failures onto the
// resolver's fallback chain.
//
// Concrete implementations live in subpackages:
//
//   - ai/openai: production client via langchaingo
//   - ai/mock: deterministic test doubles
//
// Constructors return interfaces, not concrete types, so consumers never
// couple to a particular provider.
package ai
