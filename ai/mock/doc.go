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


// Package mock provides deterministic test doubles for the ai package.
//
// The mock embedder produces stable FNV-seeded vectors so similarity
// ordering is reproducible across runs; the mock generator echoes its
// context by default. Both allow behavior injection via function fields
// for simulating service outages.
package mock
