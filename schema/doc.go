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


// Package schema maps source table rows onto the typed property-graph
// model.
//
// The mapper is pure: given a raw row and its table origin it either
// returns the nodes and relationship endpoints the row implies, or a
// *core.SchemaViolation naming the offending column. It performs no I/O
// and holds no state, so the loader can apply it row by row and tests can
// exercise every malformed shape without a store.
//
// # Source tables
//
// processes.csv columns (in order):
//
//	模板编号, 特征ID, 特征名称, 组成面, 特征面, 面类型, 侧壁特征, 余量, 工序阶段, 工艺类型
//
// tools.csv columns (in order):
//
//	刀具id, 刀具名称, 直径, R角, 刃数, 伸出长 [, 适用模板]
//
// The trailing 适用模板 column is optional and lists template ids
// (semicolon-separated) the tool is recommended for.
//
// Node identity is a deterministic BLAKE2b key over the identifying
// columns (see core.KeyFromParts), which is what makes graph loading an
// idempotent upsert rather than an insert.
package schema
