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


package index

import (
	"fmt"
	"strings"

	"github.com/zhangxiaofan-star/AICam/graph"
)

// Unit is one retrievable piece of process knowledge. Key is the process
// node key, so a rebuilt index addresses the same units.
type Unit struct {
	Key         string
	TemplateID  string
	FeatureName string
	Stage       string
	ProcessType string
	Tools       []string
	// Text is the Chinese rendering embedded and returned as context.
	Text string
	// Terms are the lexical tokens of Text.
	Terms []string
	// Vector is the unit-length embedding of Text. Empty when the
	// embedding call failed and the unit degraded to lexical-only.
	Vector []float32
}

// UnitFromKnowledge composes the retrieval unit for one knowledge row.
// The rendering is deterministic: same row, same text, same key.
func UnitFromKnowledge(row graph.KnowledgeRow) Unit {
	var b strings.Builder
	fmt.Fprintf(&b, "工艺模板%s：特征%s（%s）", row.TemplateID, row.FeatureName, row.FeatureID)
	if row.SurfaceType != "" {
		fmt.Fprintf(&b, "，面类型%s", row.SurfaceType)
	}
	if row.ComponentSurface != "" {
		fmt.Fprintf(&b, "，组成面%s", row.ComponentSurface)
	}
	if row.FeatureSurface != "" {
		fmt.Fprintf(&b, "，特征面%s", row.FeatureSurface)
	}
	if row.SidewallFeature {
		b.WriteString("，含侧壁特征")
	}
	fmt.Fprintf(&b, "，工序阶段%s，工艺类型%s", row.Stage, row.ProcessType)
	if row.Allowance > 0 {
		fmt.Fprintf(&b, "，余量%gmm", row.Allowance)
	}
	if len(row.Tools) > 0 {
		fmt.Fprintf(&b, "，推荐刀具：%s", strings.Join(row.Tools, "、"))
	}
	b.WriteString("。")

	text := b.String()
	return Unit{
		Key:         row.Key,
		TemplateID:  row.TemplateID,
		FeatureName: row.FeatureName,
		Stage:       row.Stage,
		ProcessType: row.ProcessType,
		Tools:       append([]string(nil), row.Tools...),
		Text:        text,
		Terms:       Tokenize(text),
	}
}
