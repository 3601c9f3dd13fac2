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

import (
	"fmt"
	"strings"

	"github.com/zhangxiaofan-star/AICam/graph"
)

// User-visible fallback messages.
const (
	// staticApology is the tier-4 answer when the graph store is
	// unreachable too.
	staticApology = "抱歉，工艺知识库暂时不可用，无法回答您的问题，请稍后重试。"

	// noKnowledgeAnswer is the explicit response when nothing in the
	// knowledge base relates to the question.
	noKnowledgeAnswer = "未在工艺知识库中找到与该问题相关的内容。"
)

func renderFeatureList(names []string) string {
	if len(names) == 0 {
		return noKnowledgeAnswer
	}
	return fmt.Sprintf("知识库中共有%d种加工特征：%s。", len(names), strings.Join(names, "、"))
}

func renderTools(heading string, tools []graph.ToolInfo) string {
	if len(tools) == 0 {
		return ""
	}
	lines := make([]string, 0, len(tools)+1)
	lines = append(lines, heading)
	for _, tool := range tools {
		line := fmt.Sprintf("- %s（%s）：直径%gmm，刃数%d，伸出长%gmm",
			tool.Name, tool.ID, tool.DiameterMM, tool.FluteCount, tool.StickoutMM)
		if tool.CornerRadiusMM > 0 {
			line += fmt.Sprintf("，R角%gmm", tool.CornerRadiusMM)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func renderProcessRoute(feature string, rows []graph.KnowledgeRow) string {
	if len(rows) == 0 {
		return ""
	}
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, fmt.Sprintf("特征%s的工艺路线：", feature))
	for _, row := range rows {
		line := fmt.Sprintf("- 模板%s：%s，%s", row.TemplateID, row.Stage, row.ProcessType)
		if row.Allowance > 0 {
			line += fmt.Sprintf("，余量%gmm", row.Allowance)
		}
		if len(row.Tools) > 0 {
			line += fmt.Sprintf("，推荐刀具：%s", strings.Join(row.Tools, "、"))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
