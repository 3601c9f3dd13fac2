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
	"regexp"
	"strconv"
	"strings"

	"github.com/zhangxiaofan-star/AICam/graph"
)

// mentions holds the graph entities recognized inside one question.
// Recognition is substring containment against the entity catalog, which
// is what works for Chinese questions without word segmentation.
type mentions struct {
	Features []string
	Tools    []string
	Stages   []string
	Types    []string
	// WantsFeatureList is set for catalog questions like 特征类型都有哪些.
	WantsFeatureList bool
	// Dimensions carries numeric constraints parsed from the question.
	Dimensions *dimensionQuery
}

// dimensionQuery is a parsed tool-dimension constraint.
type dimensionQuery struct {
	// Diameter is an exact diameter ask (直径10mm的刀具).
	Diameter float64
	// MaxDiameter and MinStickout come from pocket dimensions
	// (长50宽30深20的槽): the tool must fit the narrow side and clear
	// the depth.
	MaxDiameter float64
	MinStickout float64
}

func (m *mentions) any() bool {
	return len(m.Features) > 0 || len(m.Tools) > 0 || len(m.Stages) > 0 ||
		len(m.Types) > 0 || m.WantsFeatureList || m.Dimensions != nil
}

var (
	diameterPattern = regexp.MustCompile(`直径\s*(?:为|是)?\s*(\d+(?:\.\d+)?)\s*(?:mm|毫米)?`)
	lengthPattern   = regexp.MustCompile(`长\s*(?:度)?\s*(?:为|是)?\s*(\d+(?:\.\d+)?)`)
	widthPattern    = regexp.MustCompile(`宽\s*(?:度)?\s*(?:为|是)?\s*(\d+(?:\.\d+)?)`)
	depthPattern    = regexp.MustCompile(`[深高]\s*(?:度)?\s*(?:为|是)?\s*(\d+(?:\.\d+)?)`)
)

// recognize matches a question against the entity catalog.
func recognize(question string, catalog *graph.Catalog) *mentions {
	m := &mentions{}
	if catalog != nil {
		m.Features = containedNames(question, catalog.FeatureNames)
		m.Tools = containedNames(question, catalog.ToolNames)
		m.Stages = containedNames(question, catalog.StageNames)
		m.Types = containedNames(question, catalog.TypeNames)
	}

	if strings.Contains(question, "哪些") || strings.Contains(question, "什么") {
		if strings.Contains(question, "特征") || strings.Contains(strings.ToLower(question), "feature") {
			m.WantsFeatureList = true
		}
	}

	m.Dimensions = parseDimensions(question)
	return m
}

func containedNames(question string, names []string) []string {
	var found []string
	for _, name := range names {
		if name != "" && strings.Contains(question, name) {
			found = append(found, name)
		}
	}
	return found
}

// parseDimensions extracts numeric tool constraints. A bare diameter is an
// exact lookup; pocket length/width/depth become the fit rule (diameter
// bounded by the narrow side, stickout above the depth).
func parseDimensions(question string) *dimensionQuery {
	d := &dimensionQuery{}
	matched := false

	if m := diameterPattern.FindStringSubmatch(question); m != nil {
		d.Diameter, _ = strconv.ParseFloat(m[1], 64)
		matched = true
	}

	length := matchNumber(lengthPattern, question)
	width := matchNumber(widthPattern, question)
	depth := matchNumber(depthPattern, question)
	if length > 0 || width > 0 {
		d.MaxDiameter = length
		if width > 0 && (length == 0 || width < length) {
			d.MaxDiameter = width
		}
		matched = true
	}
	if depth > 0 {
		d.MinStickout = depth
		matched = true
	}

	if !matched {
		return nil
	}
	return d
}

func matchNumber(pattern *regexp.Regexp, question string) float64 {
	m := pattern.FindStringSubmatch(question)
	if m == nil {
		return 0
	}
	value, _ := strconv.ParseFloat(m[1], 64)
	return value
}
