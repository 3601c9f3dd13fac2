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


package graph

import (
	"context"
	"sort"
)

// Store reads the loaded graph. It serves both the index builder (one
// retrieval unit per KnowledgeRow) and the resolver's structured answers.
type Store struct {
	runner Runner
}

// NewStore creates a Store reading through runner.
func NewStore(runner Runner) *Store {
	return &Store{runner: runner}
}

// KnowledgeRow is one process joined with its feature and recommended
// tools, the unit of retrievable knowledge.
type KnowledgeRow struct {
	Key              string
	TemplateID       string
	FeatureID        string
	FeatureName      string
	FeatureCategory  string
	ComponentSurface string
	FeatureSurface   string
	SurfaceType      string
	SidewallFeature  bool
	Allowance        float64
	Stage            string
	ProcessType      string
	Tools            []string
}

// ToolInfo is a tool row as read back from the graph.
type ToolInfo struct {
	ID             string
	Name           string
	DiameterMM     float64
	CornerRadiusMM float64
	FluteCount     int
	StickoutMM     float64
}

// Statistics counts the managed schema.
type Statistics struct {
	Features      int
	Processes     int
	ProcessTypes  int
	ProcessStages int
	Tools         int
	Relationships int
}

// Catalog lists the entity names the resolver matches questions against.
type Catalog struct {
	FeatureNames []string
	ToolNames    []string
	StageNames   []string
	TypeNames    []string
}

const featureNamesQuery = `
MATCH (f:Feature)
RETURN f.name AS name
ORDER BY name`

// FeatureNames returns every distinct feature name, sorted.
func (s *Store) FeatureNames(ctx context.Context) ([]string, error) {
	rows, err := s.runner.ReadQuery(ctx, featureNamesQuery, nil)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if name := asString(row["name"]); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

const knowledgeQuery = `
MATCH (p:Process)-[:PROCESSES]->(f:Feature)
OPTIONAL MATCH (t:Tool)-[:RECOMMENDED_FOR]->(p)
RETURN p.key AS key,
       p.template_id AS template_id,
       f.feature_id AS feature_id,
       f.name AS feature_name,
       f.category AS feature_category,
       p.component_surface AS component_surface,
       p.feature_surface AS feature_surface,
       p.surface_type AS surface_type,
       p.sidewall_feature AS sidewall_feature,
       p.allowance AS allowance,
       p.stage AS stage,
       p.process_type AS process_type,
       collect(DISTINCT t.name) AS tools
ORDER BY key`

// KnowledgeRows joins every process with its feature and recommended
// tools, in deterministic key order.
func (s *Store) KnowledgeRows(ctx context.Context) ([]KnowledgeRow, error) {
	rows, err := s.runner.ReadQuery(ctx, knowledgeQuery, nil)
	if err != nil {
		return nil, err
	}
	out := make([]KnowledgeRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, KnowledgeRow{
			Key:              asString(row["key"]),
			TemplateID:       asString(row["template_id"]),
			FeatureID:        asString(row["feature_id"]),
			FeatureName:      asString(row["feature_name"]),
			FeatureCategory:  asString(row["feature_category"]),
			ComponentSurface: asString(row["component_surface"]),
			FeatureSurface:   asString(row["feature_surface"]),
			SurfaceType:      asString(row["surface_type"]),
			SidewallFeature:  asBool(row["sidewall_feature"]),
			Allowance:        asFloat(row["allowance"]),
			Stage:            asString(row["stage"]),
			ProcessType:      asString(row["process_type"]),
			Tools:            asStrings(row["tools"]),
		})
	}
	return out, nil
}

const templatesForFeatureQuery = `
MATCH (p:Process)-[:PROCESSES]->(f:Feature)
WHERE f.name = $name OR f.feature_id = $name
OPTIONAL MATCH (t:Tool)-[:RECOMMENDED_FOR]->(p)
RETURN p.key AS key,
       p.template_id AS template_id,
       f.feature_id AS feature_id,
       f.name AS feature_name,
       f.category AS feature_category,
       p.component_surface AS component_surface,
       p.feature_surface AS feature_surface,
       p.surface_type AS surface_type,
       p.sidewall_feature AS sidewall_feature,
       p.allowance AS allowance,
       p.stage AS stage,
       p.process_type AS process_type,
       collect(DISTINCT t.name) AS tools
ORDER BY key`

// ProcessTemplates returns the process rows for one feature, addressed by
// name or source feature id.
func (s *Store) ProcessTemplates(ctx context.Context, feature string) ([]KnowledgeRow, error) {
	rows, err := s.runner.ReadQuery(ctx, templatesForFeatureQuery, map[string]any{"name": feature})
	if err != nil {
		return nil, err
	}
	out := make([]KnowledgeRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, KnowledgeRow{
			Key:              asString(row["key"]),
			TemplateID:       asString(row["template_id"]),
			FeatureID:        asString(row["feature_id"]),
			FeatureName:      asString(row["feature_name"]),
			FeatureCategory:  asString(row["feature_category"]),
			ComponentSurface: asString(row["component_surface"]),
			FeatureSurface:   asString(row["feature_surface"]),
			SurfaceType:      asString(row["surface_type"]),
			SidewallFeature:  asBool(row["sidewall_feature"]),
			Allowance:        asFloat(row["allowance"]),
			Stage:            asString(row["stage"]),
			ProcessType:      asString(row["process_type"]),
			Tools:            asStrings(row["tools"]),
		})
	}
	return out, nil
}

const toolsForFeatureQuery = `
MATCH (t:Tool)-[:RECOMMENDED_FOR]->(p:Process)-[:PROCESSES]->(f:Feature)
WHERE f.name = $name OR f.feature_id = $name
RETURN DISTINCT t.tool_id AS tool_id,
       t.name AS name,
       t.diameter_mm AS diameter_mm,
       t.corner_radius_mm AS corner_radius_mm,
       t.flute_count AS flute_count,
       t.stickout_mm AS stickout_mm
ORDER BY tool_id`

// ToolsForFeature returns the tools recommended for any process of the
// named feature.
func (s *Store) ToolsForFeature(ctx context.Context, feature string) ([]ToolInfo, error) {
	rows, err := s.runner.ReadQuery(ctx, toolsForFeatureQuery, map[string]any{"name": feature})
	if err != nil {
		return nil, err
	}
	return toolInfos(rows), nil
}

const toolsWithDiameterQuery = `
MATCH (t:Tool)
WHERE t.diameter_mm = $diameter
RETURN t.tool_id AS tool_id,
       t.name AS name,
       t.diameter_mm AS diameter_mm,
       t.corner_radius_mm AS corner_radius_mm,
       t.flute_count AS flute_count,
       t.stickout_mm AS stickout_mm
ORDER BY tool_id`

// ToolsWithDiameter returns the tools with exactly the given diameter.
func (s *Store) ToolsWithDiameter(ctx context.Context, diameterMM float64) ([]ToolInfo, error) {
	rows, err := s.runner.ReadQuery(ctx, toolsWithDiameterQuery, map[string]any{"diameter": diameterMM})
	if err != nil {
		return nil, err
	}
	return toolInfos(rows), nil
}

const suitableToolsQuery = `
MATCH (t:Tool)
WHERE t.diameter_mm <= $max_diameter
  AND ($min_stickout <= 0 OR t.stickout_mm > $min_stickout)
RETURN t.tool_id AS tool_id,
       t.name AS name,
       t.diameter_mm AS diameter_mm,
       t.corner_radius_mm AS corner_radius_mm,
       t.flute_count AS flute_count,
       t.stickout_mm AS stickout_mm
ORDER BY diameter_mm DESC, tool_id`

// SuitableTools applies the pocket fit rule: diameter must not exceed the
// narrowest pocket dimension and stickout must clear the pocket depth.
// Pass minStickoutMM <= 0 to skip the depth check. The largest fitting
// diameter sorts first.
func (s *Store) SuitableTools(ctx context.Context, maxDiameterMM, minStickoutMM float64) ([]ToolInfo, error) {
	rows, err := s.runner.ReadQuery(ctx, suitableToolsQuery, map[string]any{
		"max_diameter": maxDiameterMM,
		"min_stickout": minStickoutMM,
	})
	if err != nil {
		return nil, err
	}
	return toolInfos(rows), nil
}

// Catalog gathers the entity vocabulary in one pass.
func (s *Store) Catalog(ctx context.Context) (*Catalog, error) {
	queries := []struct {
		cypher string
		dest   *[]string
	}{
		{featureNamesQuery, nil},
		{`MATCH (t:Tool) RETURN t.name AS name ORDER BY name`, nil},
		{`MATCH (s:ProcessStage) RETURN s.name AS name ORDER BY name`, nil},
		{`MATCH (pt:ProcessType) RETURN pt.name AS name ORDER BY name`, nil},
	}
	catalog := &Catalog{}
	queries[0].dest = &catalog.FeatureNames
	queries[1].dest = &catalog.ToolNames
	queries[2].dest = &catalog.StageNames
	queries[3].dest = &catalog.TypeNames

	for _, q := range queries {
		rows, err := s.runner.ReadQuery(ctx, q.cypher, nil)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			if name := asString(row["name"]); name != "" {
				*q.dest = append(*q.dest, name)
			}
		}
	}
	return catalog, nil
}

// Statistics counts the managed nodes and relationships.
func (s *Store) Statistics(ctx context.Context) (*Statistics, error) {
	stats := &Statistics{}
	nodeCounts := []struct {
		cypher string
		dest   *int
	}{
		{`MATCH (n:Feature) RETURN count(n) AS count`, &stats.Features},
		{`MATCH (n:Process) RETURN count(n) AS count`, &stats.Processes},
		{`MATCH (n:ProcessType) RETURN count(n) AS count`, &stats.ProcessTypes},
		{`MATCH (n:ProcessStage) RETURN count(n) AS count`, &stats.ProcessStages},
		{`MATCH (n:Tool) RETURN count(n) AS count`, &stats.Tools},
		{`MATCH (n)-[r]->() WHERE n:Feature OR n:Process OR n:ProcessType OR n:ProcessStage OR n:Tool RETURN count(r) AS count`, &stats.Relationships},
	}
	for _, q := range nodeCounts {
		rows, err := s.runner.ReadQuery(ctx, q.cypher, nil)
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			*q.dest = asInt(rows[0]["count"])
		}
	}
	return stats, nil
}

func toolInfos(rows []map[string]any) []ToolInfo {
	out := make([]ToolInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToolInfo{
			ID:             asString(row["tool_id"]),
			Name:           asString(row["name"]),
			DiameterMM:     asFloat(row["diameter_mm"]),
			CornerRadiusMM: asFloat(row["corner_radius_mm"]),
			FluteCount:     asInt(row["flute_count"]),
			StickoutMM:     asFloat(row["stickout_mm"]),
		})
	}
	return out
}

// The driver returns int64 for Neo4j integers and []any for lists; fake
// runners in tests return native Go values. These coercions accept both.

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}

func asInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

func asStrings(v any) []string {
	var out []string
	switch list := v.(type) {
	case []string:
		out = append(out, list...)
	case []any:
		for _, item := range list {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
	}
	sort.Strings(out)
	return out
}
