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
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/zhangxiaofan-star/AICam/core"
	"github.com/zhangxiaofan-star/AICam/schema"
)

// LoadMode selects how a load run treats existing graph data.
type LoadMode string

const (
	// FullRebuild deletes every managed node first, then loads. Nodes
	// outside the managed labels are never touched.
	FullRebuild LoadMode = "full-rebuild"

	// Incremental upserts into the existing graph. Because every MERGE
	// matches on the deterministic key, reloading the same tables is a
	// no-op and changed rows update in place.
	Incremental LoadMode = "incremental"
)

// clearQuery removes the managed schema before a full rebuild.
const clearQuery = `
MATCH (n)
WHERE n:Feature OR n:Process OR n:ProcessType OR n:ProcessStage OR n:Tool
DETACH DELETE n`

// Loader turns validated table rows into the property graph.
type Loader struct {
	runner    Runner
	batchSize int
	logger    *slog.Logger
}

// NewLoader creates a Loader writing through runner. batchSize <= 0 falls
// back to the default of 200 rows per write transaction.
func NewLoader(runner Runner, batchSize int, logger *slog.Logger) *Loader {
	if batchSize <= 0 {
		batchSize = 200
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		runner:    runner,
		batchSize: batchSize,
		logger:    logger.With("component", "loader"),
	}
}

// Load maps the raw rows onto the typed schema and writes them in batches.
// Rows that violate the schema are skipped, recorded on the report, and
// never produce partial nodes. A store failure aborts the run; committed
// batches stay committed.
func (l *Loader) Load(ctx context.Context, processRows []schema.ProcessRow, toolRows []schema.ToolRow, mode LoadMode) (*core.LoadReport, error) {
	report := &core.LoadReport{
		Mode:    string(mode),
		Started: time.Now(),
	}
	defer func() { report.Finished = time.Now() }()

	features := make(map[core.NodeKey]core.Feature)
	types := make(map[core.NodeKey]core.ProcessType)
	stages := make(map[core.NodeKey]core.ProcessStage)
	processes := make(map[core.NodeKey]core.Process)
	tools := make(map[core.NodeKey]core.Tool)

	for _, row := range processRows {
		report.RowsRead++
		mapped, err := schema.MapProcessRow(row)
		if err != nil {
			l.skip(report, err)
			continue
		}
		features[mapped.Feature.Key] = mapped.Feature
		types[mapped.Type.Key] = mapped.Type
		stages[mapped.Stage.Key] = mapped.Stage
		processes[mapped.Process.Key] = mapped.Process
	}
	for _, row := range toolRows {
		report.RowsRead++
		mapped, err := schema.MapToolRow(row)
		if err != nil {
			l.skip(report, err)
			continue
		}
		tools[mapped.Tool.Key] = mapped.Tool
	}

	l.logger.Info("mapped source tables",
		"mode", mode,
		"features", len(features),
		"processes", len(processes),
		"tools", len(tools),
		"skipped", report.RowsSkipped)

	total := Counters{}

	if mode == FullRebuild {
		counters, err := l.runner.WriteQuery(ctx, clearQuery, nil)
		if err != nil {
			return report, err
		}
		total.Add(counters)
		l.logger.Info("cleared managed graph", "nodes_deleted", counters.NodesDeleted)
	}

	steps := []struct {
		name   string
		cypher string
		rows   []map[string]any
	}{
		{"features", upsertFeatures, featureRows(features)},
		{"process types", upsertProcessTypes, typeRows(types)},
		{"process stages", upsertProcessStages, stageRows(stages)},
		{"processes", upsertProcesses, processRowMaps(processes)},
		{"tools", upsertTools, toolRowMaps(tools)},
		{"process relationships", linkProcesses, processRowMaps(processes)},
		{"tool recommendations", linkRecommendations, recommendationRows(tools)},
	}
	for _, step := range steps {
		counters, err := l.writeBatches(ctx, step.cypher, step.rows)
		total.Add(counters)
		if err != nil {
			report.NodesCreated = total.NodesCreated
			report.RelationshipsCreated = total.RelationshipsCreated
			return report, err
		}
	}

	report.NodesCreated = total.NodesCreated
	report.RelationshipsCreated = total.RelationshipsCreated

	if err := l.EnsureIndexes(ctx); err != nil {
		// Index creation may be denied for restricted users; queries still
		// work without it.
		l.logger.Warn("index creation failed, continuing", "error", err)
	}

	l.logger.Info("load finished",
		"nodes_created", report.NodesCreated,
		"relationships_created", report.RelationshipsCreated,
		"rows_skipped", report.RowsSkipped,
		"duration", time.Since(report.Started))
	return report, nil
}

func (l *Loader) skip(report *core.LoadReport, err error) {
	report.RowsSkipped++
	var violation *core.SchemaViolation
	if errors.As(err, &violation) {
		report.Violations = append(report.Violations, violation)
		l.logger.Warn("skipping row",
			"table", violation.Table,
			"line", violation.Line,
			"column", violation.Column,
			"reason", violation.Reason)
		return
	}
	l.logger.Warn("skipping row", "error", err)
}

// writeBatches commits rows in batchSize chunks, one write transaction per
// chunk. On failure the preceding chunks remain committed.
func (l *Loader) writeBatches(ctx context.Context, cypher string, rows []map[string]any) (Counters, error) {
	total := Counters{}
	for start := 0; start < len(rows); start += l.batchSize {
		end := start + l.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		counters, err := l.runner.WriteQuery(ctx, cypher, map[string]any{"rows": rows[start:end]})
		if err != nil {
			return total, err
		}
		total.Add(counters)
	}
	return total, nil
}

// EnsureIndexes creates the key lookups the traversal queries depend on.
func (l *Loader) EnsureIndexes(ctx context.Context) error {
	statements := []string{
		`CREATE INDEX feature_key_idx IF NOT EXISTS FOR (n:Feature) ON (n.key)`,
		`CREATE INDEX feature_name_idx IF NOT EXISTS FOR (n:Feature) ON (n.name)`,
		`CREATE INDEX process_key_idx IF NOT EXISTS FOR (n:Process) ON (n.key)`,
		`CREATE INDEX process_template_idx IF NOT EXISTS FOR (n:Process) ON (n.template_id)`,
		`CREATE INDEX process_type_key_idx IF NOT EXISTS FOR (n:ProcessType) ON (n.key)`,
		`CREATE INDEX process_stage_key_idx IF NOT EXISTS FOR (n:ProcessStage) ON (n.key)`,
		`CREATE INDEX tool_key_idx IF NOT EXISTS FOR (n:Tool) ON (n.key)`,
	}
	for _, stmt := range statements {
		if _, err := l.runner.WriteQuery(ctx, stmt, nil); err != nil {
			return err
		}
	}
	return nil
}

const upsertFeatures = `
UNWIND $rows AS row
MERGE (n:Feature {key: row.key})
SET n.feature_id = row.feature_id,
    n.name = row.name,
    n.category = row.category`

const upsertProcessTypes = `
UNWIND $rows AS row
MERGE (n:ProcessType {key: row.key})
SET n.name = row.name`

const upsertProcessStages = `
UNWIND $rows AS row
MERGE (n:ProcessStage {key: row.key})
SET n.name = row.name`

const upsertProcesses = `
UNWIND $rows AS row
MERGE (n:Process {key: row.key})
SET n.template_id = row.template_id,
    n.component_surface = row.component_surface,
    n.feature_surface = row.feature_surface,
    n.surface_type = row.surface_type,
    n.sidewall_feature = row.sidewall_feature,
    n.allowance = row.allowance,
    n.stage = row.stage,
    n.process_type = row.process_type`

const upsertTools = `
UNWIND $rows AS row
MERGE (n:Tool {key: row.key})
SET n.tool_id = row.tool_id,
    n.name = row.name,
    n.diameter_mm = row.diameter_mm,
    n.corner_radius_mm = row.corner_radius_mm,
    n.flute_count = row.flute_count,
    n.stickout_mm = row.stickout_mm`

const linkProcesses = `
UNWIND $rows AS row
MATCH (p:Process {key: row.key})
MATCH (f:Feature {key: row.feature_key})
MATCH (t:ProcessType {key: row.type_key})
MATCH (s:ProcessStage {key: row.stage_key})
MERGE (p)-[:PROCESSES]->(f)
MERGE (p)-[:HAS_TYPE]->(t)
MERGE (p)-[:IN_STAGE]->(s)`

const linkRecommendations = `
UNWIND $rows AS row
MATCH (t:Tool {key: row.tool_key})
MATCH (p:Process {template_id: row.template_id})
MERGE (t)-[:RECOMMENDED_FOR]->(p)`

func featureRows(features map[core.NodeKey]core.Feature) []map[string]any {
	rows := make([]map[string]any, 0, len(features))
	for _, f := range features {
		rows = append(rows, map[string]any{
			"key":        f.Key.String(),
			"feature_id": f.ID,
			"name":       f.Name,
			"category":   f.Category,
		})
	}
	return sortRows(rows)
}

func typeRows(types map[core.NodeKey]core.ProcessType) []map[string]any {
	rows := make([]map[string]any, 0, len(types))
	for _, t := range types {
		rows = append(rows, map[string]any{"key": t.Key.String(), "name": t.Name})
	}
	return sortRows(rows)
}

func stageRows(stages map[core.NodeKey]core.ProcessStage) []map[string]any {
	rows := make([]map[string]any, 0, len(stages))
	for _, s := range stages {
		rows = append(rows, map[string]any{"key": s.Key.String(), "name": s.Name})
	}
	return sortRows(rows)
}

func processRowMaps(processes map[core.NodeKey]core.Process) []map[string]any {
	rows := make([]map[string]any, 0, len(processes))
	for _, p := range processes {
		rows = append(rows, map[string]any{
			"key":               p.Key.String(),
			"template_id":       p.TemplateID,
			"feature_key":       p.FeatureKey.String(),
			"type_key":          core.ProcessTypeKey(p.Type).String(),
			"stage_key":         core.ProcessStageKey(p.Stage).String(),
			"component_surface": p.ComponentSurface,
			"feature_surface":   p.FeatureSurface,
			"surface_type":      p.SurfaceType,
			"sidewall_feature":  p.SidewallFeature,
			"allowance":         p.Allowance,
			"stage":             p.Stage,
			"process_type":      p.Type,
		})
	}
	return sortRows(rows)
}

func toolRowMaps(tools map[core.NodeKey]core.Tool) []map[string]any {
	rows := make([]map[string]any, 0, len(tools))
	for _, t := range tools {
		rows = append(rows, map[string]any{
			"key":              t.Key.String(),
			"tool_id":          t.ID,
			"name":             t.Name,
			"diameter_mm":      t.DiameterMM,
			"corner_radius_mm": t.CornerRadiusMM,
			"flute_count":      t.FluteCount,
			"stickout_mm":      t.StickoutMM,
		})
	}
	return sortRows(rows)
}

// recommendationRows flattens every (tool, template) pair from the optional
// 适用模板 column into one edge row.
func recommendationRows(tools map[core.NodeKey]core.Tool) []map[string]any {
	var rows []map[string]any
	for _, t := range tools {
		for _, template := range t.RecommendedTemplates {
			rows = append(rows, map[string]any{
				"key":         t.Key.String() + "/" + template,
				"tool_key":    t.Key.String(),
				"template_id": template,
			})
		}
	}
	return sortRows(rows)
}

// sortRows orders rows by key so batch boundaries are deterministic.
func sortRows(rows []map[string]any) []map[string]any {
	sort.Slice(rows, func(i, j int) bool {
		return rows[i]["key"].(string) < rows[j]["key"].(string)
	})
	return rows
}
