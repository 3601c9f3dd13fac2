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
	"fmt"
	"sort"
	"strings"
)

// fakeGraph is an in-memory Runner that interprets exactly the Cypher this
// package issues. It gives the loader and store tests real MERGE and MATCH
// semantics without a server.
type fakeGraph struct {
	// label -> key -> properties
	nodes map[string]map[string]map[string]any
	// [from key, relationship type, to key]
	rels map[[3]string]bool

	writeCalls int
	// failOnWriteCall makes the Nth write (1-based) fail. Zero disables.
	failOnWriteCall int
	readErr         error
}

var managedLabels = []string{"Feature", "Process", "ProcessType", "ProcessStage", "Tool"}

func newFakeGraph() *fakeGraph {
	return &fakeGraph{
		nodes: make(map[string]map[string]map[string]any),
		rels:  make(map[[3]string]bool),
	}
}

func (g *fakeGraph) WriteQuery(_ context.Context, cypher string, params map[string]any) (Counters, error) {
	g.writeCalls++
	if g.failOnWriteCall > 0 && g.writeCalls >= g.failOnWriteCall {
		return Counters{}, fmt.Errorf("fake graph: write %d refused", g.writeCalls)
	}

	rows, _ := params["rows"].([]map[string]any)
	var c Counters
	switch cypher {
	case clearQuery:
		for _, label := range managedLabels {
			for key := range g.nodes[label] {
				c.NodesDeleted++
				c.RelationshipsDeleted += g.detach(key)
			}
			delete(g.nodes, label)
		}
	case upsertFeatures:
		c.NodesCreated = g.upsert("Feature", rows)
	case upsertProcessTypes:
		c.NodesCreated = g.upsert("ProcessType", rows)
	case upsertProcessStages:
		c.NodesCreated = g.upsert("ProcessStage", rows)
	case upsertProcesses:
		c.NodesCreated = g.upsert("Process", rows)
	case upsertTools:
		c.NodesCreated = g.upsert("Tool", rows)
	case linkProcesses:
		for _, row := range rows {
			pKey := asString(row["key"])
			fKey := asString(row["feature_key"])
			tKey := asString(row["type_key"])
			sKey := asString(row["stage_key"])
			if !g.has("Process", pKey) || !g.has("Feature", fKey) ||
				!g.has("ProcessType", tKey) || !g.has("ProcessStage", sKey) {
				continue
			}
			c.RelationshipsCreated += g.link(pKey, "PROCESSES", fKey)
			c.RelationshipsCreated += g.link(pKey, "HAS_TYPE", tKey)
			c.RelationshipsCreated += g.link(pKey, "IN_STAGE", sKey)
		}
	case linkRecommendations:
		for _, row := range rows {
			toolKey := asString(row["tool_key"])
			if !g.has("Tool", toolKey) {
				continue
			}
			for pKey, props := range g.nodes["Process"] {
				if asString(props["template_id"]) == asString(row["template_id"]) {
					c.RelationshipsCreated += g.link(toolKey, "RECOMMENDED_FOR", pKey)
				}
			}
		}
	default:
		if strings.HasPrefix(strings.TrimSpace(cypher), "CREATE INDEX") {
			return Counters{}, nil
		}
		return Counters{}, fmt.Errorf("fake graph: unexpected write cypher: %s", cypher)
	}
	return c, nil
}

func (g *fakeGraph) ReadQuery(_ context.Context, cypher string, params map[string]any) ([]map[string]any, error) {
	if g.readErr != nil {
		return nil, g.readErr
	}
	switch cypher {
	case featureNamesQuery:
		return g.nameRows("Feature"), nil
	case `MATCH (t:Tool) RETURN t.name AS name ORDER BY name`:
		return g.nameRows("Tool"), nil
	case `MATCH (s:ProcessStage) RETURN s.name AS name ORDER BY name`:
		return g.nameRows("ProcessStage"), nil
	case `MATCH (pt:ProcessType) RETURN pt.name AS name ORDER BY name`:
		return g.nameRows("ProcessType"), nil
	case knowledgeQuery:
		return g.knowledgeRows(""), nil
	case templatesForFeatureQuery:
		return g.knowledgeRows(asString(params["name"])), nil
	case toolsForFeatureQuery:
		return g.toolsForFeature(asString(params["name"])), nil
	case toolsWithDiameterQuery:
		return g.toolRows(func(props map[string]any) bool {
			return asFloat(props["diameter_mm"]) == asFloat(params["diameter"])
		}, byToolID), nil
	case suitableToolsQuery:
		maxD := asFloat(params["max_diameter"])
		minS := asFloat(params["min_stickout"])
		return g.toolRows(func(props map[string]any) bool {
			if asFloat(props["diameter_mm"]) > maxD {
				return false
			}
			return minS <= 0 || asFloat(props["stickout_mm"]) > minS
		}, byDiameterDesc), nil
	}
	if strings.Contains(cypher, "count(") {
		return []map[string]any{{"count": int64(g.count(cypher))}}, nil
	}
	return nil, fmt.Errorf("fake graph: unexpected read cypher: %s", cypher)
}

func (g *fakeGraph) upsert(label string, rows []map[string]any) (created int) {
	if g.nodes[label] == nil {
		g.nodes[label] = make(map[string]map[string]any)
	}
	for _, row := range rows {
		key := asString(row["key"])
		if _, ok := g.nodes[label][key]; !ok {
			created++
		}
		props := make(map[string]any, len(row))
		for k, v := range row {
			props[k] = v
		}
		g.nodes[label][key] = props
	}
	return created
}

func (g *fakeGraph) has(label, key string) bool {
	_, ok := g.nodes[label][key]
	return ok
}

func (g *fakeGraph) link(from, relType, to string) int {
	id := [3]string{from, relType, to}
	if g.rels[id] {
		return 0
	}
	g.rels[id] = true
	return 1
}

func (g *fakeGraph) detach(key string) (deleted int) {
	for id := range g.rels {
		if id[0] == key || id[2] == key {
			delete(g.rels, id)
			deleted++
		}
	}
	return deleted
}

func (g *fakeGraph) nameRows(label string) []map[string]any {
	names := make([]string, 0, len(g.nodes[label]))
	for _, props := range g.nodes[label] {
		names = append(names, asString(props["name"]))
	}
	sort.Strings(names)
	rows := make([]map[string]any, 0, len(names))
	for _, name := range names {
		rows = append(rows, map[string]any{"name": name})
	}
	return rows
}

// knowledgeRows joins Process -> Feature and incoming RECOMMENDED_FOR
// edges. feature filters by name or feature_id; empty means all.
func (g *fakeGraph) knowledgeRows(feature string) []map[string]any {
	var rows []map[string]any
	for pKey, p := range g.nodes["Process"] {
		var f map[string]any
		for id := range g.rels {
			if id[0] == pKey && id[1] == "PROCESSES" {
				f = g.nodes["Feature"][id[2]]
			}
		}
		if f == nil {
			continue
		}
		if feature != "" && asString(f["name"]) != feature && asString(f["feature_id"]) != feature {
			continue
		}
		var tools []any
		for id := range g.rels {
			if id[2] == pKey && id[1] == "RECOMMENDED_FOR" {
				tools = append(tools, g.nodes["Tool"][id[0]]["name"])
			}
		}
		rows = append(rows, map[string]any{
			"key":               pKey,
			"template_id":       p["template_id"],
			"feature_id":        f["feature_id"],
			"feature_name":      f["name"],
			"feature_category":  f["category"],
			"component_surface": p["component_surface"],
			"feature_surface":   p["feature_surface"],
			"surface_type":      p["surface_type"],
			"sidewall_feature":  p["sidewall_feature"],
			"allowance":         p["allowance"],
			"stage":             p["stage"],
			"process_type":      p["process_type"],
			"tools":             tools,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		return asString(rows[i]["key"]) < asString(rows[j]["key"])
	})
	return rows
}

func (g *fakeGraph) toolsForFeature(feature string) []map[string]any {
	seen := make(map[string]bool)
	var rows []map[string]any
	for id := range g.rels {
		if id[1] != "RECOMMENDED_FOR" || seen[id[0]] {
			continue
		}
		for pf := range g.rels {
			if pf[0] != id[2] || pf[1] != "PROCESSES" {
				continue
			}
			f := g.nodes["Feature"][pf[2]]
			if f == nil || (asString(f["name"]) != feature && asString(f["feature_id"]) != feature) {
				continue
			}
			seen[id[0]] = true
			rows = append(rows, toolRow(g.nodes["Tool"][id[0]]))
		}
	}
	byToolID(rows)
	return rows
}

func (g *fakeGraph) toolRows(match func(map[string]any) bool, order func([]map[string]any)) []map[string]any {
	var rows []map[string]any
	for _, props := range g.nodes["Tool"] {
		if match(props) {
			rows = append(rows, toolRow(props))
		}
	}
	order(rows)
	return rows
}

func toolRow(props map[string]any) map[string]any {
	return map[string]any{
		"tool_id":          props["tool_id"],
		"name":             props["name"],
		"diameter_mm":      props["diameter_mm"],
		"corner_radius_mm": props["corner_radius_mm"],
		"flute_count":      props["flute_count"],
		"stickout_mm":      props["stickout_mm"],
	}
}

func byToolID(rows []map[string]any) {
	sort.Slice(rows, func(i, j int) bool {
		return asString(rows[i]["tool_id"]) < asString(rows[j]["tool_id"])
	})
}

func byDiameterDesc(rows []map[string]any) {
	sort.Slice(rows, func(i, j int) bool {
		di, dj := asFloat(rows[i]["diameter_mm"]), asFloat(rows[j]["diameter_mm"])
		if di != dj {
			return di > dj
		}
		return asString(rows[i]["tool_id"]) < asString(rows[j]["tool_id"])
	})
}

func (g *fakeGraph) count(cypher string) int {
	for _, label := range managedLabels {
		if strings.Contains(cypher, "(n:"+label+")") {
			return len(g.nodes[label])
		}
	}
	if strings.Contains(cypher, "[r]") {
		return len(g.rels)
	}
	return 0
}

func (g *fakeGraph) relCount(relType string) int {
	n := 0
	for id := range g.rels {
		if id[1] == relType {
			n++
		}
	}
	return n
}
