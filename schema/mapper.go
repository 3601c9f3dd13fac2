package schema

import (
	"strconv"
	"strings"

	"github.com/zhangxiaofan-star/AICam/core"
)

// Table names used in SchemaViolation reports.
const (
	ProcessTable = "processes"
	ToolTable    = "tools"
)

// MappedProcess is the full set of nodes a process row implies. The
// relationships (PROCESSES, HAS_TYPE, IN_STAGE) are implied by the key
// references inside Process plus the Type/Stage nodes.
type MappedProcess struct {
	Feature core.Feature
	Process core.Process
	Type    core.ProcessType
	Stage   core.ProcessStage
}

// MappedTool is the node a tool row implies. Recommendation edges are
// carried as template ids on the tool itself.
type MappedTool struct {
	Tool core.Tool
}

// MapProcessRow maps one process-template row onto its typed nodes.
// A row that cannot resolve to exactly one feature, stage, and type is
// rejected whole; no partial nodes are ever produced.
func MapProcessRow(row ProcessRow) (MappedProcess, error) {
	var m MappedProcess

	templateID := strings.TrimSpace(row.TemplateID)
	if templateID == "" {
		return m, core.Violation(ProcessTable, row.Line, ColTemplateID, "missing template id")
	}
	featureID := strings.TrimSpace(row.FeatureID)
	if featureID == "" {
		return m, core.Violation(ProcessTable, row.Line, ColFeatureID, "missing feature id")
	}
	featureName := strings.TrimSpace(row.FeatureName)
	if featureName == "" {
		return m, core.Violation(ProcessTable, row.Line, ColFeatureName, "missing feature name")
	}
	stage := strings.TrimSpace(row.Stage)
	if stage == "" {
		return m, core.Violation(ProcessTable, row.Line, ColProcessStage, "missing process stage")
	}
	processType := strings.TrimSpace(row.Type)
	if processType == "" {
		return m, core.Violation(ProcessTable, row.Line, ColProcessType, "missing process type")
	}

	allowance := 0.0
	if raw := strings.TrimSpace(row.Allowance); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return m, core.Violation(ProcessTable, row.Line, ColAllowance, "not a number: "+raw)
		}
		allowance = parsed
	}

	sidewall, ok := parseFlag(row.SidewallFeature)
	if !ok {
		return m, core.Violation(ProcessTable, row.Line, ColSidewallFeature, "not a recognized flag: "+row.SidewallFeature)
	}

	m.Feature = core.Feature{
		Key:      core.FeatureKey(featureName),
		ID:       featureID,
		Name:     featureName,
		Category: core.FeatureCategory(featureName),
	}
	m.Stage = core.ProcessStage{Key: core.ProcessStageKey(stage), Name: stage}
	m.Type = core.ProcessType{Key: core.ProcessTypeKey(processType), Name: processType}
	m.Process = core.Process{
		Key:              core.ProcessKey(templateID, featureID),
		TemplateID:       templateID,
		FeatureKey:       m.Feature.Key,
		ComponentSurface: strings.TrimSpace(row.ComponentSurface),
		FeatureSurface:   strings.TrimSpace(row.FeatureSurface),
		SurfaceType:      strings.TrimSpace(row.SurfaceType),
		SidewallFeature:  sidewall,
		Allowance:        allowance,
		Stage:            stage,
		Type:             processType,
	}

	if err := core.ValidateProcess(&m.Process); err != nil {
		return MappedProcess{}, core.Violation(ProcessTable, row.Line, ColTemplateID, err.Error())
	}
	return m, nil
}

// MapToolRow maps one tool row onto its typed node.
func MapToolRow(row ToolRow) (MappedTool, error) {
	var m MappedTool

	id := strings.TrimSpace(row.ID)
	if id == "" {
		return m, core.Violation(ToolTable, row.Line, ColToolID, "missing tool id")
	}

	diameter, err := strconv.ParseFloat(strings.TrimSpace(row.Diameter), 64)
	if err != nil {
		return m, core.Violation(ToolTable, row.Line, ColDiameter, "not a number: "+row.Diameter)
	}
	cornerRadius := 0.0
	if raw := strings.TrimSpace(row.CornerRadius); raw != "" {
		cornerRadius, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return m, core.Violation(ToolTable, row.Line, ColCornerRadius, "not a number: "+row.CornerRadius)
		}
	}
	flutes, err := strconv.Atoi(strings.TrimSpace(row.FluteCount))
	if err != nil {
		return m, core.Violation(ToolTable, row.Line, ColFluteCount, "not an integer: "+row.FluteCount)
	}
	stickout, err := strconv.ParseFloat(strings.TrimSpace(row.Stickout), 64)
	if err != nil {
		return m, core.Violation(ToolTable, row.Line, ColStickout, "not a number: "+row.Stickout)
	}

	m.Tool = core.Tool{
		Key:                  core.ToolKey(id),
		ID:                   id,
		Name:                 strings.TrimSpace(row.Name),
		DiameterMM:           diameter,
		CornerRadiusMM:       cornerRadius,
		FluteCount:           flutes,
		StickoutMM:           stickout,
		RecommendedTemplates: splitTemplates(row.Templates),
	}

	if err := core.ValidateTool(&m.Tool); err != nil {
		return MappedTool{}, core.Violation(ToolTable, row.Line, ColToolID, err.Error())
	}
	return m, nil
}

// parseFlag interprets the 侧壁特征 column. The dataset uses 是/否; numeric
// and english spellings are accepted for hand-edited files. Blank means no.
func parseFlag(raw string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "否", "0", "false", "no":
		return false, true
	case "是", "1", "true", "yes":
		return true, true
	default:
		return false, false
	}
}

// splitTemplates parses the optional 适用模板 column.
func splitTemplates(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ";")
	templates := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			templates = append(templates, p)
		}
	}
	return templates
}
