package schema

// Column headers of the process-template table.
const (
	ColTemplateID       = "模板编号"
	ColFeatureID        = "特征ID"
	ColFeatureName      = "特征名称"
	ColComponentSurface = "组成面"
	ColFeatureSurface   = "特征面"
	ColSurfaceType      = "面类型"
	ColSidewallFeature  = "侧壁特征"
	ColAllowance        = "余量"
	ColProcessStage     = "工序阶段"
	ColProcessType      = "工艺类型"
)

// Column headers of the tool table.
const (
	ColToolID        = "刀具id"
	ColToolName      = "刀具名称"
	ColDiameter      = "直径"
	ColCornerRadius  = "R角"
	ColFluteCount    = "刃数"
	ColStickout      = "伸出长"
	ColToolTemplates = "适用模板" // optional
)

// ProcessTableColumns is the required header of processes.csv, in order.
var ProcessTableColumns = []string{
	ColTemplateID, ColFeatureID, ColFeatureName, ColComponentSurface,
	ColFeatureSurface, ColSurfaceType, ColSidewallFeature, ColAllowance,
	ColProcessStage, ColProcessType,
}

// ToolTableColumns is the required header of tools.csv, in order.
// ColToolTemplates may follow as an optional trailing column.
var ToolTableColumns = []string{
	ColToolID, ColToolName, ColDiameter, ColCornerRadius, ColFluteCount,
	ColStickout,
}

// ProcessRow is one raw record of the process-template table.
// All fields are unparsed source text; Line is the 1-based line number.
type ProcessRow struct {
	Line             int
	TemplateID       string
	FeatureID        string
	FeatureName      string
	ComponentSurface string
	FeatureSurface   string
	SurfaceType      string
	SidewallFeature  string
	Allowance        string
	Stage            string
	Type             string
}

// ToolRow is one raw record of the tool table.
type ToolRow struct {
	Line         int
	ID           string
	Name         string
	Diameter     string
	CornerRadius string
	FluteCount   string
	Stickout     string
	Templates    string // optional 适用模板 column, may be empty
}
