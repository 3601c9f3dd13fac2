package core

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// NodeKey is a deterministic identifier for graph nodes.
// It is derived from the identifying columns of a source row, so loading
// the same row twice always addresses the same node.
type NodeKey uint64

// keySeparator joins identifying parts before hashing. The unit separator
// control character cannot appear in CSV text fields, so differently-shaped
// tuples can never collide by concatenation.
const keySeparator = "\x1f"

// KeyFromContent generates a deterministic NodeKey from text using BLAKE2b hashing.
// Identical content always produces identical keys.
func KeyFromContent(text string) NodeKey {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return NodeKey(binary.LittleEndian.Uint64(sum))
}

// KeyFromParts generates a NodeKey from a tuple of identifying columns.
func KeyFromParts(parts ...string) NodeKey {
	return KeyFromContent(strings.Join(parts, keySeparator))
}

// String renders the key as fixed-width hex, the form stored on graph nodes.
func (k NodeKey) String() string {
	return fmt.Sprintf("%016x", uint64(k))
}

// Feature is a machining feature type (e.g. 圆柱通孔, 矩形凹槽).
// One node exists per distinct feature across all process rows.
type Feature struct {
	Key      NodeKey
	ID       string // source 特征ID
	Name     string // source 特征名称
	Category string // geometric category derived from the name (hole, slot, face, ...)
}

// Process is one process-template row. Identity is the
// (template id, feature id) tuple: the same template may apply to
// several features, and each pairing is its own node.
type Process struct {
	Key              NodeKey
	TemplateID       string // 模板编号
	FeatureKey       NodeKey
	ComponentSurface string  // 组成面
	FeatureSurface   string  // 特征面
	SurfaceType      string  // 面类型
	SidewallFeature  bool    // 侧壁特征
	Allowance        float64 // 余量, mm
	Stage            string  // 工序阶段
	Type             string  // 工艺类型
}

// ProcessType is a categorical label shared by many processes
// (底壁铣, 平面轮廓铣, ...). Identity is the name.
type ProcessType struct {
	Key  NodeKey
	Name string
}

// ProcessStage is a categorical machining stage label
// (粗加工, 半精加工, 精加工, 清根). Identity is the name.
type ProcessStage struct {
	Key  NodeKey
	Name string
}

// Tool is a cutting tool. Identity is the tool id.
type Tool struct {
	Key            NodeKey
	ID             string  // 刀具id
	Name           string  // 刀具名称
	DiameterMM     float64 // 直径
	CornerRadiusMM float64 // R角
	FluteCount     int     // 刃数
	StickoutMM     float64 // 伸出长
	// RecommendedTemplates lists template ids this tool is recommended for
	// (optional 适用模板 column). Empty means no loader-derived recommendation
	// edges; dimension matching stays a query-time concern.
	RecommendedTemplates []string
}

// FeatureKey derives the node key for a feature name.
func FeatureKey(name string) NodeKey {
	return KeyFromParts("feature", name)
}

// ProcessKey derives the composite node key for a process row.
func ProcessKey(templateID, featureID string) NodeKey {
	return KeyFromParts("process", templateID, featureID)
}

// ProcessTypeKey derives the node key for a process type name.
func ProcessTypeKey(name string) NodeKey {
	return KeyFromParts("processtype", name)
}

// ProcessStageKey derives the node key for a process stage name.
func ProcessStageKey(name string) NodeKey {
	return KeyFromParts("processstage", name)
}

// ToolKey derives the node key for a tool id.
func ToolKey(id string) NodeKey {
	return KeyFromParts("tool", id)
}

// FeatureCategory buckets a feature name into a coarse geometric category.
// Mirrors the classification the original advisor applied to feature names.
func FeatureCategory(name string) string {
	switch {
	case strings.Contains(name, "螺纹"):
		return "thread"
	case strings.Contains(name, "孔"):
		return "hole"
	case strings.Contains(name, "槽"):
		return "slot"
	case strings.Contains(name, "倒角"):
		return "chamfer"
	case strings.Contains(name, "台") || strings.Contains(name, "面"):
		return "face"
	default:
		return "contour"
	}
}

// LoadReport summarizes one loader run.
type LoadReport struct {
	Mode                 string
	NodesCreated         int
	RelationshipsCreated int
	RowsRead             int
	RowsSkipped          int
	Violations           []*SchemaViolation
	Started              time.Time
	Finished             time.Time
}
