package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhangxiaofan-star/AICam/core"
)

func validProcessRow() ProcessRow {
	return ProcessRow{
		Line:             2,
		TemplateID:       "P001",
		FeatureID:        "F001",
		FeatureName:      "圆柱通孔",
		ComponentSurface: "底面",
		FeatureSurface:   "内壁",
		SurfaceType:      "平面",
		SidewallFeature:  "是",
		Allowance:        "0.5",
		Stage:            "精加工",
		Type:             "底壁铣",
	}
}

func TestMapProcessRow(t *testing.T) {
	t.Run("valid row maps all four nodes", func(t *testing.T) {
		m, err := MapProcessRow(validProcessRow())
		require.NoError(t, err)

		assert.Equal(t, "圆柱通孔", m.Feature.Name)
		assert.Equal(t, "hole", m.Feature.Category)
		assert.Equal(t, "P001", m.Process.TemplateID)
		assert.Equal(t, m.Feature.Key, m.Process.FeatureKey)
		assert.Equal(t, "精加工", m.Stage.Name)
		assert.Equal(t, "底壁铣", m.Type.Name)
		assert.True(t, m.Process.SidewallFeature)
		assert.InDelta(t, 0.5, m.Process.Allowance, 1e-9)
	})

	t.Run("mapping is deterministic", func(t *testing.T) {
		a, err := MapProcessRow(validProcessRow())
		require.NoError(t, err)
		b, err := MapProcessRow(validProcessRow())
		require.NoError(t, err)

		assert.Equal(t, a.Process.Key, b.Process.Key)
		assert.Equal(t, a.Feature.Key, b.Feature.Key)
	})

	t.Run("missing columns are violations naming the column", func(t *testing.T) {
		cases := []struct {
			column string
			mutate func(*ProcessRow)
		}{
			{ColTemplateID, func(r *ProcessRow) { r.TemplateID = " " }},
			{ColFeatureID, func(r *ProcessRow) { r.FeatureID = "" }},
			{ColFeatureName, func(r *ProcessRow) { r.FeatureName = "" }},
			{ColProcessStage, func(r *ProcessRow) { r.Stage = "" }},
			{ColProcessType, func(r *ProcessRow) { r.Type = "" }},
		}
		for _, tc := range cases {
			t.Run(tc.column, func(t *testing.T) {
				row := validProcessRow()
				tc.mutate(&row)

				_, err := MapProcessRow(row)
				require.Error(t, err)
				assert.ErrorIs(t, err, core.ErrSchemaViolation)

				var v *core.SchemaViolation
				require.True(t, errors.As(err, &v))
				assert.Equal(t, tc.column, v.Column)
				assert.Equal(t, 2, v.Line)
			})
		}
	})

	t.Run("bad allowance is a violation", func(t *testing.T) {
		row := validProcessRow()
		row.Allowance = "abc"

		_, err := MapProcessRow(row)
		var v *core.SchemaViolation
		require.True(t, errors.As(err, &v))
		assert.Equal(t, ColAllowance, v.Column)
	})

	t.Run("blank allowance defaults to zero", func(t *testing.T) {
		row := validProcessRow()
		row.Allowance = ""

		m, err := MapProcessRow(row)
		require.NoError(t, err)
		assert.Zero(t, m.Process.Allowance)
	})

	t.Run("unrecognized sidewall flag is a violation", func(t *testing.T) {
		row := validProcessRow()
		row.SidewallFeature = "maybe"

		_, err := MapProcessRow(row)
		var v *core.SchemaViolation
		require.True(t, errors.As(err, &v))
		assert.Equal(t, ColSidewallFeature, v.Column)
	})
}

func TestMapToolRow(t *testing.T) {
	valid := func() ToolRow {
		return ToolRow{
			Line:       3,
			ID:         "T-101",
			Name:       "D10R0.5",
			Diameter:   "10",
			FluteCount: "4",
			Stickout:   "35",
		}
	}

	t.Run("valid row", func(t *testing.T) {
		m, err := MapToolRow(valid())
		require.NoError(t, err)

		assert.Equal(t, "T-101", m.Tool.ID)
		assert.InDelta(t, 10.0, m.Tool.DiameterMM, 1e-9)
		assert.Equal(t, 4, m.Tool.FluteCount)
		assert.Zero(t, m.Tool.CornerRadiusMM)
		assert.Empty(t, m.Tool.RecommendedTemplates)
	})

	t.Run("templates column splits on semicolon", func(t *testing.T) {
		row := valid()
		row.Templates = "P001; P002 ;;P003"

		m, err := MapToolRow(row)
		require.NoError(t, err)
		assert.Equal(t, []string{"P001", "P002", "P003"}, m.Tool.RecommendedTemplates)
	})

	t.Run("bad diameter names the column", func(t *testing.T) {
		row := valid()
		row.Diameter = "ten"

		_, err := MapToolRow(row)
		var v *core.SchemaViolation
		require.True(t, errors.As(err, &v))
		assert.Equal(t, ColDiameter, v.Column)
		assert.Equal(t, ToolTable, v.Table)
	})

	t.Run("missing id is a violation", func(t *testing.T) {
		row := valid()
		row.ID = ""

		_, err := MapToolRow(row)
		assert.ErrorIs(t, err, core.ErrSchemaViolation)
	})
}
