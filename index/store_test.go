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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *UnitStore {
	t.Helper()
	store, err := OpenUnitStore("", true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func builtUnits() []Unit {
	var units []Unit
	for _, row := range knowledgeFixture() {
		unit := UnitFromKnowledge(row)
		unit.Vector = NormalizeVector([]float32{1, 2, 3})
		units = append(units, unit)
	}
	// One lexical-only unit.
	units[2].Vector = nil
	return units
}

func TestUnitStore(t *testing.T) {
	t.Run("put then load round trips", func(t *testing.T) {
		store := openTestStore(t)
		require.NoError(t, store.PutUnits(builtUnits()))

		loaded, err := store.LoadUnits()
		require.NoError(t, err)
		require.Len(t, loaded, 3)

		// Load order is key order.
		assert.Equal(t, "01", loaded[0].Key)
		assert.Equal(t, "P001", loaded[0].TemplateID)
		assert.Equal(t, "圆柱通孔", loaded[0].FeatureName)
		assert.NotEmpty(t, loaded[0].Terms)
		assert.Len(t, loaded[0].Vector, 3)

		// The lexical-only unit stays lexical-only.
		assert.Equal(t, "03", loaded[2].Key)
		assert.Empty(t, loaded[2].Vector)
	})

	t.Run("re-putting a unit replaces it", func(t *testing.T) {
		store := openTestStore(t)
		units := builtUnits()
		require.NoError(t, store.PutUnits(units))

		units[0].Text = "更新后的描述"
		require.NoError(t, store.PutUnits(units[:1]))

		loaded, err := store.LoadUnits()
		require.NoError(t, err)
		require.Len(t, loaded, 3)
		// The updated unit has key "02" and loads second.
		assert.Equal(t, "更新后的描述", loaded[1].Text)
	})

	t.Run("clear removes everything", func(t *testing.T) {
		store := openTestStore(t)
		require.NoError(t, store.PutUnits(builtUnits()))
		require.NoError(t, store.Clear())

		loaded, err := store.LoadUnits()
		require.NoError(t, err)
		assert.Empty(t, loaded)
	})

	t.Run("keyless unit is rejected", func(t *testing.T) {
		store := openTestStore(t)
		err := store.PutUnits([]Unit{{Text: "无键"}})
		assert.ErrorIs(t, err, ErrEmptyUnit)
	})

	t.Run("closed store errors", func(t *testing.T) {
		store, err := OpenUnitStore("", true)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		assert.ErrorIs(t, store.PutUnits(builtUnits()), ErrStoreClosed)
		_, err = store.LoadUnits()
		assert.ErrorIs(t, err, ErrStoreClosed)
	})
}

func TestUnitSerialization(t *testing.T) {
	unit := UnitFromKnowledge(knowledgeFixture()[0])
	unit.Vector = NormalizeVector([]float32{0.1, 0.9, 0.4})

	restored, err := UnmarshalUnit(MarshalUnit(&unit))
	require.NoError(t, err)
	assert.Equal(t, unit.Key, restored.Key)
	assert.Equal(t, unit.Text, restored.Text)
	assert.Equal(t, unit.Terms, restored.Terms)
	assert.Equal(t, unit.Tools, restored.Tools)
	assert.InDeltaSlice(t, unit.Vector, restored.Vector, 1e-6)
}

func TestUnitFromKnowledge(t *testing.T) {
	row := knowledgeFixture()[0]
	unit := UnitFromKnowledge(row)

	assert.Equal(t, row.Key, unit.Key)
	assert.Contains(t, unit.Text, "工艺模板P002")
	assert.Contains(t, unit.Text, "圆柱通孔")
	assert.Contains(t, unit.Text, "精加工")
	assert.Contains(t, unit.Text, "立铣刀D10")
	assert.Contains(t, unit.Text, "余量0.1mm")

	t.Run("rendering is deterministic", func(t *testing.T) {
		again := UnitFromKnowledge(row)
		assert.Equal(t, unit.Text, again.Text)
		assert.Equal(t, unit.Terms, again.Terms)
	})

	t.Run("sidewall flag is rendered", func(t *testing.T) {
		sidewall := UnitFromKnowledge(knowledgeFixture()[2])
		assert.Contains(t, sidewall.Text, "含侧壁特征")
	})
}
