package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productosapi/internal/model"
)

func TestDefinition_BuildOverridesPreset(t *testing.T) {
	t.Parallel()

	dash := "-"
	redirect := true
	s, err := Definition{
		Key:                   "fiambreria",
		Kind:                  "Corta",
		TableID:               "t9",
		Sheet:                 "Stock",
		Placeholder:           &dash,
		InitialStatus:         "EN HELADERA",
		RedirectSortableDates: &redirect,
	}.Build()
	require.NoError(t, err)

	assert.Equal(t, model.SchemaKindShort, s.Kind)
	assert.Equal(t, "Stock!A2:D", s.ListA1())
	assert.Equal(t, "-", s.Placeholder)
	assert.Equal(t, "EN HELADERA", s.InitialStatus)
	assert.True(t, s.RedirectSortableDates)
}

func TestDefinition_BuildCustomLayout(t *testing.T) {
	t.Parallel()

	s, err := Definition{
		Key:         "bazar",
		TableID:     "t3",
		ListRange:   "A2:C",
		AppendRange: "A:C",
		Fields: []model.Field{
			{Name: "sku", Required: true},
			{Name: "nombre"},
			{Name: "estado", Role: model.RoleStatus},
		},
		KeyFields:    []string{"sku"},
		StatusColumn: "c",
	}.Build()
	require.NoError(t, err)
	assert.Equal(t, "C", s.StatusColumn)
	assert.Equal(t, 1, s.HeaderRows)
	assert.Equal(t, "Hoja1", s.Sheet)
}

func TestDefinition_ListRangeAfterHeaderRows(t *testing.T) {
	t.Parallel()

	headerRows := 2
	s, err := Definition{Key: "a", Kind: "corta", TableID: "t", ListRange: "A3:D", HeaderRows: &headerRows}.Build()
	require.NoError(t, err)
	assert.Equal(t, "Hoja1!A3:D", s.ListA1())
	assert.Equal(t, 2, s.HeaderRows)
}

func TestDefinition_BuildErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		def  Definition
	}{
		{name: "unknown kind", def: Definition{Key: "a", Kind: "mediana", TableID: "t"}},
		{name: "no ranges", def: Definition{Key: "a", TableID: "t", Fields: []model.Field{{Name: "x"}}}},
		{name: "bad range", def: Definition{Key: "a", Kind: "corta", TableID: "t", ListRange: "2A:D"}},
		{name: "range too narrow", def: Definition{Key: "a", Kind: "extendida", TableID: "t", AppendRange: "A:D"}},
		{name: "list range skips a row", def: Definition{Key: "a", Kind: "corta", TableID: "t", ListRange: "A3:D"}},
		{name: "list range overlaps header", def: Definition{Key: "a", Kind: "corta", TableID: "t", ListRange: "A1:D"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.def.Build()
			assert.Error(t, err)
		})
	}
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "departamentos.yaml")
	content := `default: general
departments:
  - key: general
    kind: corta
    table_id: sheet-a
  - key: deposito
    kind: extendida
    table_id: sheet-b
    initial_status: EN CÁMARA
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	defs, def, err := LoadYAML(path)
	require.NoError(t, err)
	assert.Equal(t, "general", def)
	require.Len(t, defs, 2)

	reg, err := FromDefinitions(defs, def)
	require.NoError(t, err)

	dep, err := reg.Resolve("deposito")
	require.NoError(t, err)
	assert.Equal(t, "EN CÁMARA", dep.InitialStatus)
	assert.Equal(t, "sheet-b", dep.TableID)

	gen, err := reg.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "general", gen.Key)
}

func TestLoadYAML_Missing(t *testing.T) {
	t.Parallel()

	_, _, err := LoadYAML(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
