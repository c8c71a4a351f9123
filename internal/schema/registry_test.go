package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productosapi/internal/model"
)

func TestRegistry_Resolve(t *testing.T) {
	t.Parallel()

	reg, err := NewRegistry([]*model.Schema{
		ShortSchema("general", "t1"),
		ExtendedSchema("deposito", "t2"),
	}, "")
	require.NoError(t, err)

	got, err := reg.Resolve("deposito")
	require.NoError(t, err)
	assert.Equal(t, "t2", got.TableID)
	assert.Equal(t, "H", got.StatusColumn)

	_, err = reg.Resolve("farmacia")
	assert.ErrorIs(t, err, ErrUnknownDepartment)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = reg.Resolve("")
	assert.ErrorIs(t, err, ErrMissingDepartment)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	assert.Equal(t, []string{"deposito", "general"}, reg.Keys())
	assert.Equal(t, 2, reg.Len())
	_, ok := reg.Default()
	assert.False(t, ok)
}

func TestRegistry_DefaultDepartment(t *testing.T) {
	t.Parallel()

	reg, err := NewRegistry([]*model.Schema{ShortSchema("general", "t1")}, "general")
	require.NoError(t, err)

	got, err := reg.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "general", got.Key)

	def, ok := reg.Default()
	require.True(t, ok)
	assert.Same(t, got, def)
}

func TestNewRegistry_Invalid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		schemas []*model.Schema
		def     string
	}{
		{name: "empty"},
		{name: "duplicate", schemas: []*model.Schema{ShortSchema("a", "t1"), ShortSchema("a", "t2")}},
		{name: "missing default", schemas: []*model.Schema{ShortSchema("a", "t1")}, def: "b"},
		{name: "no table", schemas: []*model.Schema{ShortSchema("a", "")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRegistry(tc.schemas, tc.def)
			assert.Error(t, err)
		})
	}
}

func TestPresets(t *testing.T) {
	t.Parallel()

	short := ShortSchema("general", "t1")
	assert.Equal(t, []string{"producto", "fechaTexto", "fechaOrdenable", "estado"}, short.FieldNames())
	assert.Equal(t, "Hoja1!A2:D", short.ListA1())
	assert.Equal(t, "Hoja1!A:D", short.AppendA1())
	assert.Equal(t, "EN GÓNDOLA", short.InitialStatus)
	assert.Equal(t, "", short.Placeholder)

	ext := ExtendedSchema("deposito", "t2")
	assert.Equal(t, []string{
		"descripcion", "codigo", "item", "lote", "ubicacion", "bin",
		"fecha_vencimiento", "estado", "fecha_agregado", "notificado",
	}, ext.FieldNames())
	assert.Equal(t, "Hoja1!A2:J", ext.ListA1())
	assert.Equal(t, []string{"descripcion", "codigo", "fecha_vencimiento"}, ext.RequiredFields())
	assert.Equal(t, "-", ext.Placeholder)

	// 状态列与字段位置一致
	for _, s := range []*model.Schema{short, ext} {
		idx := s.FieldByRole(model.RoleStatus)
		require.GreaterOrEqual(t, idx, 0)
		assert.Equal(t, string(rune('A'+idx)), s.StatusColumn, s.Key)
	}

	_, ok := Preset("otra", "x", "t")
	assert.False(t, ok)
}

func TestErrorsAreDistinct(t *testing.T) {
	t.Parallel()
	assert.False(t, errors.Is(ErrMissingDepartment, ErrUnknownDepartment))
}
