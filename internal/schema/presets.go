package schema

import "productosapi/internal/model"

const defaultSheet = "Hoja1"

// ShortSchema 短表：A:D，按商品名查找，状态在 D 列
func ShortSchema(key, tableID string) *model.Schema {
	return &model.Schema{
		Key:         key,
		Kind:        model.SchemaKindShort,
		TableID:     tableID,
		Sheet:       defaultSheet,
		ListRange:   "A2:D",
		AppendRange: "A:D",
		Fields: []model.Field{
			{Name: "producto", Required: true},
			{Name: "fechaTexto", Role: model.RoleDateText},
			{Name: "fechaOrdenable", Role: model.RoleDateSortable},
			{Name: "estado", Role: model.RoleStatus},
		},
		KeyFields:     []string{"producto"},
		StatusColumn:  "D",
		HeaderRows:    1,
		Placeholder:   "",
		InitialStatus: "EN GÓNDOLA",
	}
}

// ExtendedSchema 扩展表：A:J，按条码或描述查找，状态在 H 列
func ExtendedSchema(key, tableID string) *model.Schema {
	return &model.Schema{
		Key:         key,
		Kind:        model.SchemaKindExtended,
		TableID:     tableID,
		Sheet:       defaultSheet,
		ListRange:   "A2:J",
		AppendRange: "A:J",
		Fields: []model.Field{
			{Name: "descripcion", Required: true},
			{Name: "codigo", Required: true},
			{Name: "item"},
			{Name: "lote"},
			{Name: "ubicacion"},
			{Name: "bin"},
			{Name: "fecha_vencimiento", Required: true},
			{Name: "estado", Role: model.RoleStatus},
			{Name: "fecha_agregado", Role: model.RoleTimestamp},
			{Name: "notificado", Role: model.RoleFlag},
		},
		KeyFields:     []string{"codigo", "descripcion"},
		StatusColumn:  "H",
		HeaderRows:    1,
		Placeholder:   "-",
		InitialStatus: "EN DEPÓSITO",
	}
}

// Preset 按类型返回预置结构
func Preset(kind model.SchemaKind, key, tableID string) (*model.Schema, bool) {
	switch kind {
	case model.SchemaKindShort:
		return ShortSchema(key, tableID), true
	case model.SchemaKindExtended:
		return ExtendedSchema(key, tableID), true
	default:
		return nil, false
	}
}
