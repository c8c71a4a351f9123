package model

import (
	"fmt"
	"strings"
)

// SchemaKind 部门表结构类型
type SchemaKind string

const (
	SchemaKindShort    SchemaKind = "corta"     // 短表：producto / fechaTexto / fechaOrdenable / estado
	SchemaKindExtended SchemaKind = "extendida" // 扩展表：descripcion ... notificado
)

// FieldRole 字段在编码时的特殊语义
type FieldRole string

const (
	RoleNone         FieldRole = ""
	RoleStatus       FieldRole = "status"        // 状态列，缺省取 InitialStatus
	RoleTimestamp    FieldRole = "timestamp"     // 写入时间，缺省取当前时刻
	RoleFlag         FieldRole = "flag"          // TRUE / FALSE
	RoleDateText     FieldRole = "date_text"     // 自由文本日期，如 "25 de julio"
	RoleDateSortable FieldRole = "date_sortable" // dd/mm/yyyy
)

// Field 列定义（按列顺序排列）
type Field struct {
	Name     string    `json:"name" toml:"name" yaml:"name"`
	Role     FieldRole `json:"role,omitempty" toml:"role" yaml:"role"`
	Required bool      `json:"required,omitempty" toml:"required" yaml:"required"`
}

// Schema 部门 -> 表格映射
//
// 启动后不可变；所有请求共享同一个实例。
type Schema struct {
	Key         string     `json:"dpto"`
	Kind        SchemaKind `json:"tipo"`
	TableID     string     `json:"-"`
	Sheet       string     `json:"hoja"`
	ListRange   string     `json:"rangoLectura"`
	AppendRange string     `json:"rangoEscritura"`
	Fields      []Field    `json:"campos"`
	KeyFields   []string   `json:"claves"`

	StatusColumn  string `json:"columnaEstado"`
	HeaderRows    int    `json:"filasEncabezado"`
	Placeholder   string `json:"marcador"`
	InitialStatus string `json:"estadoInicial"`

	// RedirectSortableDates 文本日期已是 dd/mm/yyyy 时直接写入可排序列
	RedirectSortableDates bool `json:"redirigeFechas,omitempty"`
}

// ListA1 读取范围（带 sheet 前缀）
func (s *Schema) ListA1() string {
	return s.Sheet + "!" + s.ListRange
}

// AppendA1 追加范围（带 sheet 前缀）
func (s *Schema) AppendA1() string {
	return s.Sheet + "!" + s.AppendRange
}

// FieldNames 按列顺序返回字段名
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// FieldIndex 返回字段所在列序号（0 起），不存在返回 -1
func (s *Schema) FieldIndex(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// FieldByRole 返回第一个具有指定角色的字段序号
func (s *Schema) FieldByRole(role FieldRole) int {
	for i, f := range s.Fields {
		if f.Role == role {
			return i
		}
	}
	return -1
}

// RequiredFields 新增时必填的字段
func (s *Schema) RequiredFields() []string {
	var out []string
	for _, f := range s.Fields {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

// Validate 检查结构定义是否自洽
func (s *Schema) Validate() error {
	if strings.TrimSpace(s.Key) == "" {
		return fmt.Errorf("部门缺少 key")
	}
	if strings.TrimSpace(s.TableID) == "" {
		return fmt.Errorf("部门 %s 缺少 table_id", s.Key)
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("部门 %s 未定义字段", s.Key)
	}
	seen := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			return fmt.Errorf("部门 %s 存在空字段名", s.Key)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("部门 %s 字段重复: %s", s.Key, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	if len(s.KeyFields) == 0 {
		return fmt.Errorf("部门 %s 未定义查找字段", s.Key)
	}
	for _, k := range s.KeyFields {
		if _, ok := seen[k]; !ok {
			return fmt.Errorf("部门 %s 查找字段不存在: %s", s.Key, k)
		}
	}
	if s.StatusColumn == "" {
		return fmt.Errorf("部门 %s 缺少状态列", s.Key)
	}
	if s.HeaderRows < 0 {
		return fmt.Errorf("部门 %s 表头行数非法: %d", s.Key, s.HeaderRows)
	}
	return nil
}
