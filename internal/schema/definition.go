package schema

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"productosapi/internal/model"
	"productosapi/internal/sheet"
)

// Definition 配置文件中的部门定义
//
// Kind 选择预置结构，其余非零字段覆盖预置值；Kind 为空时必须完整给出 Fields 等信息。
type Definition struct {
	Key           string        `toml:"key" yaml:"key"`
	Kind          string        `toml:"kind" yaml:"kind"`
	TableID       string        `toml:"table_id" yaml:"table_id"`
	Sheet         string        `toml:"sheet" yaml:"sheet"`
	ListRange     string        `toml:"list_range" yaml:"list_range"`
	AppendRange   string        `toml:"append_range" yaml:"append_range"`
	Fields        []model.Field `toml:"fields" yaml:"fields"`
	KeyFields     []string      `toml:"key_fields" yaml:"key_fields"`
	StatusColumn  string        `toml:"status_column" yaml:"status_column"`
	HeaderRows    *int          `toml:"header_rows" yaml:"header_rows"`
	Placeholder   *string       `toml:"placeholder" yaml:"placeholder"`
	InitialStatus string        `toml:"initial_status" yaml:"initial_status"`

	RedirectSortableDates *bool `toml:"redirect_sortable_dates" yaml:"redirect_sortable_dates"`
}

// Build 生成不可变的部门结构
func (d Definition) Build() (*model.Schema, error) {
	key := strings.TrimSpace(d.Key)
	tableID := strings.TrimSpace(d.TableID)

	var s *model.Schema
	if d.Kind != "" {
		preset, ok := Preset(model.SchemaKind(strings.ToLower(d.Kind)), key, tableID)
		if !ok {
			return nil, fmt.Errorf("部门 %s 类型未知: %s", key, d.Kind)
		}
		s = preset
	} else {
		s = &model.Schema{Key: key, TableID: tableID, Sheet: defaultSheet, HeaderRows: 1}
	}

	if d.Sheet != "" {
		s.Sheet = d.Sheet
	}
	if d.ListRange != "" {
		s.ListRange = d.ListRange
	}
	if d.AppendRange != "" {
		s.AppendRange = d.AppendRange
	}
	if len(d.Fields) > 0 {
		s.Fields = append([]model.Field(nil), d.Fields...)
	}
	if len(d.KeyFields) > 0 {
		s.KeyFields = append([]string(nil), d.KeyFields...)
	}
	if d.StatusColumn != "" {
		s.StatusColumn = strings.ToUpper(d.StatusColumn)
	}
	if d.HeaderRows != nil {
		s.HeaderRows = *d.HeaderRows
	}
	if d.Placeholder != nil {
		s.Placeholder = *d.Placeholder
	}
	if d.InitialStatus != "" {
		s.InitialStatus = d.InitialStatus
	}
	if d.RedirectSortableDates != nil {
		s.RedirectSortableDates = *d.RedirectSortableDates
	}

	if s.ListRange == "" || s.AppendRange == "" {
		return nil, fmt.Errorf("部门 %s 缺少读取/追加范围", key)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if err := checkRanges(s); err != nil {
		return nil, err
	}
	return s, nil
}

// checkRanges 范围必须可解析，列宽能容纳全部字段，读取区域紧接表头开始
func checkRanges(s *model.Schema) error {
	for _, a1 := range []string{s.ListA1(), s.AppendA1()} {
		r, err := sheet.ParseRange(a1)
		if err != nil {
			return fmt.Errorf("部门 %s 范围非法 %s: %w", s.Key, a1, err)
		}
		if w := r.Width(); w > 0 && w < len(s.Fields) {
			return fmt.Errorf("部门 %s 范围 %s 只有 %d 列，字段有 %d 个", s.Key, a1, w, len(s.Fields))
		}
	}

	list, _ := sheet.ParseRange(s.ListA1())
	if list.StartRow != s.HeaderRows+1 {
		return fmt.Errorf("部门 %s 读取范围 %s 应从第 %d 行开始（表头 %d 行）", s.Key, s.ListA1(), s.HeaderRows+1, s.HeaderRows)
	}
	return nil
}

type yamlRegistry struct {
	Default     string       `yaml:"default"`
	Departments []Definition `yaml:"departments"`
}

// LoadYAML 读取独立的 YAML 部门注册文件
func LoadYAML(path string) ([]Definition, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("读取部门文件失败: %w", err)
	}
	var raw yamlRegistry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, "", fmt.Errorf("解析部门文件失败: %w", err)
	}
	return raw.Departments, raw.Default, nil
}
