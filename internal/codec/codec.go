// Package codec 在表格原始行与商品记录之间转换。
package codec

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"productosapi/internal/model"
	"productosapi/internal/parser"
)

// Input 新增请求体（JSON 解码后的字段）
type Input map[string]any

// Encoded 编码结果
type Encoded struct {
	Row []string

	// Date 仅对同时有文本日期与可排序日期列的部门有意义
	Date       parser.DateResult
	HasDate    bool
	Redirected bool
}

// Codec 行编解码器
type Codec struct {
	dates *parser.DateNormalizer
	now   func() time.Time
}

// New 创建编解码器；now 为 nil 时使用 time.Now
func New(now func() time.Time) *Codec {
	if now == nil {
		now = time.Now
	}
	return &Codec{
		dates: parser.NewDateNormalizer(now),
		now:   now,
	}
}

// Decode 按列顺序把原始行映射为记录，空单元格替换为部门占位符
func Decode(s *model.Schema, row []string) model.Product {
	p := make(model.Product, len(s.Fields))
	for i, f := range s.Fields {
		v := ""
		if i < len(row) {
			v = row[i]
		}
		if strings.TrimSpace(v) == "" {
			v = s.Placeholder
		}
		p[f.Name] = v
	}
	return p
}

// DecodeAll 解码整个区域
func DecodeAll(s *model.Schema, rows [][]string) []model.Product {
	out := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, Decode(s, row))
	}
	return out
}

// Validate 校验必填字段
func Validate(s *model.Schema, in Input) error {
	var missing []string
	for _, name := range s.RequiredFields() {
		v, err := textValue(in[name])
		if err != nil {
			return &model.ValidationError{Field: name, Message: err.Error()}
		}
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &model.ValidationError{
			Field:   strings.Join(missing, ", "),
			Message: "faltan datos obligatorios",
		}
	}
	return nil
}

// Encode 校验并生成待追加的原始行，缺省字段按部门规则补齐
func (c *Codec) Encode(s *model.Schema, in Input) (Encoded, error) {
	var enc Encoded
	if err := Validate(s, in); err != nil {
		return enc, err
	}

	row := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		raw, present := in[f.Name]
		switch f.Role {
		case model.RoleFlag:
			v, err := parseFlag(raw)
			if err != nil {
				return enc, &model.ValidationError{Field: f.Name, Message: err.Error()}
			}
			row[i] = v
			continue
		case model.RoleStatus:
			v, err := textValue(raw)
			if err != nil {
				return enc, &model.ValidationError{Field: f.Name, Message: err.Error()}
			}
			if strings.TrimSpace(v) == "" {
				v = s.InitialStatus
			}
			row[i] = v
			continue
		case model.RoleTimestamp:
			v, err := textValue(raw)
			if err != nil {
				return enc, &model.ValidationError{Field: f.Name, Message: err.Error()}
			}
			if !present || strings.TrimSpace(v) == "" {
				v = c.now().UTC().Format(time.RFC3339)
			}
			row[i] = v
			continue
		}
		v, err := textValue(raw)
		if err != nil {
			return enc, &model.ValidationError{Field: f.Name, Message: err.Error()}
		}
		row[i] = v
	}

	c.applyDates(s, row, &enc)
	enc.Row = row
	return enc, nil
}

func (c *Codec) applyDates(s *model.Schema, row []string, enc *Encoded) {
	textIdx := s.FieldByRole(model.RoleDateText)
	sortIdx := s.FieldByRole(model.RoleDateSortable)
	if textIdx < 0 || sortIdx < 0 {
		return
	}
	enc.HasDate = true

	text := strings.TrimSpace(row[textIdx])
	if s.RedirectSortableDates && parser.IsSortableDate(text) {
		row[sortIdx] = text
		row[textIdx] = ""
		enc.Redirected = true
		enc.Date = parser.DateResult{Input: text, Value: text}
		return
	}

	if given := strings.TrimSpace(row[sortIdx]); given != "" {
		enc.Date = parser.DateResult{Input: text, Value: given}
		return
	}

	res := c.dates.Normalize(text, 0)
	if res.OK() {
		row[sortIdx] = res.Value
	}
	enc.Date = res
}

func parseFlag(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "FALSE", nil
	case bool:
		if x {
			return "TRUE", nil
		}
		return "FALSE", nil
	case string:
		switch strings.ToUpper(strings.TrimSpace(x)) {
		case "TRUE":
			return "TRUE", nil
		case "FALSE", "":
			return "FALSE", nil
		}
	}
	return "", fmt.Errorf("valor no booleano: %v", v)
}

// textValue 标量转文本；对象和数组不能写入单元格
func textValue(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case json.Number:
		return x.String(), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	default:
		return "", fmt.Errorf("valor no escalar: %T", v)
	}
}
