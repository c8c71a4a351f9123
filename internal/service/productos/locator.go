package productos

import (
	"fmt"

	"productosapi/internal/model"
	"productosapi/internal/sheet"
)

// Target 状态更新的目标单元格
type Target struct {
	TableID string `json:"-"`
	Cell    string `json:"celda"`
	Row     int    `json:"fila"`
}

// FindRowIndex 在读取区域内查找第一条匹配记录，返回 0 起的序号
//
// 任一查找字段与 key 完全相等即命中；按行顺序取第一条。
func FindRowIndex(rows [][]string, s *model.Schema, key string) (int, error) {
	cols := make([]int, 0, len(s.KeyFields))
	for _, name := range s.KeyFields {
		if idx := s.FieldIndex(name); idx >= 0 {
			cols = append(cols, idx)
		}
	}

	for i, row := range rows {
		for _, c := range cols {
			if c < len(row) && row[c] == key {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("%w: producto %q", model.ErrNotFound, key)
}

// StatusTarget 把区域内序号换算为表格绝对行号：读取区域起始行 + 序号
func StatusTarget(s *model.Schema, index int) Target {
	start := s.HeaderRows + 1
	if s.ListRange != "" {
		if r, err := sheet.ParseRange(s.ListA1()); err == nil {
			start = r.StartRow
		}
	}
	row := start + index
	return Target{
		TableID: s.TableID,
		Cell:    sheet.CellA1(s.Sheet, s.StatusColumn, row),
		Row:     row,
	}
}
