package sheet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
)

// Workbook 本地 xlsx 后端：每个 tableID 对应数据目录下的一个工作簿
type Workbook struct {
	dir string
	mu  sync.Mutex
}

// NewWorkbook 创建 xlsx 后端
func NewWorkbook(dir string) (*Workbook, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create workbook directory: %w", err)
	}
	return &Workbook{dir: dir}, nil
}

// Path 返回 tableID 对应的文件路径
func (w *Workbook) Path(tableID string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, tableID)
	return filepath.Join(w.dir, name+".xlsx")
}

// EnsureTable 工作簿或 sheet 不存在时创建，并写入表头
func (w *Workbook) EnsureTable(tableID, sheetName string, header []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	path := w.Path(tableID)
	var f *excelize.File
	if _, err := os.Stat(path); err == nil {
		f, err = excelize.OpenFile(path)
		if err != nil {
			return wrap(OpEnsure, tableID, sheetName, err)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		f = excelize.NewFile()
		if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
			_ = f.Close()
			return wrap(OpEnsure, tableID, sheetName, err)
		}
	} else {
		return wrap(OpEnsure, tableID, sheetName, err)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(sheetName)
	if err != nil {
		return wrap(OpEnsure, tableID, sheetName, err)
	}
	if idx < 0 {
		if _, err := f.NewSheet(sheetName); err != nil {
			return wrap(OpEnsure, tableID, sheetName, err)
		}
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return wrap(OpEnsure, tableID, sheetName, err)
	}
	if len(rows) == 0 && len(header) > 0 {
		cells := make([]interface{}, len(header))
		for i, h := range header {
			cells[i] = h
		}
		if err := f.SetSheetRow(sheetName, "A1", &cells); err != nil {
			return wrap(OpEnsure, tableID, sheetName, err)
		}
	}
	return wrap(OpEnsure, tableID, sheetName, f.SaveAs(path))
}

// Get 读取区域
func (w *Workbook) Get(ctx context.Context, tableID, rng string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap(OpGet, tableID, rng, err)
	}
	r, err := ParseRange(rng)
	if err != nil {
		return nil, wrap(OpGet, tableID, rng, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := w.open(tableID)
	if err != nil {
		return nil, wrap(OpGet, tableID, rng, err)
	}
	defer f.Close()

	all, err := f.GetRows(r.Sheet)
	if err != nil {
		return nil, wrap(OpGet, tableID, rng, err)
	}
	return sliceGrid(all, r), nil
}

// Append 在区域最后一个非空行之后插入新行
func (w *Workbook) Append(ctx context.Context, tableID, rng string, rows [][]string) error {
	if err := ctx.Err(); err != nil {
		return wrap(OpAppend, tableID, rng, err)
	}
	r, err := ParseRange(rng)
	if err != nil {
		return wrap(OpAppend, tableID, rng, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := w.open(tableID)
	if err != nil {
		return wrap(OpAppend, tableID, rng, err)
	}
	defer f.Close()

	all, err := f.GetRows(r.Sheet)
	if err != nil {
		return wrap(OpAppend, tableID, rng, err)
	}

	rowNo := nextFreeRow(all, r)
	for _, row := range rows {
		if r.Width() > 0 && len(row) > r.Width() {
			return wrap(OpAppend, tableID, rng, fmt.Errorf("row has %d columns, exceeds range", len(row)))
		}
		if rowNo <= len(all) {
			if err := f.InsertRows(r.Sheet, rowNo, 1); err != nil {
				return wrap(OpAppend, tableID, rng, err)
			}
		}
		cell, err := excelize.CoordinatesToCellName(r.StartCol, rowNo)
		if err != nil {
			return wrap(OpAppend, tableID, rng, err)
		}
		cells := make([]interface{}, len(row))
		for i, v := range row {
			cells[i] = v
		}
		if err := f.SetSheetRow(r.Sheet, cell, &cells); err != nil {
			return wrap(OpAppend, tableID, rng, err)
		}
		rowNo++
	}
	return wrap(OpAppend, tableID, rng, f.Save())
}

// Update 覆盖单元格
func (w *Workbook) Update(ctx context.Context, tableID, cell, value string) error {
	if err := ctx.Err(); err != nil {
		return wrap(OpUpdate, tableID, cell, err)
	}
	r, err := ParseRange(cell)
	if err != nil {
		return wrap(OpUpdate, tableID, cell, err)
	}
	if !r.IsCell() {
		return wrap(OpUpdate, tableID, cell, fmt.Errorf("expected a single cell"))
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := w.open(tableID)
	if err != nil {
		return wrap(OpUpdate, tableID, cell, err)
	}
	defer f.Close()

	name, err := excelize.CoordinatesToCellName(r.StartCol, r.StartRow)
	if err != nil {
		return wrap(OpUpdate, tableID, cell, err)
	}
	if err := f.SetCellValue(r.Sheet, name, value); err != nil {
		return wrap(OpUpdate, tableID, cell, err)
	}
	return wrap(OpUpdate, tableID, cell, f.Save())
}

func (w *Workbook) open(tableID string) (*excelize.File, error) {
	path := w.Path(tableID)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	return excelize.OpenFile(path)
}
