package sheet

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrTableNotFound 表格不存在
var ErrTableNotFound = errors.New("table not found")

// Memory 内存表格后端（测试与演示用）
type Memory struct {
	tables   map[string]map[string][][]string
	calls    map[Op]int
	failures map[Op]error
	mu       sync.RWMutex
}

// NewMemory 创建内存后端
func NewMemory() *Memory {
	return &Memory{
		tables:   make(map[string]map[string][][]string),
		calls:    make(map[Op]int),
		failures: make(map[Op]error),
	}
}

// Seed 设置整张表内容（第 0 行即表格第 1 行，通常为表头）
func (m *Memory) Seed(tableID, sheetName string, rows [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tables[tableID]; !ok {
		m.tables[tableID] = make(map[string][][]string)
	}
	m.tables[tableID][sheetName] = cloneGrid(rows)
}

// Rows 返回整张表内容的副本
func (m *Memory) Rows(tableID, sheetName string) [][]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneGrid(m.tables[tableID][sheetName])
}

// Calls 返回某操作被调用的次数
func (m *Memory) Calls(op Op) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[op]
}

// TotalCalls 全部操作调用次数
func (m *Memory) TotalCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

// FailWith 让后续某操作返回 err；err 为 nil 时取消
func (m *Memory) FailWith(op Op, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

// Get 读取区域
func (m *Memory) Get(ctx context.Context, tableID, rng string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls[OpGet]++
	if err := m.check(ctx, OpGet); err != nil {
		return nil, wrap(OpGet, tableID, rng, err)
	}
	r, err := ParseRange(rng)
	if err != nil {
		return nil, wrap(OpGet, tableID, rng, err)
	}
	sheets, ok := m.tables[tableID]
	if !ok {
		return nil, wrap(OpGet, tableID, rng, ErrTableNotFound)
	}
	return sliceGrid(sheets[r.Sheet], r), nil
}

// Append 在区域最后一个非空行之后插入
func (m *Memory) Append(ctx context.Context, tableID, rng string, rows [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls[OpAppend]++
	if err := m.check(ctx, OpAppend); err != nil {
		return wrap(OpAppend, tableID, rng, err)
	}
	r, err := ParseRange(rng)
	if err != nil {
		return wrap(OpAppend, tableID, rng, err)
	}
	sheets, ok := m.tables[tableID]
	if !ok {
		return wrap(OpAppend, tableID, rng, ErrTableNotFound)
	}

	all := sheets[r.Sheet]
	rowNo := nextFreeRow(all, r)
	for _, row := range rows {
		if r.Width() > 0 && len(row) > r.Width() {
			return wrap(OpAppend, tableID, rng, fmt.Errorf("row has %d columns, exceeds range", len(row)))
		}
		// INSERT_ROWS：先插入空行再写入
		if rowNo <= len(all) {
			all = append(all[:rowNo-1], append([][]string{{}}, all[rowNo-1:]...)...)
		}
		for i, v := range row {
			all = setCell(all, r.StartCol+i, rowNo, v)
		}
		rowNo++
	}
	sheets[r.Sheet] = all
	return nil
}

// Update 覆盖单元格
func (m *Memory) Update(ctx context.Context, tableID, cell, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls[OpUpdate]++
	if err := m.check(ctx, OpUpdate); err != nil {
		return wrap(OpUpdate, tableID, cell, err)
	}
	r, err := ParseRange(cell)
	if err != nil {
		return wrap(OpUpdate, tableID, cell, err)
	}
	if !r.IsCell() {
		return wrap(OpUpdate, tableID, cell, fmt.Errorf("expected a single cell"))
	}
	sheets, ok := m.tables[tableID]
	if !ok {
		return wrap(OpUpdate, tableID, cell, ErrTableNotFound)
	}
	sheets[r.Sheet] = setCell(sheets[r.Sheet], r.StartCol, r.StartRow, value)
	return nil
}

func (m *Memory) check(ctx context.Context, op Op) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.failures[op]
}

func cloneGrid(rows [][]string) [][]string {
	if rows == nil {
		return nil
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}
