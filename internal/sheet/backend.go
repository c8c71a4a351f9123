// Package sheet 封装表格后端：按区域读取、按区域追加、按单元格更新。
package sheet

import (
	"context"
	"errors"
	"fmt"
)

// Backend 表格后端
//
// 三个操作都可能因瞬时 I/O 失败；实现必须把错误包装成 *BackendError。
type Backend interface {
	// Get 读取区域内的值，缺失的尾部单元格可省略
	Get(ctx context.Context, tableID, rng string) ([][]string, error)
	// Append 在区域末尾插入新行
	Append(ctx context.Context, tableID, rng string, rows [][]string) error
	// Update 覆盖单个单元格
	Update(ctx context.Context, tableID, cell, value string) error
}

// Op 后端操作名
type Op string

const (
	OpGet    Op = "get"
	OpAppend Op = "append"
	OpUpdate Op = "update"
	OpAuth   Op = "auth"
	OpEnsure Op = "ensure"
)

// BackendError 后端错误（对外统一映射为 500）
type BackendError struct {
	Op      Op
	TableID string
	Range   string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("sheet %s %s %s: %v", e.Op, e.TableID, e.Range, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// IsBackendError 判断错误链中是否有后端错误
func IsBackendError(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}

func wrap(op Op, tableID, rng string, err error) error {
	if err == nil {
		return nil
	}
	var be *BackendError
	if errors.As(err, &be) {
		return err
	}
	return &BackendError{Op: op, TableID: tableID, Range: rng, Err: err}
}

// Kind 后端类型
type Kind string

const (
	KindGoogle   Kind = "google"
	KindWorkbook Kind = "xlsx"
	KindMemory   Kind = "memory"
)
