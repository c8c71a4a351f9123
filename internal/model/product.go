package model

import "errors"

// Product 商品记录：字段名 -> 文本值，形状由部门 Schema 决定
type Product map[string]string

// Get 读取字段，不存在时返回空串
func (p Product) Get(field string) string {
	return p[field]
}

var (
	// ErrInvalidInput 参数非法（未知部门、缺少必填字段等），不发生任何表格读写
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound 未找到目标记录
	ErrNotFound = errors.New("not found")
)

// ValidationError 字段校验错误
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Unwrap 使 errors.Is(err, ErrInvalidInput) 成立
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
