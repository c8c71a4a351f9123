package model

import "time"

// MutationKind 写操作类型
type MutationKind string

const (
	MutationAppend MutationKind = "alta"   // 新增商品
	MutationStatus MutationKind = "estado" // 修改状态
)

// Mutation 写操作流水（仅用于追溯，表格仍是唯一数据源）
type Mutation struct {
	ID         string       `json:"id"`
	RequestID  string       `json:"requestId"`
	Department string       `json:"dpto"`
	Kind       MutationKind `json:"tipo"`
	Key        string       `json:"producto"`
	Value      string       `json:"valor"`
	Target     string       `json:"rango"`
	CreatedAt  time.Time    `json:"fecha"`
}
