package store

import (
	"context"
	"fmt"
	"time"

	"productosapi/internal/model"
)

const maxMutationLimit = 500

// RecordMutation 写入一条写操作流水
func (s *Store) RecordMutation(ctx context.Context, m model.Mutation) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO mutations (id, request_id, department, kind, item_key, value, target, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.RequestID, m.Department, string(m.Kind), m.Key, m.Value, m.Target, m.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert mutation: %w", err)
	}
	return nil
}

// MutationQuery 流水查询选项
type MutationQuery struct {
	Department string
	Limit      int
}

// ListMutations 按时间倒序列出流水
func (s *Store) ListMutations(ctx context.Context, q MutationQuery) ([]model.Mutation, error) {
	query := "SELECT id, request_id, department, kind, item_key, value, target, created_at FROM mutations WHERE 1=1"
	args := []interface{}{}

	if q.Department != "" {
		query += " AND department = ?"
		args = append(args, q.Department)
	}

	limit := q.Limit
	if limit <= 0 || limit > maxMutationLimit {
		limit = maxMutationLimit
	}
	query += " ORDER BY created_at DESC, rowid DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query mutations failed: %w", err)
	}
	defer rows.Close()

	out := make([]model.Mutation, 0)
	for rows.Next() {
		var m model.Mutation
		var kind string
		if err := rows.Scan(&m.ID, &m.RequestID, &m.Department, &kind, &m.Key, &m.Value, &m.Target, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan mutation failed: %w", err)
		}
		m.Kind = model.MutationKind(kind)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mutations failed: %w", err)
	}
	return out, nil
}
