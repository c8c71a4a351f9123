package schema

import (
	"fmt"
	"sort"
	"strings"

	"productosapi/internal/model"
)

// ErrUnknownDepartment 部门不存在；属于 ErrInvalidInput
var ErrUnknownDepartment = fmt.Errorf("%w: departamento desconocido", model.ErrInvalidInput)

// ErrMissingDepartment 未提供部门且未配置默认部门
var ErrMissingDepartment = fmt.Errorf("%w: falta dpto", model.ErrInvalidInput)

// Registry 部门注册表
//
// 启动时构建一次，之后只读；并发安全。
type Registry struct {
	byKey      map[string]*model.Schema
	keys       []string
	defaultKey string
}

// NewRegistry 由结构列表构建注册表；defaultKey 为空表示请求必须携带 dpto
func NewRegistry(schemas []*model.Schema, defaultKey string) (*Registry, error) {
	r := &Registry{
		byKey: make(map[string]*model.Schema, len(schemas)),
	}
	for _, s := range schemas {
		if s == nil {
			continue
		}
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byKey[s.Key]; dup {
			return nil, fmt.Errorf("部门重复: %s", s.Key)
		}
		r.byKey[s.Key] = s
		r.keys = append(r.keys, s.Key)
	}
	if len(r.byKey) == 0 {
		return nil, fmt.Errorf("未配置任何部门")
	}
	sort.Strings(r.keys)

	defaultKey = strings.TrimSpace(defaultKey)
	if defaultKey != "" {
		if _, ok := r.byKey[defaultKey]; !ok {
			return nil, fmt.Errorf("默认部门不存在: %s", defaultKey)
		}
	}
	r.defaultKey = defaultKey
	return r, nil
}

// FromDefinitions 由配置定义构建注册表
func FromDefinitions(defs []Definition, defaultKey string) (*Registry, error) {
	schemas := make([]*model.Schema, 0, len(defs))
	for i, d := range defs {
		s, err := d.Build()
		if err != nil {
			return nil, fmt.Errorf("departments[%d]: %w", i, err)
		}
		schemas = append(schemas, s)
	}
	return NewRegistry(schemas, defaultKey)
}

// Resolve 纯查表，不做任何 I/O
func (r *Registry) Resolve(key string) (*model.Schema, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		if s, ok := r.Default(); ok {
			return s, nil
		}
		return nil, ErrMissingDepartment
	}
	s, ok := r.byKey[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDepartment, key)
	}
	return s, nil
}

// Default 默认部门（可能未配置）
func (r *Registry) Default() (*model.Schema, bool) {
	if r.defaultKey == "" {
		return nil, false
	}
	return r.byKey[r.defaultKey], true
}

// DefaultKey 默认部门 key
func (r *Registry) DefaultKey() string {
	return r.defaultKey
}

// Keys 已排序的部门 key
func (r *Registry) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// All 按 key 排序返回全部结构
func (r *Registry) All() []*model.Schema {
	out := make([]*model.Schema, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, r.byKey[k])
	}
	return out
}

// Len 部门数量
func (r *Registry) Len() int {
	return len(r.byKey)
}
