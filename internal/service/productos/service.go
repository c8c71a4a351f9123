// Package productos 实现商品的查询、新增与状态修改。
package productos

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"productosapi/internal/codec"
	"productosapi/internal/logging"
	"productosapi/internal/model"
	"productosapi/internal/parser"
	"productosapi/internal/sheet"
)

// Journal 写操作流水
type Journal interface {
	RecordMutation(ctx context.Context, m model.Mutation) error
}

// Service 商品服务
//
// 每个请求独立执行，表格后端是唯一数据源；失败即返回，不重试。
type Service struct {
	backend sheet.Backend
	codec   *codec.Codec
	journal Journal
	logger  *zap.Logger
	now     func() time.Time
}

// Option 服务选项
type Option func(*Service)

// WithJournal 启用写操作流水
func WithJournal(j Journal) Option {
	return func(s *Service) {
		s.journal = j
	}
}

// WithClock 注入时钟（测试用）
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService 创建商品服务
func NewService(backend sheet.Backend, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		backend: backend,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.codec = codec.New(s.now)
	return s
}

// List 读取部门全部商品
func (s *Service) List(ctx context.Context, dept *model.Schema) ([]model.Product, error) {
	rows, err := s.backend.Get(ctx, dept.TableID, dept.ListA1())
	if err != nil {
		return nil, err
	}
	return codec.DecodeAll(dept, rows), nil
}

// CreateResult 新增结果
type CreateResult struct {
	Product model.Product
	Date    parser.DateResult
	HasDate bool
}

// DateNormalized 可排序日期是否已写入；false 表示“已保存但无法排序”
func (r CreateResult) DateNormalized() bool {
	return !r.HasDate || r.Date.OK()
}

// Create 校验并追加一行；日期规范化失败不会中断写入
func (s *Service) Create(ctx context.Context, dept *model.Schema, in codec.Input) (CreateResult, error) {
	var res CreateResult

	enc, err := s.codec.Encode(dept, in)
	if err != nil {
		return res, err
	}
	log := logging.FromContext(ctx, s.logger).With(zap.String("dpto", dept.Key))
	if enc.HasDate && !enc.Date.OK() {
		log.Warn("fecha no normalizada, se guarda sin fecha ordenable",
			zap.String("fechaTexto", enc.Date.Input),
			zap.Error(enc.Date.Err),
		)
	}

	if err := s.backend.Append(ctx, dept.TableID, dept.AppendA1(), [][]string{enc.Row}); err != nil {
		return res, err
	}

	res.Product = codec.Decode(dept, enc.Row)
	res.Date = enc.Date
	res.HasDate = enc.HasDate

	s.record(ctx, model.Mutation{
		Department: dept.Key,
		Kind:       model.MutationAppend,
		Key:        primaryValue(dept, enc.Row),
		Value:      statusValue(dept, enc.Row),
		Target:     dept.AppendA1(),
	})
	log.Info("producto agregado", zap.String("producto", primaryValue(dept, enc.Row)))
	return res, nil
}

// SetStatus 读取 -> 定位 -> 单元格更新，严格按顺序执行
func (s *Service) SetStatus(ctx context.Context, dept *model.Schema, key, status string) (Target, error) {
	if strings.TrimSpace(key) == "" || strings.TrimSpace(status) == "" {
		return Target{}, &model.ValidationError{Field: "producto, estado", Message: "faltan datos"}
	}

	rows, err := s.backend.Get(ctx, dept.TableID, dept.ListA1())
	if err != nil {
		return Target{}, err
	}
	idx, err := FindRowIndex(rows, dept, key)
	if err != nil {
		return Target{}, err
	}

	target := StatusTarget(dept, idx)
	if err := s.backend.Update(ctx, target.TableID, target.Cell, status); err != nil {
		return Target{}, err
	}

	s.record(ctx, model.Mutation{
		Department: dept.Key,
		Kind:       model.MutationStatus,
		Key:        key,
		Value:      status,
		Target:     target.Cell,
	})
	logging.FromContext(ctx, s.logger).Info("estado actualizado",
		zap.String("dpto", dept.Key),
		zap.String("producto", key),
		zap.String("celda", target.Cell),
	)
	return target, nil
}

// record 写流水；失败只记日志
func (s *Service) record(ctx context.Context, m model.Mutation) {
	if s.journal == nil {
		return
	}
	m.ID = uuid.NewString()
	m.RequestID = logging.RequestID(ctx)
	m.CreatedAt = s.now().UTC()
	if err := s.journal.RecordMutation(ctx, m); err != nil {
		logging.FromContext(ctx, s.logger).Warn("no se pudo registrar el movimiento",
			zap.String("dpto", m.Department),
			zap.Error(err),
		)
	}
}

func primaryValue(dept *model.Schema, row []string) string {
	if len(dept.KeyFields) == 0 {
		return ""
	}
	if idx := dept.FieldIndex(dept.KeyFields[0]); idx >= 0 && idx < len(row) {
		return row[idx]
	}
	return ""
}

func statusValue(dept *model.Schema, row []string) string {
	if idx := dept.FieldByRole(model.RoleStatus); idx >= 0 && idx < len(row) {
		return row[idx]
	}
	return ""
}
