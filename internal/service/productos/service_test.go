package productos

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"productosapi/internal/codec"
	"productosapi/internal/logging"
	"productosapi/internal/model"
	"productosapi/internal/schema"
	"productosapi/internal/sheet"
)

func TestMain(m *testing.M) {
	// google.golang.org/api 的依赖在 init 时启动 opencensus worker
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

var fixedNow = func() time.Time {
	return time.Date(2025, time.July, 20, 15, 4, 5, 0, time.UTC)
}

type memJournal struct {
	mu    sync.Mutex
	items []model.Mutation
	err   error
}

func (j *memJournal) RecordMutation(_ context.Context, m model.Mutation) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return j.err
	}
	j.items = append(j.items, m)
	return nil
}

func shortFixture() (*sheet.Memory, *model.Schema) {
	mem := sheet.NewMemory()
	mem.Seed("t1", "Hoja1", [][]string{
		{"producto", "fechaTexto", "fechaOrdenable", "estado"},
		{"Leche", "25 de julio", "25/07/2025", "EN GÓNDOLA"},
		{"Pan", "", "", "EN GÓNDOLA"},
	})
	return mem, schema.ShortSchema("general", "t1")
}

func TestFindRowIndex(t *testing.T) {
	t.Parallel()

	s := &model.Schema{
		Sheet:        "Hoja1",
		Fields:       []model.Field{{Name: "k"}, {Name: "v"}},
		KeyFields:    []string{"k"},
		StatusColumn: "D",
		HeaderRows:   1,
	}
	rows := [][]string{{"A", "x"}, {"B", "y"}}

	idx, err := FindRowIndex(rows, s, "B")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	target := StatusTarget(s, idx)
	assert.Equal(t, 3, target.Row)
	assert.Equal(t, "Hoja1!D3", target.Cell)

	_, err = FindRowIndex(rows, s, "b")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestFindRowIndex_ExtendedMatchesCodeOrDescription(t *testing.T) {
	t.Parallel()

	s := schema.ExtendedSchema("deposito", "t2")
	rows := [][]string{
		{"Arroz", "111"},
		{"Fideos", "222"},
		{"222", "333"},
	}

	idx, err := FindRowIndex(rows, s, "222")
	require.NoError(t, err)
	assert.Equal(t, 1, idx, "first matching row wins")

	idx, err = FindRowIndex(rows, s, "Arroz")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	assert.Equal(t, "Hoja1!H4", StatusTarget(s, 2).Cell)
}

func TestService_List(t *testing.T) {
	mem, dept := shortFixture()
	svc := NewService(mem, zap.NewNop())

	items, err := svc.List(context.Background(), dept)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Leche", items[0]["producto"])
	assert.Equal(t, "", items[1]["fechaTexto"])
	assert.Equal(t, 1, mem.Calls(sheet.OpGet))
}

func TestService_CreateRecordsJournal(t *testing.T) {
	mem, dept := shortFixture()
	j := &memJournal{}
	svc := NewService(mem, zap.NewNop(), WithJournal(j), WithClock(fixedNow))

	ctx := logging.WithRequestID(context.Background(), "req-1")
	res, err := svc.Create(ctx, dept, codec.Input{"producto": "Queso", "fechaTexto": "1 de agosto"})
	require.NoError(t, err)
	assert.True(t, res.DateNormalized())
	assert.Equal(t, "01/08/2025", res.Product["fechaOrdenable"])

	all := mem.Rows("t1", "Hoja1")
	assert.Equal(t, []string{"Queso", "1 de agosto", "01/08/2025", "EN GÓNDOLA"}, all[3])
	assert.Equal(t, 1, mem.Calls(sheet.OpAppend))

	require.Len(t, j.items, 1)
	assert.Equal(t, model.MutationAppend, j.items[0].Kind)
	assert.Equal(t, "Queso", j.items[0].Key)
	assert.Equal(t, "req-1", j.items[0].RequestID)
	assert.NotEmpty(t, j.items[0].ID)
}

func TestService_CreateUnsortableDateIsLogged(t *testing.T) {
	mem, dept := shortFixture()
	core, logs := observer.New(zap.WarnLevel)
	svc := NewService(mem, zap.New(core), WithClock(fixedNow))

	res, err := svc.Create(context.Background(), dept, codec.Input{"producto": "Queso", "fechaTexto": "10 de miercoles"})
	require.NoError(t, err)
	assert.False(t, res.DateNormalized())
	assert.Equal(t, 1, mem.Calls(sheet.OpAppend))
	assert.Equal(t, 1, logs.Len())
}

func TestService_CreateMissingFieldNoBackendCalls(t *testing.T) {
	mem := sheet.NewMemory()
	dept := schema.ExtendedSchema("deposito", "t2")
	svc := NewService(mem, zap.NewNop())

	_, err := svc.Create(context.Background(), dept, codec.Input{"descripcion": "Arroz", "codigo": "1"})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	assert.Equal(t, 0, mem.TotalCalls())
}

func TestService_SetStatus(t *testing.T) {
	mem, dept := shortFixture()
	j := &memJournal{}
	svc := NewService(mem, zap.NewNop(), WithJournal(j))
	ctx := context.Background()

	target, err := svc.SetStatus(ctx, dept, "Pan", "VENCIDO")
	require.NoError(t, err)
	assert.Equal(t, "Hoja1!D3", target.Cell)
	assert.Equal(t, "VENCIDO", mem.Rows("t1", "Hoja1")[2][3])

	// 幂等：重复请求结果相同
	again, err := svc.SetStatus(ctx, dept, "Pan", "VENCIDO")
	require.NoError(t, err)
	assert.Equal(t, target, again)
	assert.Equal(t, "VENCIDO", mem.Rows("t1", "Hoja1")[2][3])
	assert.Len(t, j.items, 2)
}

func TestService_SetStatusWithTwoHeaderRows(t *testing.T) {
	headerRows := 2
	dept, err := schema.Definition{
		Key:        "fiambreria",
		Kind:       "corta",
		TableID:    "t3",
		ListRange:  "A3:D",
		HeaderRows: &headerRows,
	}.Build()
	require.NoError(t, err)

	mem := sheet.NewMemory()
	mem.Seed("t3", "Hoja1", [][]string{
		{"Fiambrería"},
		{"producto", "fechaTexto", "fechaOrdenable", "estado"},
		{"Leche", "", "", "EN GÓNDOLA"},
		{"Pan", "", "", "EN GÓNDOLA"},
	})
	svc := NewService(mem, zap.NewNop())

	target, err := svc.SetStatus(context.Background(), dept, "Pan", "VENDIDO")
	require.NoError(t, err)
	assert.Equal(t, "Hoja1!D4", target.Cell)

	all := mem.Rows("t3", "Hoja1")
	assert.Equal(t, "EN GÓNDOLA", all[2][3])
	assert.Equal(t, "VENDIDO", all[3][3])
}

func TestStatusTarget_FollowsListRangeStart(t *testing.T) {
	t.Parallel()

	s := schema.ShortSchema("general", "t1")
	s.ListRange = "A3:D"

	target := StatusTarget(s, 1)
	assert.Equal(t, 4, target.Row)
	assert.Equal(t, "Hoja1!D4", target.Cell)
}

func TestService_SetStatusMatchesKeyExactly(t *testing.T) {
	mem := sheet.NewMemory()
	mem.Seed("t1", "Hoja1", [][]string{
		{"producto", "fechaTexto", "fechaOrdenable", "estado"},
		{"Leche", "", "", "EN GÓNDOLA"},
		{"Leche ", "", "", "EN GÓNDOLA"},
	})
	dept := schema.ShortSchema("general", "t1")
	svc := NewService(mem, zap.NewNop())

	target, err := svc.SetStatus(context.Background(), dept, "Leche ", "VENDIDO")
	require.NoError(t, err)
	assert.Equal(t, "Hoja1!D3", target.Cell)
	assert.Equal(t, "EN GÓNDOLA", mem.Rows("t1", "Hoja1")[1][3])
}

func TestService_SetStatusNotFoundDoesNotWrite(t *testing.T) {
	mem, dept := shortFixture()
	svc := NewService(mem, zap.NewNop())

	_, err := svc.SetStatus(context.Background(), dept, "Yerba", "VENCIDO")
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Equal(t, 1, mem.Calls(sheet.OpGet))
	assert.Equal(t, 0, mem.Calls(sheet.OpUpdate))
}

func TestService_SetStatusMissingData(t *testing.T) {
	mem, dept := shortFixture()
	svc := NewService(mem, zap.NewNop())

	_, err := svc.SetStatus(context.Background(), dept, "Pan", "")
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	assert.Equal(t, 0, mem.TotalCalls())
}

func TestService_BackendErrorsSurface(t *testing.T) {
	mem, dept := shortFixture()
	svc := NewService(mem, zap.NewNop())
	boom := errors.New("quota exceeded")

	mem.FailWith(sheet.OpGet, boom)
	_, err := svc.List(context.Background(), dept)
	assert.True(t, sheet.IsBackendError(err))

	_, err = svc.SetStatus(context.Background(), dept, "Pan", "VENCIDO")
	assert.True(t, sheet.IsBackendError(err))
	assert.Equal(t, 0, mem.Calls(sheet.OpUpdate))

	mem.FailWith(sheet.OpGet, nil)
	mem.FailWith(sheet.OpUpdate, boom)
	_, err = svc.SetStatus(context.Background(), dept, "Pan", "VENCIDO")
	assert.ErrorIs(t, err, boom)
}

func TestService_JournalFailureDoesNotFailRequest(t *testing.T) {
	mem, dept := shortFixture()
	svc := NewService(mem, zap.NewNop(), WithJournal(&memJournal{err: errors.New("disk full")}))

	_, err := svc.SetStatus(context.Background(), dept, "Leche", "VENDIDO")
	assert.NoError(t, err)
}
