package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"productosapi/internal/model"
)

func TestMutations_RecordAndList(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "productos.db")
	st, err := New(dbPath)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	ctx := context.Background()
	base := time.Date(2025, 7, 20, 10, 0, 0, 0, time.UTC)
	items := []model.Mutation{
		{ID: "m1", Department: "general", Kind: model.MutationAppend, Key: "Leche", Value: "EN GÓNDOLA", Target: "Hoja1!A:D", CreatedAt: base},
		{ID: "m2", Department: "deposito", Kind: model.MutationStatus, Key: "779123", Value: "VENCIDO", Target: "Hoja1!H3", CreatedAt: base.Add(time.Minute)},
		{ID: "m3", Department: "general", Kind: model.MutationStatus, Key: "Leche", Value: "VENDIDO", Target: "Hoja1!D2", CreatedAt: base.Add(2 * time.Minute), RequestID: "req-9"},
	}
	for _, m := range items {
		if err := st.RecordMutation(ctx, m); err != nil {
			t.Fatalf("record %s: %v", m.ID, err)
		}
	}

	got, err := st.ListMutations(ctx, MutationQuery{Department: "general"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("unexpected count: %d", len(got))
	}
	if got[0].ID != "m3" || got[1].ID != "m1" {
		t.Fatalf("unexpected order: %s, %s", got[0].ID, got[1].ID)
	}
	if got[0].Kind != model.MutationStatus || got[0].RequestID != "req-9" || got[0].Target != "Hoja1!D2" {
		t.Fatalf("unexpected row: %+v", got[0])
	}
	if !got[0].CreatedAt.Equal(base.Add(2 * time.Minute)) {
		t.Fatalf("unexpected created_at: %v", got[0].CreatedAt)
	}

	all, err := st.ListMutations(ctx, MutationQuery{Limit: 1})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 1 || all[0].ID != "m3" {
		t.Fatalf("unexpected limited list: %+v", all)
	}
}

func TestMutations_DuplicateIDFails(t *testing.T) {
	st, err := New(filepath.Join(t.TempDir(), "productos.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	m := model.Mutation{ID: "dup", Department: "general", Kind: model.MutationAppend}
	if err := st.RecordMutation(context.Background(), m); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if err := st.RecordMutation(context.Background(), m); err == nil {
		t.Fatalf("expected primary key violation")
	}
}
