package mysql

import (
	"context"
	"errors"
	"testing"

	"loan-decision-engine/internal/domain/decision"
	"loan-decision-engine/internal/domain/uow"
)

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	if err := NewPolicyRepository(db).Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	guow := NewGormUoW(db)
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		p := decision.DefaultPolicy()
		p.Name = "committed"
		return r.Policies.Create(ctx, &p)
	})
	if err != nil {
		t.Fatalf("WithinTx commit err: %v", err)
	}

	if _, err := NewPolicyRepository(db).GetByName(ctx, "committed"); err != nil {
		t.Fatalf("policy not visible after commit: %v", err)
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	if err := NewPolicyRepository(db).Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	sentinel := errors.New("boom")
	err := NewGormUoW(db).WithinTx(ctx, func(r uow.Repos) error {
		p := decision.DefaultPolicy()
		p.Name = "rolled-back"
		if err := r.Policies.Create(ctx, &p); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("WithinTx err = %v, want sentinel", err)
	}

	if _, err := NewPolicyRepository(db).GetByName(ctx, "rolled-back"); !errors.Is(err, decision.ErrPolicyNotFound) {
		t.Fatalf("expected policy absent after rollback, got %v", err)
	}
}
