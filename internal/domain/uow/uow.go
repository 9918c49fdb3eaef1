package uow

import (
	"context"

	"loan-decision-engine/internal/domain/decision"
)

// Repos are bound to the transaction opened by WithinTx.
type Repos struct {
	Policies decision.PolicyRepository
}

type UnitOfWork interface {
	// commit when fn returns nil, roll back otherwise
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}
