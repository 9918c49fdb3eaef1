package decision

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	domain "loan-decision-engine/internal/domain/decision"
	"loan-decision-engine/internal/domain/uow"
	"loan-decision-engine/pkg/logger"
)

// LoadPolicy reads the named policy. A missing row is created from seed in
// the same transaction, so the next start reads the same values back.
func LoadPolicy(ctx context.Context, u uow.UnitOfWork, name string, seed domain.Policy) (domain.Policy, error) {
	log := logger.Log(ctx)

	var out domain.Policy
	err := u.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.Policies.GetByName(ctx, name)
		switch {
		case err == nil:
			log.Info(ctx, "decision policy loaded", zap.String("policy", name))
		case errors.Is(err, domain.ErrPolicyNotFound):
			if err := seed.Validate(); err != nil {
				return err
			}
			seed.Name = name
			if err := r.Policies.Create(ctx, &seed); err != nil {
				return fmt.Errorf("seed policy %q: %w", name, err)
			}
			log.Warn(ctx, "decision policy not found, seeded from defaults", zap.String("policy", name))
			p = &seed
		default:
			return fmt.Errorf("load policy %q: %w", name, err)
		}

		if err := p.Validate(); err != nil {
			return fmt.Errorf("policy %q: %w", name, err)
		}
		out = *p
		return nil
	})
	if err != nil {
		return domain.Policy{}, err
	}
	return out, nil
}
