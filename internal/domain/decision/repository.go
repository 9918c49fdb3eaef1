package decision

import "context"

type PolicyRepository interface {
	// GetByName returns ErrPolicyNotFound when no row matches.
	GetByName(ctx context.Context, name string) (*Policy, error)
	Create(ctx context.Context, p *Policy) error
}
