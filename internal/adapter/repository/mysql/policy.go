package mysql

import (
	"context"
	"errors"

	"loan-decision-engine/internal/domain/decision"

	"gorm.io/gorm"
)

type PolicyRepository struct{ db *gorm.DB }

func NewPolicyRepository(db *gorm.DB) *PolicyRepository { return &PolicyRepository{db: db} }

func (r *PolicyRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&decision.Policy{})
}

func (r *PolicyRepository) Create(ctx context.Context, p *decision.Policy) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PolicyRepository) GetByName(ctx context.Context, name string) (*decision.Policy, error) {
	var out decision.Policy
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, decision.ErrPolicyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
