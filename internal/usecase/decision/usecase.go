package decision

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	domain "loan-decision-engine/internal/domain/decision"
	"loan-decision-engine/pkg/logger"
)

const (
	OutcomeApproved            = "approved"
	OutcomeInvalidPersonalCode = "invalid_personal_code"
	OutcomeInvalidLoanAmount   = "invalid_loan_amount"
	OutcomeInvalidLoanPeriod   = "invalid_loan_period"
	OutcomeNotEligibleAge      = "not_eligible_age"
	OutcomeLowCreditScore      = "low_credit_score"
	OutcomeNoValidLoan         = "no_valid_loan"
	OutcomeError               = "error"
)

// Recorder receives one observation per Decide call.
type Recorder interface {
	ObserveDecision(outcome string, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveDecision(string, time.Duration) {}

// Usecase computes loan decisions against a fixed policy. It holds no
// per-request state and is safe for concurrent use.
type Usecase struct {
	policy   domain.Policy
	now      func() time.Time
	recorder Recorder
}

type Option func(*Usecase)

// WithClock replaces time.Now as the source of the current date.
func WithClock(now func() time.Time) Option {
	return func(u *Usecase) { u.now = now }
}

func WithRecorder(r Recorder) Option {
	return func(u *Usecase) { u.recorder = r }
}

func NewUsecase(p domain.Policy, opts ...Option) *Usecase {
	u := &Usecase{policy: p, now: time.Now, recorder: nopRecorder{}}
	for _, o := range opts {
		o(u)
	}
	return u
}

func (u *Usecase) Policy() domain.Policy { return u.policy }

// Decide runs the stages in order and stops at the first failure:
// inputs, age, credit modifier, credit score, loan search.
func (u *Usecase) Decide(ctx context.Context, in DecideInput) (*DecisionDTO, error) {
	start := time.Now()
	dto, err := u.decide(ctx, in)
	outcome := Outcome(err)
	u.recorder.ObserveDecision(outcome, time.Since(start))

	log := logger.Log(ctx)
	fields := []zap.Field{
		zap.String("outcome", outcome),
		zap.Int64("requested_amount", in.LoanAmount),
		zap.Int("requested_period", in.LoanPeriod),
	}
	if err != nil {
		log.Info(ctx, "loan decision rejected", append(fields, zap.Error(err))...)
		return nil, err
	}
	log.Info(ctx, "loan decision approved", append(fields,
		zap.Int64("approved_amount", dto.LoanAmount),
		zap.Int("approved_period", dto.LoanPeriod))...)
	return dto, nil
}

func (u *Usecase) decide(ctx context.Context, in DecideInput) (*DecisionDTO, error) {
	p := u.policy
	if err := domain.ValidateInputs(p, in.PersonalCode, in.LoanAmount, in.LoanPeriod); err != nil {
		return nil, err
	}
	pc, err := domain.ParsePersonalCode(in.PersonalCode)
	if err != nil {
		return nil, err
	}
	if !p.AgeEligible(pc.Age(u.now())) {
		return nil, domain.ErrNotEligibleAge
	}

	modifier := p.CreditModifier(pc.Segment)
	logger.Log(ctx).Debug(ctx, "credit modifier resolved", zap.Int("modifier", modifier))
	if modifier == 0 {
		return nil, domain.ErrNoValidLoan
	}
	if err := domain.CheckCreditScore(modifier, in.LoanAmount, in.LoanPeriod); err != nil {
		return nil, err
	}

	d, err := p.FindLoan(modifier, in.LoanPeriod)
	if err != nil {
		return nil, err
	}
	return &DecisionDTO{LoanAmount: d.LoanAmount, LoanPeriod: d.LoanPeriod}, nil
}

// Outcome labels err for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeApproved
	case errors.Is(err, domain.ErrInvalidPersonalCode):
		return OutcomeInvalidPersonalCode
	case errors.Is(err, domain.ErrInvalidLoanAmount):
		return OutcomeInvalidLoanAmount
	case errors.Is(err, domain.ErrInvalidLoanPeriod):
		return OutcomeInvalidLoanPeriod
	case errors.Is(err, domain.ErrNotEligibleAge):
		return OutcomeNotEligibleAge
	case errors.Is(err, domain.ErrLowCreditScore):
		return OutcomeLowCreditScore
	case errors.Is(err, domain.ErrNoValidLoan):
		return OutcomeNoValidLoan
	}
	return OutcomeError
}
