package decision

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidPersonalCode = errors.New("Invalid personal ID code!")
	ErrInvalidLoanAmount   = errors.New("Invalid loan amount!")
	ErrInvalidLoanPeriod   = errors.New("Invalid loan period!")
	ErrNotEligibleAge      = errors.New("Not eligible for a loan due to age!")
	ErrLowCreditScore      = errors.New("Loan application is denied due to low credit score.")
	ErrNoValidLoan         = errors.New("No valid loan found!")
	ErrInvalidPolicy       = errors.New("invalid decision policy")
	ErrPolicyNotFound      = errors.New("decision policy not found")
)

// Policy holds the bounds and segment modifiers the engine decides against.
// It is loaded once at startup and treated as read-only afterwards.
type Policy struct {
	ID               uint64    `gorm:"primaryKey;column:id" json:"-"`
	Name             string    `gorm:"size:64;uniqueIndex:ux_decision_policies_name" json:"name"`
	MinLoanAmount    int64     `gorm:"column:min_loan_amount" json:"minLoanAmount"`
	MaxLoanAmount    int64     `gorm:"column:max_loan_amount" json:"maxLoanAmount"`
	MinLoanPeriod    int       `gorm:"column:min_loan_period" json:"minLoanPeriod"`
	MaxLoanPeriod    int       `gorm:"column:max_loan_period" json:"maxLoanPeriod"`
	MinAge           int       `gorm:"column:min_age" json:"minAge"`
	MaxAge           int       `gorm:"column:max_age" json:"maxAge"`
	Segment1Modifier int       `gorm:"column:segment1_modifier" json:"segment1Modifier"`
	Segment2Modifier int       `gorm:"column:segment2_modifier" json:"segment2Modifier"`
	Segment3Modifier int       `gorm:"column:segment3_modifier" json:"segment3Modifier"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Policy) TableName() string { return "decision_policies" }

const DefaultPolicyName = "default"

// DefaultPolicy returns the stock bounds used when nothing else is configured.
func DefaultPolicy() Policy {
	return Policy{
		Name:             DefaultPolicyName,
		MinLoanAmount:    2000,
		MaxLoanAmount:    10000,
		MinLoanPeriod:    12,
		MaxLoanPeriod:    60,
		MinAge:           18,
		MaxAge:           80,
		Segment1Modifier: 100,
		Segment2Modifier: 300,
		Segment3Modifier: 1000,
	}
}

func (p Policy) Validate() error {
	switch {
	case p.MinLoanAmount <= 0 || p.MaxLoanAmount < p.MinLoanAmount:
		return fmt.Errorf("%w: loan amount bounds [%d, %d]", ErrInvalidPolicy, p.MinLoanAmount, p.MaxLoanAmount)
	case p.MinLoanPeriod <= 0 || p.MaxLoanPeriod < p.MinLoanPeriod:
		return fmt.Errorf("%w: loan period bounds [%d, %d]", ErrInvalidPolicy, p.MinLoanPeriod, p.MaxLoanPeriod)
	case p.MinAge < 0 || p.MaxAge < p.MinAge:
		return fmt.Errorf("%w: age bounds [%d, %d]", ErrInvalidPolicy, p.MinAge, p.MaxAge)
	case p.Segment1Modifier < 0 || p.Segment2Modifier < 0 || p.Segment3Modifier < 0:
		return fmt.Errorf("%w: negative segment modifier", ErrInvalidPolicy)
	}
	return nil
}

// Decision is the approved loan. It is only produced on success.
type Decision struct {
	LoanAmount int64
	LoanPeriod int
}
