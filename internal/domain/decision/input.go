package decision

// ValidateInputs is the gate that runs before any scoring: personal code
// first, then amount, then period.
func ValidateInputs(p Policy, personalCode string, amount int64, period int) error {
	if err := ValidatePersonalCode(personalCode); err != nil {
		return err
	}
	if amount < p.MinLoanAmount || amount > p.MaxLoanAmount {
		return ErrInvalidLoanAmount
	}
	if period < p.MinLoanPeriod || period > p.MaxLoanPeriod {
		return ErrInvalidLoanPeriod
	}
	return nil
}
