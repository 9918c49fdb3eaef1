package decision

// FindLoan searches for the shortest period, starting at the requested one,
// whose highest obtainable amount reaches MinLoanAmount, and returns that
// amount capped at MaxLoanAmount. The search stops at MaxLoanPeriod.
func (p Policy) FindLoan(modifier int, period int) (Decision, error) {
	if modifier <= 0 {
		return Decision{}, ErrNoValidLoan
	}
	for ; period <= p.MaxLoanPeriod; period++ {
		highest := maxLoanForPeriod(modifier, period)
		if highest < p.MinLoanAmount {
			continue
		}
		return Decision{
			LoanAmount: min(p.MaxLoanAmount, highest),
			LoanPeriod: period,
		}, nil
	}
	return Decision{}, ErrNoValidLoan
}

func maxLoanForPeriod(modifier, period int) int64 {
	return int64(modifier) * int64(period)
}
