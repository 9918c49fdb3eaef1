package decision

// CreditScore is (modifier / amount) * period.
func CreditScore(modifier int, amount int64, period int) float64 {
	return (float64(modifier) / float64(amount)) * float64(period)
}

// CheckCreditScore rejects scores below 1.
func CheckCreditScore(modifier int, amount int64, period int) error {
	if CreditScore(modifier, amount, period) < 1 {
		return ErrLowCreditScore
	}
	return nil
}
