package decision

type DecideInput struct {
	PersonalCode string `json:"personalCode"`
	LoanAmount   int64  `json:"loanAmount"`
	LoanPeriod   int    `json:"loanPeriod"`
}

type DecisionDTO struct {
	LoanAmount int64 `json:"loanAmount"`
	LoanPeriod int   `json:"loanPeriod"`
}
