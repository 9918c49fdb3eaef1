package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	domain "loan-decision-engine/internal/domain/decision"
	"loan-decision-engine/internal/usecase/decision"
	"loan-decision-engine/pkg/logger"
)

const (
	msgInvalidBody      = "invalid body"
	msgValidationFailed = "validation failed"
	msgUnexpected       = "An unexpected error occurred"
)

type DecisionHandler struct{ uc *decision.Usecase }

func NewDecisionHandler(uc *decision.Usecase) *DecisionHandler { return &DecisionHandler{uc: uc} }

// decisionReq only checks presence; shape and range are checked by the engine.
type decisionReq struct {
	PersonalCode *string `json:"personalCode" validate:"required"`
	LoanAmount   *int64  `json:"loanAmount"   validate:"required"`
	LoanPeriod   *int    `json:"loanPeriod"   validate:"required"`
}

func (r decisionReq) input() decision.DecideInput {
	return decision.DecideInput{
		PersonalCode: *r.PersonalCode,
		LoanAmount:   *r.LoanAmount,
		LoanPeriod:   *r.LoanPeriod,
	}
}

// DecisionResponse carries either the approved loan or an error message;
// the other side is null.
type DecisionResponse struct {
	LoanAmount   *int64       `json:"loanAmount"`
	LoanPeriod   *int         `json:"loanPeriod"`
	ErrorMessage *string      `json:"errorMessage"`
	Details      []FieldError `json:"details,omitempty"`
}

func errorResponse(msg string, details ...FieldError) DecisionResponse {
	return DecisionResponse{ErrorMessage: &msg, Details: details}
}

func (h *DecisionHandler) Decide(c echo.Context) error {
	var req decisionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse(msgInvalidBody))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse(msgValidationFailed, ToFieldErrors(err)...))
	}

	ctx := c.Request().Context()
	dto, err := h.uc.Decide(ctx, req.input())
	if err != nil {
		code := statusFor(err)
		if code == http.StatusInternalServerError {
			logger.Log(ctx).Error(ctx, "decision failed", zap.Error(err))
			return c.JSON(code, errorResponse(msgUnexpected))
		}
		return c.JSON(code, errorResponse(err.Error()))
	}
	return c.JSON(http.StatusOK, DecisionResponse{LoanAmount: &dto.LoanAmount, LoanPeriod: &dto.LoanPeriod})
}

func (h *DecisionHandler) Policy(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.Policy())
}

// statusFor maps domain errors to HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidPersonalCode),
		errors.Is(err, domain.ErrInvalidLoanAmount),
		errors.Is(err, domain.ErrInvalidLoanPeriod):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotEligibleAge),
		errors.Is(err, domain.ErrLowCreditScore):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNoValidLoan):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
