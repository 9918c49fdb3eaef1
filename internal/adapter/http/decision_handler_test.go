package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	domain "loan-decision-engine/internal/domain/decision"
	"loan-decision-engine/internal/infrastructure/metrics"
	uc "loan-decision-engine/internal/usecase/decision"
	"loan-decision-engine/pkg/logger"
)

// -------- helpers --------

var fixedNow = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func newDecisionHandler() *DecisionHandler {
	return NewDecisionHandler(uc.NewUsecase(domain.DefaultPolicy(), uc.WithClock(func() time.Time { return fixedNow })))
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func postDecision(t *testing.T, h *DecisionHandler, body any) (*httptest.ResponseRecorder, DecisionResponse) {
	t.Helper()
	e := newEchoWithValidator()
	req := httptest.NewRequest(stdhttp.MethodPost, "/loan/decision", mustJSON(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Decide(c); err != nil {
		t.Fatalf("Decide error: %v", err)
	}
	var got DecisionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v; raw=%s", err, rec.Body.String())
	}
	return rec, got
}

// -------- tests --------

func TestDecide_Success(t *testing.T) {
	rec, got := postDecision(t, newDecisionHandler(), map[string]any{
		"personalCode": "35006069515",
		"loanAmount":   4000,
		"loanPeriod":   12,
	})
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got.LoanAmount == nil || *got.LoanAmount != 10000 || got.LoanPeriod == nil || *got.LoanPeriod != 12 {
		t.Fatalf("unexpected response: %s", rec.Body.String())
	}
	if got.ErrorMessage != nil {
		t.Fatalf("errorMessage = %q, want null", *got.ErrorMessage)
	}
	if !strings.Contains(rec.Body.String(), `"errorMessage":null`) {
		t.Fatalf("errorMessage must be serialized as null: %s", rec.Body.String())
	}
}

func TestDecide_DomainErrors(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		amount int
		period int
		status int
		msg    string
	}{
		{"invalid personal code", "12345678901", 4000, 12, stdhttp.StatusBadRequest, "Invalid personal ID code!"},
		{"10 digit personal code", "3760503029", 4000, 12, stdhttp.StatusBadRequest, "Invalid personal ID code!"},
		{"non digit personal code", "3760503029x", 4000, 12, stdhttp.StatusBadRequest, "Invalid personal ID code!"},
		{"empty personal code", "", 4000, 12, stdhttp.StatusBadRequest, "Invalid personal ID code!"},
		{"zero amount", "50307172740", 0, 12, stdhttp.StatusBadRequest, "Invalid loan amount!"},
		{"negative amount", "50307172740", -1, 12, stdhttp.StatusBadRequest, "Invalid loan amount!"},
		{"zero period", "50307172740", 4000, 0, stdhttp.StatusBadRequest, "Invalid loan period!"},
		{"invalid amount", "50307172740", 1999, 12, stdhttp.StatusBadRequest, "Invalid loan amount!"},
		{"invalid period", "50307172740", 4000, 61, stdhttp.StatusBadRequest, "Invalid loan period!"},
		{"under age", "61107121760", 4000, 12, stdhttp.StatusUnprocessableEntity, "Not eligible for a loan due to age!"},
		{"low credit score", "50307172740", 4000, 12, stdhttp.StatusUnprocessableEntity, "Loan application is denied due to low credit score."},
		{"debtor", "37605030299", 4000, 12, stdhttp.StatusNotFound, "No valid loan found!"},
	}
	h := newDecisionHandler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, got := postDecision(t, h, map[string]any{"personalCode": tt.code, "loanAmount": tt.amount, "loanPeriod": tt.period})
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if got.ErrorMessage == nil || *got.ErrorMessage != tt.msg {
				t.Fatalf("errorMessage = %v, want %q", got.ErrorMessage, tt.msg)
			}
			if got.LoanAmount != nil || got.LoanPeriod != nil {
				t.Fatalf("no partial decision expected: %s", rec.Body.String())
			}
		})
	}
}

func TestDecide_BindError(t *testing.T) {
	e := newEchoWithValidator()
	h := newDecisionHandler()

	req := httptest.NewRequest(stdhttp.MethodPost, "/loan/decision", strings.NewReader(`{"personalCode":`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.Decide(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Decide error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var got DecisionResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if got.ErrorMessage == nil || *got.ErrorMessage != "invalid body" {
		t.Fatalf("errorMessage = %v, want %q", got.ErrorMessage, "invalid body")
	}
}

func TestDecide_FractionalAmountIsBindError(t *testing.T) {
	rec, got := postDecision(t, newDecisionHandler(), map[string]any{
		"personalCode": "35006069515",
		"loanAmount":   4000.5,
		"loanPeriod":   12,
	})
	if rec.Code != stdhttp.StatusBadRequest || *got.ErrorMessage != "invalid body" {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
}

func TestDecide_ValidationError(t *testing.T) {
	rec, got := postDecision(t, newDecisionHandler(), map[string]any{
		"personalCode": "NOT-A-CODE",
	})
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got.ErrorMessage == nil || *got.ErrorMessage != "validation failed" {
		t.Fatalf("errorMessage = %v", got.ErrorMessage)
	}
	if containsFieldMsg(got.Details, "PersonalCode", "") {
		t.Fatalf("present personal code must not be reported: %+v", got.Details)
	}
	if !containsFieldMsg(got.Details, "LoanAmount", "is required") || !containsFieldMsg(got.Details, "LoanPeriod", "is required") {
		t.Fatalf("missing required details: %+v", got.Details)
	}
}

func TestPolicy_ReturnsActivePolicy(t *testing.T) {
	e := newEchoWithValidator()
	h := newDecisionHandler()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(stdhttp.MethodGet, "/loan/policy", nil), rec)

	if err := h.Policy(c); err != nil {
		t.Fatalf("Policy error: %v", err)
	}
	var got domain.Policy
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	want := domain.DefaultPolicy()
	if got.MinLoanAmount != want.MinLoanAmount || got.MaxLoanPeriod != want.MaxLoanPeriod || got.Segment3Modifier != want.Segment3Modifier {
		t.Fatalf("policy = %+v", got)
	}
}

func TestStatusFor(t *testing.T) {
	if got := statusFor(fmt.Errorf("wrapped: %w", domain.ErrNoValidLoan)); got != stdhttp.StatusNotFound {
		t.Fatalf("wrapped NoValidLoan = %d", got)
	}
	if got := statusFor(errors.New("boom")); got != stdhttp.StatusInternalServerError {
		t.Fatalf("unknown = %d", got)
	}
}

func TestRouter_EndToEnd(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	reg := prometheus.NewRegistry()
	e := NewRouter(RouterDeps{
		Logger: logger.NewNop(),
		Decisions: uc.NewUsecase(domain.DefaultPolicy(),
			uc.WithClock(func() time.Time { return fixedNow }),
			uc.WithRecorder(metrics.New(reg))),
		Redis:    rdb,
		IdempTTL: time.Minute,
		Metrics:  metrics.Handler(reg),
	})

	body := `{"personalCode":"38411266610","loanAmount":2000,"loanPeriod":12}`
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(stdhttp.MethodPost, "/loan/decision", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("Idempotency-Key", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != stdhttp.StatusOK {
			t.Fatalf("call %d: status = %d body=%s", i, rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), `"loanAmount":3600`) {
			t.Fatalf("call %d: body = %s", i, rec.Body.String())
		}
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/metrics", nil))
	// the replayed call never reached the usecase
	if !strings.Contains(rec.Body.String(), `loan_decision_decisions_total{outcome="approved"} 1`) {
		t.Fatalf("metrics body:\n%s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/health", nil))
	if rec.Code != stdhttp.StatusOK || !strings.Contains(rec.Body.String(), `"policy":"default"`) {
		t.Fatalf("health: %d %s", rec.Code, rec.Body.String())
	}
}
