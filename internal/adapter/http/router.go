package http

import (
	stdhttp "net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"loan-decision-engine/internal/adapter/middleware"
	"loan-decision-engine/internal/usecase/decision"
	"loan-decision-engine/pkg/logger"
)

type RouterDeps struct {
	Logger    *logger.Logger
	Decisions *decision.Usecase

	// Redis enables Idempotency-Key replay on POST routes when set.
	Redis    *redis.Client
	IdempTTL time.Duration

	// Metrics is served on /metrics when set.
	Metrics stdhttp.Handler
}

func NewRouter(d RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.Use(middleware.RequestLogger(d.Logger), echomw.Recover())

	h := NewHandler(d.Decisions.Policy().Name)
	dh := NewDecisionHandler(d.Decisions)

	e.GET("/health", h.Health)
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics))
	}

	loans := e.Group("/loan")
	if d.Redis != nil {
		loans.Use(middleware.Idempotency(d.Redis, d.IdempTTL))
	}
	loans.POST("/decision", dh.Decide)
	loans.GET("/policy", dh.Policy)

	return e
}
