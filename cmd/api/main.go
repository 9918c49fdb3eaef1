package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	httpadp "loan-decision-engine/internal/adapter/http"
	policyrepo "loan-decision-engine/internal/adapter/repository/mysql"
	"loan-decision-engine/internal/config"
	domain "loan-decision-engine/internal/domain/decision"
	"loan-decision-engine/internal/infrastructure/cache"
	"loan-decision-engine/internal/infrastructure/db"
	"loan-decision-engine/internal/infrastructure/metrics"
	"loan-decision-engine/internal/usecase/decision"
	"loan-decision-engine/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	if err := logger.InitGlobalLogger(logger.Environment(cfg.LogMode), cfg.LogLevel); err != nil {
		stdlog.Fatal(err)
	}
	ctx := context.Background()
	log := logger.Log(ctx)
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal(ctx, "invalid configuration", zap.Error(err))
	}

	policy, err := loadPolicy(ctx, cfg)
	if err != nil {
		log.Fatal(ctx, "failed to load decision policy", zap.Error(err))
	}
	log.Info(ctx, "decision policy active",
		zap.String("source", cfg.PolicySource),
		zap.String("policy", policy.Name),
		zap.Int64("min_loan_amount", policy.MinLoanAmount),
		zap.Int64("max_loan_amount", policy.MaxLoanAmount),
		zap.Int("min_loan_period", policy.MinLoanPeriod),
		zap.Int("max_loan_period", policy.MaxLoanPeriod))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	uc := decision.NewUsecase(policy, decision.WithRecorder(metrics.New(reg)))

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			log.Fatal(ctx, "redis unavailable", zap.Error(err))
		}
		defer func() { _ = rdb.Close() }()
	} else {
		log.Warn(ctx, "REDIS_ADDR not set, Idempotency-Key replay disabled")
	}

	e := httpadp.NewRouter(httpadp.RouterDeps{
		Logger:    log,
		Decisions: uc,
		Redis:     rdb,
		IdempTTL:  time.Duration(cfg.IdempTTLSecs) * time.Second,
		Metrics:   metrics.Handler(reg),
	})

	addr := ":" + cfg.AppPort
	serverErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Error(ctx, "server stopped", zap.Error(err))
		return
	case <-quit:
		log.Info(ctx, "shutting down")
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		log.Error(ctx, "shutdown failed", zap.Error(err))
	}
}

// loadPolicy returns the env policy, or reads it from MySQL once at startup.
func loadPolicy(ctx context.Context, cfg *config.Config) (domain.Policy, error) {
	if cfg.PolicySource != config.PolicySourceMySQL {
		return cfg.Policy, nil
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		return domain.Policy{}, err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}

	repo := policyrepo.NewPolicyRepository(gdb)
	if err := repo.Migrate(ctx); err != nil {
		return domain.Policy{}, err
	}
	return decision.LoadPolicy(ctx, policyrepo.NewGormUoW(gdb), cfg.PolicyName, cfg.Policy)
}
