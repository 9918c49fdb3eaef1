package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"loan-decision-engine/internal/domain/decision"
)

const (
	PolicySourceEnv   = "env"
	PolicySourceMySQL = "mysql"
)

type Config struct {
	AppPort string

	LogLevel string
	LogMode  string

	PolicySource string
	PolicyName   string
	Policy       decision.Policy

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getenvInt64(k string, d int64) int64 {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return d
}

// Load reads the process environment, after merging a local .env if present.
func Load() *Config {
	_ = godotenv.Load()

	def := decision.DefaultPolicy()
	c := &Config{
		AppPort:  getenv("APP_PORT", "8080"),
		LogLevel: getenv("LOG_LEVEL", "info"),
		LogMode:  getenv("LOG_MODE", "production"),

		PolicySource: getenv("POLICY_SOURCE", PolicySourceEnv),
		PolicyName:   getenv("POLICY_NAME", decision.DefaultPolicyName),

		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "decisions"),
		MySQLUser: getenv("MYSQL_USER", "decisions"),
		MySQLPass: getenv("MYSQL_PASS", "decisions"),

		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RedisDB:      getenvInt("REDIS_DB", 0),
		IdempTTLSecs: getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),
	}
	c.Policy = decision.Policy{
		Name:             c.PolicyName,
		MinLoanAmount:    getenvInt64("LOAN_MIN_AMOUNT", def.MinLoanAmount),
		MaxLoanAmount:    getenvInt64("LOAN_MAX_AMOUNT", def.MaxLoanAmount),
		MinLoanPeriod:    getenvInt("LOAN_MIN_PERIOD", def.MinLoanPeriod),
		MaxLoanPeriod:    getenvInt("LOAN_MAX_PERIOD", def.MaxLoanPeriod),
		MinAge:           getenvInt("LOAN_MIN_AGE", def.MinAge),
		MaxAge:           getenvInt("LOAN_MAX_AGE", def.MaxAge),
		Segment1Modifier: getenvInt("SEGMENT_1_MODIFIER", def.Segment1Modifier),
		Segment2Modifier: getenvInt("SEGMENT_2_MODIFIER", def.Segment2Modifier),
		Segment3Modifier: getenvInt("SEGMENT_3_MODIFIER", def.Segment3Modifier),
	}
	return c
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.PolicySource {
	case PolicySourceEnv:
		if err := c.Policy.Validate(); err != nil {
			return err
		}
	case PolicySourceMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	default:
		return fmt.Errorf("invalid POLICY_SOURCE %q (want %q or %q)", c.PolicySource, PolicySourceEnv, PolicySourceMySQL)
	}
	if c.IdempTTLSecs <= 0 {
		return fmt.Errorf("invalid IDEMPOTENCY_TTL_SECONDS %d", c.IdempTTLSecs)
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
