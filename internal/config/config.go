package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

type Config struct {
	AppPort string

	StoreDriver string
	StoreKey    string
	SQLitePath  string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	AgentURL         string
	CalcAgentID      string
	SubmitAgentID    string
	AgentTimeoutSecs int

	LogLevel  string
	LogFormat string

	SampleData bool
}

var defaults = map[string]any{
	"APP_PORT":                "8080",
	"STORE_DRIVER":            DriverRedis,
	"STORE_KEY":               "vehicleloan_applications",
	"SQLITE_PATH":             "vehicleloan.db",
	"MYSQL_HOST":              "mysql",
	"MYSQL_PORT":              "3306",
	"MYSQL_DB":                "vehicleloan",
	"MYSQL_USER":              "vehicleloan",
	"MYSQL_PASS":              "vehicleloan",
	"REDIS_ADDR":              "redis:6379",
	"REDIS_DB":                0,
	"IDEMPOTENCY_TTL_SECONDS": 300,
	"AGENT_URL":               "http://agent:9000/v1/agent/invoke",
	"CALC_AGENT_ID":           "loan-calculator",
	"SUBMIT_AGENT_ID":         "loan-processor",
	"AGENT_TIMEOUT_SECONDS":   0,
	"LOG_LEVEL":               "info",
	"LOG_FORMAT":              "json",
	"SAMPLE_DATA":             false,
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	_ = godotenv.Load() // a missing .env is fine
	return LoadFrom(viper.New())
}

// LoadFrom fills a Config from v, with env lookup and defaults applied.
func LoadFrom(v *viper.Viper) *Config {
	v.AutomaticEnv()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	return &Config{
		AppPort:          v.GetString("APP_PORT"),
		StoreDriver:      strings.ToLower(v.GetString("STORE_DRIVER")),
		StoreKey:         v.GetString("STORE_KEY"),
		SQLitePath:       v.GetString("SQLITE_PATH"),
		MySQLHost:        v.GetString("MYSQL_HOST"),
		MySQLPort:        v.GetString("MYSQL_PORT"),
		MySQLDB:          v.GetString("MYSQL_DB"),
		MySQLUser:        v.GetString("MYSQL_USER"),
		MySQLPass:        v.GetString("MYSQL_PASS"),
		RedisAddr:        v.GetString("REDIS_ADDR"),
		RedisDB:          v.GetInt("REDIS_DB"),
		IdempTTLSecs:     v.GetInt("IDEMPOTENCY_TTL_SECONDS"),
		AgentURL:         v.GetString("AGENT_URL"),
		CalcAgentID:      v.GetString("CALC_AGENT_ID"),
		SubmitAgentID:    v.GetString("SUBMIT_AGENT_ID"),
		AgentTimeoutSecs: v.GetInt("AGENT_TIMEOUT_SECONDS"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		LogFormat:        v.GetString("LOG_FORMAT"),
		SampleData:       v.GetBool("SAMPLE_DATA"),
	}
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.StoreKey == "" {
		return errors.New("missing STORE_KEY")
	}
	switch c.StoreDriver {
	case DriverRedis:
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	case DriverMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want redis, sqlite or mysql)", c.StoreDriver)
	}
	// the idempotency middleware always needs redis
	if c.RedisAddr == "" {
		return errors.New("missing REDIS_ADDR")
	}
	if c.AgentURL == "" || c.CalcAgentID == "" || c.SubmitAgentID == "" {
		return errors.New("missing agent config (AGENT_URL/CALC_AGENT_ID/SUBMIT_AGENT_ID)")
	}
	if c.AgentTimeoutSecs < 0 {
		return fmt.Errorf("invalid AGENT_TIMEOUT_SECONDS %d", c.AgentTimeoutSecs)
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// SQLDSN is the DSN for the configured SQL driver.
func (c *Config) SQLDSN() string {
	if c.StoreDriver == DriverMySQL {
		return c.MySQLDSN()
	}
	return c.SQLitePath
}

// AgentTimeout is zero when no transport timeout is set.
func (c *Config) AgentTimeout() time.Duration {
	return time.Duration(c.AgentTimeoutSecs) * time.Second
}

func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempTTLSecs) * time.Second
}
