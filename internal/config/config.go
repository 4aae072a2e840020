package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress       string
	DatabaseURI      string
	DatabaseMaxConns int
	TxTimeout        time.Duration
	AutoMigrate      bool
	JWTSecret        string
	TokenTTL         time.Duration
	RedisAddr        string
	KafkaBrokers     []string
	KafkaTopic       string
	NotifyWorkers    int
	NotifyQueueSize  int
	ShutdownTimeout  time.Duration
	LogLevel         string
	LogFormat        string

	StrictTransitions      bool
	EnforceApprovalCeiling bool
	ReconcileOnDelete      bool
}

const (
	defaultRunAddress       = ":8080"
	defaultJWTSecret        = "change-me-in-production"
	defaultDatabaseMaxConns = 10
	defaultTxTimeout        = 5 * time.Second
	defaultTokenTTL         = 24 * time.Hour
	defaultKafkaTopic       = "procurement.order-events"
	defaultNotifyWorkers    = 2
	defaultNotifyQueueSize  = 256
	defaultShutdownTimeout  = 10 * time.Second
	defaultLogLevel         = "info"
	defaultLogFormat        = "json"
)

// Args carries raw command line arguments into the fx graph.
type Args []string

// Load parses configuration from flags, environment variables and an optional .env file.
func Load(args Args) (*Config, error) {
	_ = godotenv.Load()
	return load(args, os.LookupEnv)
}

type envLookup func(string) (string, bool)

// env variable -> viper key
var envKeys = map[string]string{
	"RUN_ADDRESS":              "run_address",
	"DATABASE_URI":             "database_uri",
	"DATABASE_MAX_CONNS":       "database_max_conns",
	"DATABASE_TX_TIMEOUT":      "tx_timeout",
	"AUTO_MIGRATE":             "auto_migrate",
	"JWT_SECRET":               "jwt_secret",
	"TOKEN_TTL":                "token_ttl",
	"REDIS_ADDR":               "redis_addr",
	"KAFKA_BROKERS":            "kafka_brokers",
	"KAFKA_TOPIC":              "kafka_topic",
	"NOTIFY_WORKERS":           "notify_workers",
	"NOTIFY_QUEUE_SIZE":        "notify_queue_size",
	"SHUTDOWN_TIMEOUT":         "shutdown_timeout",
	"LOG_LEVEL":                "log_level",
	"LOG_FORMAT":               "log_format",
	"STRICT_TRANSITIONS":       "strict_transitions",
	"ENFORCE_APPROVAL_CEILING": "enforce_approval_ceiling",
	"RECONCILE_ON_DELETE":      "reconcile_on_delete",
}

func load(args []string, lookup envLookup) (*Config, error) {
	v := viper.New()

	fs := pflag.NewFlagSet("procurement", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringP("address", "a", defaultRunAddress, "HTTP server listen address")
	fs.StringP("database-uri", "d", "", "PostgreSQL DSN")
	fs.Int("db-max-conns", defaultDatabaseMaxConns, "Maximum pooled database connections")
	fs.String("tx-timeout", defaultTxTimeout.String(), "Upper bound for a single lifecycle transaction")
	fs.Bool("auto-migrate", false, "Apply pending migrations on start")
	fs.String("jwt-secret", defaultJWTSecret, "Secret for signing auth tokens")
	fs.String("token-ttl", defaultTokenTTL.String(), "Lifetime of issued tokens")
	fs.String("redis-addr", "", "Redis address for the notification display queue")
	fs.String("kafka-brokers", "", "Comma separated Kafka brokers for order events")
	fs.String("kafka-topic", defaultKafkaTopic, "Kafka topic for order events")
	fs.Int("notify-workers", defaultNotifyWorkers, "Number of notification delivery workers")
	fs.Int("notify-queue", defaultNotifyQueueSize, "Notification queue capacity")
	fs.String("shutdown-timeout", defaultShutdownTimeout.String(), "Graceful shutdown timeout")
	fs.String("log-level", defaultLogLevel, "Log level")
	fs.String("log-format", defaultLogFormat, "Log format: json or console")
	fs.Bool("strict-transitions", false, "Reject status changes outside the transition table")
	fs.Bool("enforce-approval-ceiling", false, "Reject approvals that would overdraw the budget code")
	fs.Bool("reconcile-on-delete", false, "Credit the budget code when an approved order is deleted")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	flagKeys := map[string]string{
		"address":                  "run_address",
		"database-uri":             "database_uri",
		"db-max-conns":             "database_max_conns",
		"tx-timeout":               "tx_timeout",
		"auto-migrate":             "auto_migrate",
		"jwt-secret":               "jwt_secret",
		"token-ttl":                "token_ttl",
		"redis-addr":               "redis_addr",
		"kafka-brokers":            "kafka_brokers",
		"kafka-topic":              "kafka_topic",
		"notify-workers":           "notify_workers",
		"notify-queue":             "notify_queue_size",
		"shutdown-timeout":         "shutdown_timeout",
		"log-level":                "log_level",
		"log-format":               "log_format",
		"strict-transitions":       "strict_transitions",
		"enforce-approval-ceiling": "enforce_approval_ceiling",
		"reconcile-on-delete":      "reconcile_on_delete",
	}
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", name, err)
		}
	}

	fromEnv := make(map[string]any)
	for env, key := range envKeys {
		if val, ok := lookup(env); ok && val != "" {
			fromEnv[key] = val
		}
	}
	if err := v.MergeConfigMap(fromEnv); err != nil {
		return nil, fmt.Errorf("merge env: %w", err)
	}

	cfg := &Config{
		RunAddress:             v.GetString("run_address"),
		DatabaseURI:            v.GetString("database_uri"),
		DatabaseMaxConns:       v.GetInt("database_max_conns"),
		AutoMigrate:            v.GetBool("auto_migrate"),
		JWTSecret:              v.GetString("jwt_secret"),
		RedisAddr:              v.GetString("redis_addr"),
		KafkaBrokers:           splitList(v.GetString("kafka_brokers")),
		KafkaTopic:             v.GetString("kafka_topic"),
		NotifyWorkers:          v.GetInt("notify_workers"),
		NotifyQueueSize:        v.GetInt("notify_queue_size"),
		LogLevel:               v.GetString("log_level"),
		LogFormat:              v.GetString("log_format"),
		StrictTransitions:      v.GetBool("strict_transitions"),
		EnforceApprovalCeiling: v.GetBool("enforce_approval_ceiling"),
		ReconcileOnDelete:      v.GetBool("reconcile_on_delete"),
	}

	var err error
	if cfg.TxTimeout, err = time.ParseDuration(v.GetString("tx_timeout")); err != nil {
		return nil, fmt.Errorf("invalid tx timeout: %w", err)
	}
	if cfg.TokenTTL, err = time.ParseDuration(v.GetString("token_ttl")); err != nil {
		return nil, fmt.Errorf("invalid token ttl: %w", err)
	}
	if cfg.ShutdownTimeout, err = time.ParseDuration(v.GetString("shutdown_timeout")); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = strings.TrimSpace(string(content))
	}

	if cfg.DatabaseMaxConns <= 0 {
		cfg.DatabaseMaxConns = defaultDatabaseMaxConns
	}
	if cfg.TxTimeout <= 0 {
		cfg.TxTimeout = defaultTxTimeout
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	if cfg.NotifyWorkers <= 0 {
		cfg.NotifyWorkers = defaultNotifyWorkers
	}
	if cfg.NotifyQueueSize <= 0 {
		cfg.NotifyQueueSize = defaultNotifyQueueSize
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
