package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress         string
	DatabaseURI        string
	MailGatewayAddress string
	JWTSecret          string
	CancelWindow       time.Duration
	DefaultSlotCap     int
	LazySlotCreate     bool
	NotifyPollInterval time.Duration
	NotifyBatchSize    int
	WorkerPoolSize     int
	ShutdownTimeout    time.Duration
}

const (
	defaultRunAddress         = ":8080"
	defaultJWTSecret          = "change-me-in-production"
	defaultCancelWindow       = 2 * time.Hour
	defaultSlotCapacity       = 10
	defaultNotifyPollInterval = 3 * time.Second
	defaultNotifyBatchSize    = 32
	defaultWorkerPoolSize     = 4
	defaultShutdownTimeout    = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:         getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:        getString(lookup, "DATABASE_URI", ""),
		MailGatewayAddress: getString(lookup, "MAIL_GATEWAY_ADDRESS", ""),
		JWTSecret:          getString(lookup, "JWT_SECRET", defaultJWTSecret),
		CancelWindow:       getDuration(lookup, "CANCEL_WINDOW", defaultCancelWindow),
		DefaultSlotCap:     getInt(lookup, "DEFAULT_SLOT_CAPACITY", defaultSlotCapacity),
		LazySlotCreate:     getBool(lookup, "LAZY_SLOT_CREATE", true),
		NotifyPollInterval: getDuration(lookup, "NOTIFY_POLL_INTERVAL", defaultNotifyPollInterval),
		NotifyBatchSize:    getInt(lookup, "NOTIFY_BATCH_SIZE", defaultNotifyBatchSize),
		WorkerPoolSize:     getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout:    getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("canteen", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		cancelWindowStr    = cfg.CancelWindow.String()
		pollIntervalStr    = cfg.NotifyPollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.MailGatewayAddress, "m", cfg.MailGatewayAddress, "Mail gateway base URL (empty disables email delivery)")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&cancelWindowStr, "cancel-window", cancelWindowStr, "Minimum time before pickup when cancellation is still allowed")
	fs.IntVar(&cfg.DefaultSlotCap, "slot-capacity", cfg.DefaultSlotCap, "Default capacity for lazily created pickup slots")
	fs.BoolVar(&cfg.LazySlotCreate, "lazy-slots", cfg.LazySlotCreate, "Materialize pickup slots on first reservation")
	fs.StringVar(&pollIntervalStr, "notify-poll-interval", pollIntervalStr, "Interval between notification outbox polls")
	fs.IntVar(&cfg.NotifyBatchSize, "notify-batch", cfg.NotifyBatchSize, "Maximum notifications per polling batch")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent notification workers")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.CancelWindow, err = time.ParseDuration(cancelWindowStr); err != nil {
		return nil, fmt.Errorf("invalid cancel window: %w", err)
	}

	if cfg.NotifyPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = string(content)
	}

	if cfg.CancelWindow <= 0 {
		cfg.CancelWindow = defaultCancelWindow
	}

	if cfg.DefaultSlotCap <= 0 {
		cfg.DefaultSlotCap = defaultSlotCapacity
	}

	if cfg.NotifyPollInterval <= 0 {
		cfg.NotifyPollInterval = defaultNotifyPollInterval
	}

	if cfg.NotifyBatchSize <= 0 {
		cfg.NotifyBatchSize = defaultNotifyBatchSize
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBool(lookup envLookup, key string, def bool) bool {
	if v, ok := lookup(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
