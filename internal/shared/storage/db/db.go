package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"docsum-backend/internal/shared/telemetry"
)

// Profile names the kind of process a Postgres pool is sized for.
type Profile string

const (
	ProfileServer  Profile = "server"
	ProfileLambda  Profile = "lambda"
	ProfileMigrate Profile = "migrate"
)

// Options sizes the database/sql pool in front of pgx.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

var profiles = map[Profile]Options{
	// Lambda runs one request per instance; keep the footprint on RDS small.
	ProfileLambda: {
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxIdleTime: 30 * time.Second,
		ConnMaxLifetime: 15 * time.Minute,
		PingTimeout:     3 * time.Second,
	},
	ProfileServer: {
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxIdleTime: 2 * time.Minute,
		ConnMaxLifetime: time.Hour,
		PingTimeout:     5 * time.Second,
	},
	ProfileMigrate: {
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		PingTimeout:     5 * time.Second,
	},
}

// Defaults returns the pool sizing for p. Unknown profiles get server sizing.
func Defaults(p Profile) Options {
	if opts, ok := profiles[p]; ok {
		return opts
	}
	return profiles[ProfileServer]
}

// IsLambdaRuntime reports whether the process runs inside AWS Lambda.
func IsLambdaRuntime() bool {
	return strings.TrimSpace(os.Getenv("AWS_LAMBDA_FUNCTION_NAME")) != ""
}

// RuntimeProfile picks the Lambda profile inside Lambda and the server profile elsewhere.
func RuntimeProfile() Profile {
	if IsLambdaRuntime() {
		return ProfileLambda
	}
	return ProfileServer
}

type envOverride struct {
	key   string
	apply func(*Options, string) error
}

var envOverrides = []envOverride{
	{"DB_MAX_OPEN_CONNS", intField(func(o *Options) *int { return &o.MaxOpenConns })},
	{"DB_MAX_IDLE_CONNS", intField(func(o *Options) *int { return &o.MaxIdleConns })},
	{"DB_CONN_MAX_LIFETIME", durationField(func(o *Options) *time.Duration { return &o.ConnMaxLifetime })},
	{"DB_CONN_MAX_IDLE_TIME", durationField(func(o *Options) *time.Duration { return &o.ConnMaxIdleTime })},
	{"DB_PING_TIMEOUT", durationField(func(o *Options) *time.Duration { return &o.PingTimeout })},
}

func intField(field func(*Options) *int) func(*Options, string) error {
	return func(o *Options, raw string) error {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		*field(o) = v
		return nil
	}
}

func durationField(field func(*Options) *time.Duration) func(*Options, string) error {
	return func(o *Options, raw string) error {
		v, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		*field(o) = v
		return nil
	}
}

// OptionsFromEnv layers DB_* overrides on base. Unparseable values are
// logged and skipped.
func OptionsFromEnv(base Options) Options {
	for _, o := range envOverrides {
		raw := strings.TrimSpace(os.Getenv(o.key))
		if raw == "" {
			continue
		}
		if err := o.apply(&base, raw); err != nil {
			telemetry.L().Warn("db.env.ignored", zap.String("key", o.key), zap.Error(err))
		}
	}
	return base
}

func (o Options) applyTo(pool *sql.DB) {
	fallback := profiles[ProfileServer]
	if o.MaxOpenConns <= 0 {
		o.MaxOpenConns = fallback.MaxOpenConns
	}
	if o.MaxIdleConns <= 0 {
		o.MaxIdleConns = fallback.MaxIdleConns
	}
	if o.ConnMaxLifetime <= 0 {
		o.ConnMaxLifetime = fallback.ConnMaxLifetime
	}
	pool.SetMaxOpenConns(o.MaxOpenConns)
	pool.SetMaxIdleConns(o.MaxIdleConns)
	pool.SetConnMaxLifetime(o.ConnMaxLifetime)
	if o.ConnMaxIdleTime > 0 {
		pool.SetConnMaxIdleTime(o.ConnMaxIdleTime)
	}
}

func (o Options) pingTimeout() time.Duration {
	if o.PingTimeout > 0 {
		return o.PingTimeout
	}
	return profiles[ProfileServer].PingTimeout
}

// openDB is replaced in tests.
var openDB = func(cfg *pgx.ConnConfig) (*sql.DB, error) {
	return stdlib.OpenDB(*cfg), nil
}

// Connect parses databaseURL with pgx, opens a sized pool and pings it.
func Connect(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, errors.New("DATABASE_URL is empty")
	}
	connCfg, err := pgx.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}

	pool, err := openDB(connCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	opts.applyTo(pool)

	pingCtx, cancel := context.WithTimeout(ctx, opts.pingTimeout())
	defer cancel()
	if err := pool.PingContext(pingCtx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	telemetry.L().Info("db.connected",
		zap.String("host", connCfg.Host),
		zap.Uint16("port", connCfg.Port),
		zap.String("database", connCfg.Database),
		zap.Int("max_open", pool.Stats().MaxOpenConnections),
	)
	return pool, nil
}

var shared struct {
	sync.Mutex
	pool *sql.DB
}

// Shared returns one pool per process, connecting on first use. Concurrent
// callers wait for the same connect. Failures are not cached.
func Shared(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	shared.Lock()
	defer shared.Unlock()

	if shared.pool != nil {
		return shared.pool, nil
	}
	pool, err := Connect(ctx, databaseURL, opts)
	if err != nil {
		return nil, err
	}
	shared.pool = pool
	telemetry.L().Info("db.shared.ready")
	return pool, nil
}
