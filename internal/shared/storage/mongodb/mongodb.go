package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"docsum-backend/internal/shared/telemetry"
)

// Options controls client pool and connectivity behavior.
type Options struct {
	MaxPoolSize    uint64
	ConnectTimeout time.Duration
	PingTimeout    time.Duration
}

// DefaultOptions mirrors the SQL pool defaults for long-running servers.
func DefaultOptions() Options {
	return Options{
		MaxPoolSize:    10,
		ConnectTimeout: 10 * time.Second,
		PingTimeout:    5 * time.Second,
	}
}

// Connect dials MongoDB, verifies the primary is reachable and returns the
// named database. Callers own the client and must Disconnect it.
func Connect(ctx context.Context, uri, database string, opts Options) (*mongo.Client, *mongo.Database, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, nil, errors.New("MONGO_URI is empty")
	}
	if strings.TrimSpace(database) == "" {
		return nil, nil, errors.New("mongo database name is empty")
	}

	clientOpts := options.Client().ApplyURI(uri)
	if opts.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(opts.MaxPoolSize)
	}
	if opts.ConnectTimeout > 0 {
		clientOpts.SetConnectTimeout(opts.ConnectTimeout)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingTimeout := opts.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	telemetry.L().Info("mongo.init", zap.String("database", database))
	return client, client.Database(database), nil
}
