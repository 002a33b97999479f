package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client and returns both the client and the
// selected database. Reachability is verified separately by AwaitReachable,
// so a store that is still booting does not fail the call.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// AwaitReachable pings the primary once a second until it answers or maxWait
// elapses. Deployments routinely start the API before the store is up.
func AwaitReachable(ctx context.Context, client *mongo.Client, maxWait time.Duration, log zerolog.Logger) error {
	if maxWait <= 0 {
		maxWait = defaultTimeout
	}

	backoff := retry.WithMaxDuration(maxWait, retry.NewConstant(time.Second))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
			log.Debug().Err(err).Msg("store not ready yet")
			return retry.RetryableError(err)
		}
		return nil
	})
}
