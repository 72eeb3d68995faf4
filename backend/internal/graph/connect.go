package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"gennit/backend/pkg/logger"
	"go.uber.org/zap"
)

var (
	connectInitialInterval = 500 * time.Millisecond
	connectMaxInterval     = 5 * time.Second
	connectMaxElapsedTime  = 30 * time.Second
)

// Connect creates a Neo4j driver and verifies connectivity, retrying with
// exponential backoff while the database comes up.
func Connect(ctx context.Context, uri, user, password string, maxRetries int) (neo4j.DriverWithContext, error) {
	log := logger.Named("graph")

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
	}

	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(connectInitialInterval),
		backoff.WithMaxInterval(connectMaxInterval),
		backoff.WithMaxElapsedTime(connectMaxElapsedTime),
	), uint64(maxRetries))

	attempt := 0
	err = backoff.Retry(func() error {
		attempt++
		if err := driver.VerifyConnectivity(ctx); err != nil {
			log.Warn("Neo4j not reachable yet",
				zap.String("uri", uri),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			return err
		}
		return nil
	}, backoff.WithContext(b, ctx))
	if err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to verify Neo4j connectivity after %d attempts: %w", attempt, err)
	}

	log.Info("Connected to Neo4j", zap.String("uri", uri), zap.Int("attempts", attempt))
	return driver, nil
}
