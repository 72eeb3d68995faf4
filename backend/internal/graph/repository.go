package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"gennit/backend/internal/state"
	"gennit/backend/internal/voting"
	"gennit/backend/pkg/logger"
	"go.uber.org/zap"
)

// Repository handles all Neo4j database operations
type Repository struct {
	driver    neo4j.DriverWithContext
	database  string
	txTimeout time.Duration
	logger    *zap.Logger
}

// NewRepository creates a new graph repository. An empty database selects
// the server default; a zero txTimeout leaves the server's timeout in place.
func NewRepository(driver neo4j.DriverWithContext, database string, txTimeout time.Duration) *Repository {
	return &Repository{
		driver:    driver,
		database:  database,
		txTimeout: txTimeout,
		logger:    logger.Named("graph"),
	}
}

// Close closes the Neo4j driver connection
func (r *Repository) Close() error {
	return r.driver.Close(context.Background())
}

// BeginVote opens a write session and an explicit transaction for one vote.
// The session is released by the returned transaction's Close.
func (r *Repository) BeginVote(ctx context.Context) (voting.Tx, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: r.database,
	})

	var configurers []func(*neo4j.TransactionConfig)
	if r.txTimeout > 0 {
		configurers = append(configurers, neo4j.WithTxTimeout(r.txTimeout))
	}

	tx, err := session.BeginTransaction(ctx, configurers...)
	if err != nil {
		if closeErr := session.Close(ctx); closeErr != nil {
			r.logger.Warn("Failed to close session after begin failure", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &voteTx{session: session, tx: tx}, nil
}

// CountVotes returns how many vote edges point at a target. It reads the
// live edge set and is meant for auditing the running weightedVotesCount.
func (r *Repository) CountVotes(ctx context.Context, kind state.VotableKind, targetID string) (int64, error) {
	if _, err := queriesFor(kind); err != nil {
		return 0, err
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: r.database,
	})
	defer session.Close(ctx)

	query := fmt.Sprintf(`
		MATCH (:User)-[v:%s]->(t:%s {id: $targetID})
		RETURN count(v) AS votes
	`, kind.VoteRelationship, kind.Label)

	result, err := session.Run(ctx, query, map[string]interface{}{
		"targetID": targetID,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}

	record, err := result.Single(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read vote count: %w", err)
	}
	return getInt64FromRecord(record, "votes"), nil
}
