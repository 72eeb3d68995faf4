package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"gennit/backend/internal/state"
)

// ============================================================================
// Vote Transaction Operations
// ============================================================================

// errVoteWriteMissed means a vote write matched nothing even though the
// target and voter were read earlier in the same transaction.
var errVoteWriteMissed = errors.New("vote write matched no target")

// voteTx is a single explicit transaction plus the session that owns it
type voteTx struct {
	session neo4j.SessionWithContext
	tx      neo4j.ExplicitTransaction
}

// first runs query and returns its first record, or nil when there is none
func (t *voteTx) first(ctx context.Context, query string, params map[string]interface{}) (*neo4j.Record, error) {
	result, err := t.tx.Run(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, fmt.Errorf("failed to fetch record: %w", err)
		}
		return nil, nil
	}
	record := result.Record()

	// Drain so any error raised after the first row surfaces here
	if _, err := result.Consume(ctx); err != nil {
		return nil, fmt.Errorf("failed to consume result: %w", err)
	}
	return record, nil
}

// SnapshotTarget locks and reads the target's vote state
func (t *voteTx) SnapshotTarget(ctx context.Context, kind state.VotableKind, targetID string) (*state.TargetSnapshot, error) {
	q, err := queriesFor(kind)
	if err != nil {
		return nil, err
	}

	record, err := t.first(ctx, q.snapshotTarget, map[string]interface{}{
		"targetID": targetID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot %s: %w", kind.Name, err)
	}
	if record == nil {
		return nil, nil
	}

	voters := getStringSliceFromRecord(record, "voters")
	return &state.TargetSnapshot{
		ID:                 getStringFromRecord(record, "id"),
		WeightedVotesCount: getFloat64FromRecord(record, "weighted_votes_count"),
		AuthorUsername:     getStringFromRecord(record, "author_username"),
		AuthorKarma:        getInt64FromRecord(record, "author_karma"),
		Voters:             voters,
		VoterCount:         len(voters),
	}, nil
}

// VoteExists checks for a vote edge from the user to the target
func (t *voteTx) VoteExists(ctx context.Context, kind state.VotableKind, username, targetID string) (bool, error) {
	q, err := queriesFor(kind)
	if err != nil {
		return false, err
	}

	record, err := t.first(ctx, q.voteExists, map[string]interface{}{
		"username": username,
		"targetID": targetID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check vote edge: %w", err)
	}
	if record == nil {
		return false, nil
	}
	return getBoolFromRecord(record, "has_vote"), nil
}

// SnapshotVoter reads the karma relevant to kind and the account creation time
func (t *voteTx) SnapshotVoter(ctx context.Context, kind state.VotableKind, username string) (*state.VoterSnapshot, error) {
	q, err := karmaQueriesFor(kind.KarmaField)
	if err != nil {
		return nil, err
	}

	record, err := t.first(ctx, q.snapshotVoter, map[string]interface{}{
		"username": username,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot voter: %w", err)
	}
	if record == nil {
		return nil, nil
	}

	return &state.VoterSnapshot{
		Username:  getStringFromRecord(record, "username"),
		Karma:     getInt64FromRecord(record, "karma"),
		CreatedAt: getTimeFromRecord(record, "created_at"),
	}, nil
}

// ApplyVote moves weightedVotesCount by weight and creates or removes the edge
func (t *voteTx) ApplyVote(ctx context.Context, kind state.VotableKind, dir state.Direction, targetID, username string, weight float64) error {
	q, err := queriesFor(kind)
	if err != nil {
		return err
	}

	query := q.upvote
	if dir == state.UndoUpvote {
		query = q.undoUpvote
	}

	record, err := t.first(ctx, query, map[string]interface{}{
		"targetID": targetID,
		"username": username,
		"weight":   weight,
	})
	if err != nil {
		return fmt.Errorf("failed to apply %s: %w", dir, err)
	}
	if record == nil {
		return errVoteWriteMissed
	}
	return nil
}

// AddKarma adds delta to one of the user's karma counters
func (t *voteTx) AddKarma(ctx context.Context, username string, field state.KarmaField, delta int64) (bool, error) {
	q, err := karmaQueriesFor(field)
	if err != nil {
		return false, err
	}

	record, err := t.first(ctx, q.addKarma, map[string]interface{}{
		"username": username,
		"delta":    delta,
	})
	if err != nil {
		return false, fmt.Errorf("failed to update karma: %w", err)
	}
	return record != nil, nil
}

func (t *voteTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *voteTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// Close releases the session; an uncommitted transaction is rolled back by the server
func (t *voteTx) Close(ctx context.Context) error {
	return t.session.Close(ctx)
}
