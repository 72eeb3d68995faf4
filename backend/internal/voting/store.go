package voting

import (
	"context"

	"gennit/backend/internal/state"
)

// Store opens vote transactions against the graph.
// The graph package's Repository is the production implementation.
type Store interface {
	// BeginVote opens a session and an explicit transaction on it.
	// The returned Tx owns the session and releases it on Close.
	BeginVote(ctx context.Context) (Tx, error)
}

// VoteEdgeReader answers whether a vote edge already exists
type VoteEdgeReader interface {
	VoteExists(ctx context.Context, kind state.VotableKind, username, targetID string) (bool, error)
}

// KarmaWriter applies relative deltas to a user's karma counters
type KarmaWriter interface {
	// AddKarma reports false when no user with that username exists
	AddKarma(ctx context.Context, username string, field state.KarmaField, delta int64) (bool, error)
}

// Tx is one explicit graph transaction used by a single vote operation
type Tx interface {
	VoteEdgeReader
	KarmaWriter

	// SnapshotTarget takes the target's write lock and reads its vote state.
	// It returns nil, nil when the target does not exist.
	SnapshotTarget(ctx context.Context, kind state.VotableKind, targetID string) (*state.TargetSnapshot, error)

	// SnapshotVoter reads the voter's karma for the kind and account age.
	// It returns nil, nil when the user does not exist.
	SnapshotVoter(ctx context.Context, kind state.VotableKind, username string) (*state.VoterSnapshot, error)

	// ApplyVote adjusts weightedVotesCount by dir.Sign()*weight and creates
	// or deletes the vote edge, in a single write.
	ApplyVote(ctx context.Context, kind state.VotableKind, dir state.Direction, targetID, username string, weight float64) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	Close(ctx context.Context) error
}
