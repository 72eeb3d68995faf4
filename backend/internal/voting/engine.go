package voting

import (
	"context"
	"errors"
	"time"

	"gennit/backend/internal/constants"
	"gennit/backend/internal/state"
	apperrors "gennit/backend/pkg/errors"
	"gennit/backend/pkg/logger"

	"go.uber.org/zap"
)

// cleanupTimeout bounds rollback and session close, which run even after the
// request context has been cancelled.
const cleanupTimeout = 5 * time.Second

// Engine runs upvotes and their undos on comments and discussion channels.
// Each call is one graph transaction: the vote count, the vote edge and the
// author's karma are written together or not at all.
type Engine struct {
	store   Store
	guard   *Guard
	ledger  *KarmaLedger
	timeout time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

// NewEngine creates a vote engine. A zero timeout leaves the caller's
// context deadline as the only bound.
func NewEngine(store Store, timeout time.Duration) *Engine {
	return &Engine{
		store:   store,
		guard:   &Guard{},
		ledger:  &KarmaLedger{},
		timeout: timeout,
		now:     time.Now,
		logger:  logger.Named("voting"),
	}
}

// UpvoteComment casts username's upvote on a comment
func (e *Engine) UpvoteComment(ctx context.Context, commentID, username string) (*state.VoteSummary, error) {
	return e.Vote(ctx, state.VoteRequest{Kind: state.CommentVote, Direction: state.Upvote, TargetID: commentID, Username: username})
}

// UndoUpvoteComment retracts username's upvote on a comment
func (e *Engine) UndoUpvoteComment(ctx context.Context, commentID, username string) (*state.VoteSummary, error) {
	return e.Vote(ctx, state.VoteRequest{Kind: state.CommentVote, Direction: state.UndoUpvote, TargetID: commentID, Username: username})
}

// UpvoteDiscussionChannel casts username's upvote on a discussion's posting in a channel
func (e *Engine) UpvoteDiscussionChannel(ctx context.Context, discussionChannelID, username string) (*state.VoteSummary, error) {
	return e.Vote(ctx, state.VoteRequest{Kind: state.DiscussionVote, Direction: state.Upvote, TargetID: discussionChannelID, Username: username})
}

// UndoUpvoteDiscussionChannel retracts username's upvote on a discussion's posting in a channel
func (e *Engine) UndoUpvoteDiscussionChannel(ctx context.Context, discussionChannelID, username string) (*state.VoteSummary, error) {
	return e.Vote(ctx, state.VoteRequest{Kind: state.DiscussionVote, Direction: state.UndoUpvote, TargetID: discussionChannelID, Username: username})
}

// Vote runs a single vote operation end to end
func (e *Engine) Vote(ctx context.Context, req state.VoteRequest) (summary *state.VoteSummary, err error) {
	if verr := req.Validate(); verr != nil {
		var invalid state.ErrInvalidVoteRequest
		if errors.As(verr, &invalid) {
			return nil, apperrors.NewValidationError(invalid.Field, invalid.Reason)
		}
		return nil, apperrors.NewValidationError("request", verr.Error())
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	log := e.logger.With(
		zap.String("kind", req.Kind.Name),
		zap.String("direction", req.Direction.String()),
		zap.String("target_id", req.TargetID),
		zap.String("username", req.Username),
	)

	tx, err := e.store.BeginVote(ctx)
	if err != nil {
		log.Error("Failed to begin vote transaction", zap.Error(err))
		return nil, apperrors.NewTransactionError("begin", err)
	}

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
		defer cancel()

		if err != nil {
			if rbErr := tx.Rollback(cleanupCtx); rbErr != nil {
				log.Warn("Failed to roll back vote transaction", zap.Error(rbErr))
			}
		}
		if closeErr := tx.Close(cleanupCtx); closeErr != nil {
			log.Warn("Failed to close vote session", zap.Error(closeErr))
		}
	}()

	summary, err = e.run(ctx, tx, req, log)
	if err != nil {
		if apperrors.IsExpected(err) {
			log.Debug("Vote rejected", zap.Error(err))
		} else {
			log.Error("Vote transaction failed", zap.Error(err))
		}
		return nil, err
	}

	log.Info("Vote applied", zap.Float64("weighted_votes_count", summary.WeightedVotesCount))
	return summary, nil
}

func (e *Engine) run(ctx context.Context, tx Tx, req state.VoteRequest, log *zap.Logger) (*state.VoteSummary, error) {
	target, err := tx.SnapshotTarget(ctx, req.Kind, req.TargetID)
	if err != nil {
		return nil, apperrors.NewTransactionError("snapshot_target", err)
	}
	if target == nil {
		return nil, apperrors.NewNotFound(req.Kind.Name, req.TargetID)
	}

	if err := e.guard.Check(ctx, tx, req, target); err != nil {
		if apperrors.IsErrorType(err, apperrors.ErrorTypeGuard) {
			return nil, err
		}
		return nil, apperrors.NewTransactionError("guard", err)
	}

	voter, err := tx.SnapshotVoter(ctx, req.Kind, req.Username)
	if err != nil {
		return nil, apperrors.NewTransactionError("snapshot_voter", err)
	}
	if voter == nil {
		return nil, apperrors.NewNotFound(constants.UserLabel, req.Username)
	}

	bonus := ComputeBonus(voter.Karma, voter.CreatedAt, e.now())

	if err := tx.ApplyVote(ctx, req.Kind, req.Direction, req.TargetID, req.Username, VoteWeight(bonus)); err != nil {
		return nil, apperrors.NewTransactionError("apply_vote", err)
	}

	// Content whose author account was deleted still takes votes.
	if target.HasAuthor() {
		applied, err := e.ledger.Apply(ctx, tx, target.AuthorUsername, req.Kind.KarmaField, req.Direction.Sign())
		if err != nil {
			return nil, apperrors.NewTransactionError("apply_karma", err)
		}
		if !applied {
			log.Warn("Author vanished before karma update, skipping ledger",
				zap.String("author", target.AuthorUsername))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.NewTransactionError("commit", err)
	}

	return Project(target, req.Username, bonus, req.Direction), nil
}
