package voting

import (
	"context"
	"fmt"

	"gennit/backend/internal/state"
	apperrors "gennit/backend/pkg/errors"
)

// Guard refuses duplicate votes, undoing votes that were never cast, and
// upvoting one's own content. Self-votes are refused for every votable kind.
type Guard struct{}

// Check runs inside the vote's transaction, after the target has been locked
// and read. It returns a *errors.GuardRejection when the vote is refused.
func (g *Guard) Check(ctx context.Context, edges VoteEdgeReader, req state.VoteRequest, target *state.TargetSnapshot) error {
	exists, err := edges.VoteExists(ctx, req.Kind, req.Username, req.TargetID)
	if err != nil {
		return fmt.Errorf("failed to check existing vote: %w", err)
	}

	switch req.Direction {
	case state.Upvote:
		if exists {
			return apperrors.NewAlreadyVoted(req.Username, req.TargetID)
		}
		if target != nil && target.AuthorUsername == req.Username {
			return apperrors.NewSelfVote(req.Username, req.TargetID)
		}
	case state.UndoUpvote:
		if !exists {
			return apperrors.NewNotYetVoted(req.Username, req.TargetID)
		}
	}

	return nil
}
