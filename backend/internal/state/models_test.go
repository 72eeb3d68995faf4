package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVoteRequest_Validate(t *testing.T) {
	ok := VoteRequest{Kind: CommentVote, TargetID: "c1", Username: "alice"}
	assert.NoError(t, ok.Validate())

	noTarget := ok
	noTarget.TargetID = ""
	err := noTarget.Validate()
	if assert.Error(t, err) {
		assert.Equal(t, "targetId", err.(ErrInvalidVoteRequest).Field)
	}

	noUser := ok
	noUser.Username = ""
	err = noUser.Validate()
	if assert.Error(t, err) {
		assert.Equal(t, "username", err.(ErrInvalidVoteRequest).Field)
	}

	noKind := ok
	noKind.Kind = VotableKind{}
	err = noKind.Validate()
	if assert.Error(t, err) {
		assert.Equal(t, "kind", err.(ErrInvalidVoteRequest).Field)
	}
}

func TestDirection_Sign(t *testing.T) {
	assert.Equal(t, int64(1), Upvote.Sign())
	assert.Equal(t, int64(-1), UndoUpvote.Sign())
	assert.Equal(t, "upvote", Upvote.String())
	assert.Equal(t, "undo_upvote", UndoUpvote.String())
}

func TestVotableKinds_UseTheirOwnKarmaField(t *testing.T) {
	assert.Equal(t, CommentKarma, CommentVote.KarmaField)
	assert.Equal(t, DiscussionKarma, DiscussionVote.KarmaField)
	assert.NotEqual(t, CommentVote.VoteRelationship, DiscussionVote.VoteRelationship)
}
