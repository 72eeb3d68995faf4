package state

import (
	"fmt"
	"time"
)

// KarmaField names one of a user's independent reputation counters
type KarmaField string

const (
	CommentKarma    KarmaField = "commentKarma"
	DiscussionKarma KarmaField = "discussionKarma"
)

// VotableKind describes one kind of node that can receive upvotes.
// It carries everything that differs between kinds so callers never
// branch on the kind themselves.
type VotableKind struct {
	Name             string     // Human readable name, also used in not-found errors
	Label            string     // Graph node label
	VoteRelationship string     // User -> target relationship type recording a vote
	KarmaField       KarmaField // Counter used for the voter's bonus and the author's ledger
}

var (
	// CommentVote is a vote on a Comment, weighted by comment karma
	CommentVote = VotableKind{
		Name:             "Comment",
		Label:            "Comment",
		VoteRelationship: "UPVOTED_COMMENT",
		KarmaField:       CommentKarma,
	}

	// DiscussionVote is a vote on a discussion's posting into one channel,
	// weighted by discussion karma
	DiscussionVote = VotableKind{
		Name:             "DiscussionChannel",
		Label:            "DiscussionChannel",
		VoteRelationship: "UPVOTED_DISCUSSION",
		KarmaField:       DiscussionKarma,
	}
)

func (k VotableKind) String() string {
	return k.Name
}

// Direction is whether a vote is being cast or retracted
type Direction int

const (
	Upvote Direction = iota
	UndoUpvote
)

func (d Direction) String() string {
	if d == UndoUpvote {
		return "undo_upvote"
	}
	return "upvote"
}

// Sign returns +1 for an upvote and -1 for its undo
func (d Direction) Sign() int64 {
	if d == UndoUpvote {
		return -1
	}
	return 1
}

// TargetSnapshot is the state of a votable node read at the start of a vote
type TargetSnapshot struct {
	ID                 string
	WeightedVotesCount float64 // null in the store reads as 0
	AuthorUsername     string  // empty when the author account is gone
	AuthorKarma        int64
	Voters             []string
	VoterCount         int
}

// HasAuthor reports whether the target still has a resolvable author
func (t *TargetSnapshot) HasAuthor() bool {
	return t.AuthorUsername != ""
}

// VoterSnapshot is the state of the voting user read at the start of a vote
type VoterSnapshot struct {
	Username  string
	Karma     int64 // Value of the karma field selected by the vote kind
	CreatedAt time.Time
}

// VoteSummary is what a vote operation returns to the API layer
type VoteSummary struct {
	ID                 string   `json:"id"`
	WeightedVotesCount float64  `json:"weightedVotesCount"`
	Voters             []string `json:"voters"`
	VoterCount         int      `json:"voterCount"`
}

// VoteRequest identifies a single vote operation
type VoteRequest struct {
	Kind      VotableKind
	Direction Direction
	TargetID  string
	Username  string
}

// Validate checks that the request names a votable kind, a target and a voter
func (r VoteRequest) Validate() error {
	if r.Kind.Label == "" {
		return ErrInvalidVoteRequest{Field: "kind", Reason: "is required"}
	}
	if r.TargetID == "" {
		return ErrInvalidVoteRequest{Field: "targetId", Reason: "is required"}
	}
	if r.Username == "" {
		return ErrInvalidVoteRequest{Field: "username", Reason: "is required"}
	}
	return nil
}

// Errors

type ErrInvalidVoteRequest struct {
	Field  string
	Reason string
}

func (e ErrInvalidVoteRequest) Error() string {
	return fmt.Sprintf("invalid vote request: %s %s", e.Field, e.Reason)
}
