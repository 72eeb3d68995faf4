package constants

// Graph labels and relationship types outside the votable kinds
const (
	UserLabel       = "User"
	DiscussionLabel = "Discussion"

	AuthoredCommentRel  = "AUTHORED_COMMENT"
	PostedDiscussionRel = "POSTED_DISCUSSION"
	PostedInChannelRel  = "POSTED_IN_CHANNEL"
)

// Vote weighting constants
const (
	// BaseVoteWeight is what every vote is worth before the reputation bonus
	BaseVoteWeight = 1.0

	// BonusPrecision is the number of decimal places each bonus term is rounded to
	BonusPrecision = 5
)

// HTTP constants
const (
	// CurrentUserHeader carries the username resolved by the upstream auth layer
	CurrentUserHeader = "X-Username"

	// RequestIDHeader carries the per-request correlation id
	RequestIDHeader = "X-Request-ID"
)
