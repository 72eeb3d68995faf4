package graph

import (
	"fmt"

	"gennit/backend/internal/constants"
	"gennit/backend/internal/state"
)

// ============================================================================
// Vote Queries
// ============================================================================

// Labels, relationship types and karma property names cannot be Cypher
// parameters, so the queries are rendered once per votable kind from
// the fixed values below and never from request input.

type voteQueries struct {
	snapshotTarget string
	voteExists     string
	upvote         string
	undoUpvote     string
}

type karmaQueries struct {
	snapshotVoter string
	addKarma      string
}

// authorPatterns binds `author` to the User who wrote a target `t`
var authorPatterns = map[string]string{
	state.CommentVote.Label: fmt.Sprintf("(author:%s)-[:%s]->(t)",
		constants.UserLabel, constants.AuthoredCommentRel),
	state.DiscussionVote.Label: fmt.Sprintf("(author:%s)-[:%s]->(:%s)-[:%s]->(t)",
		constants.UserLabel, constants.PostedDiscussionRel, constants.DiscussionLabel, constants.PostedInChannelRel),
}

var (
	queriesByLabel = map[string]voteQueries{
		state.CommentVote.Label:    buildVoteQueries(state.CommentVote),
		state.DiscussionVote.Label: buildVoteQueries(state.DiscussionVote),
	}

	queriesByKarma = map[state.KarmaField]karmaQueries{
		state.CommentKarma:    buildKarmaQueries(state.CommentKarma),
		state.DiscussionKarma: buildKarmaQueries(state.DiscussionKarma),
	}
)

func buildVoteQueries(kind state.VotableKind) voteQueries {
	// Setting weightedVotesCount takes the node's write lock, which holds
	// concurrent votes on the same target until this transaction ends.
	snapshot := fmt.Sprintf(`
		MATCH (t:%[1]s {id: $targetID})
		SET t.weightedVotesCount = coalesce(t.weightedVotesCount, 0.0)
		WITH t
		OPTIONAL MATCH %[2]s
		WITH t, head(collect(author)) AS author
		OPTIONAL MATCH (voter:%[3]s)-[:%[4]s]->(t)
		RETURN t.id AS id,
		       t.weightedVotesCount AS weighted_votes_count,
		       author.username AS author_username,
		       coalesce(author.%[5]s, 0) AS author_karma,
		       collect(voter.username) AS voters
	`, kind.Label, authorPatterns[kind.Label], constants.UserLabel, kind.VoteRelationship, kind.KarmaField)

	exists := fmt.Sprintf(`
		OPTIONAL MATCH (u:%[1]s {username: $username})-[v:%[2]s]->(t:%[3]s {id: $targetID})
		RETURN count(v) > 0 AS has_vote
	`, constants.UserLabel, kind.VoteRelationship, kind.Label)

	// ON CREATE keeps a racing duplicate from counting twice
	upvote := fmt.Sprintf(`
		MATCH (t:%[1]s {id: $targetID})
		MATCH (u:%[2]s {username: $username})
		MERGE (u)-[:%[3]s]->(t)
		ON CREATE SET t.weightedVotesCount = coalesce(t.weightedVotesCount, 0.0) + $weight
		RETURN t.weightedVotesCount AS weighted_votes_count
	`, kind.Label, constants.UserLabel, kind.VoteRelationship)

	undo := fmt.Sprintf(`
		MATCH (u:%[1]s {username: $username})-[v:%[2]s]->(t:%[3]s {id: $targetID})
		DELETE v
		SET t.weightedVotesCount = coalesce(t.weightedVotesCount, 0.0) - $weight
		RETURN t.weightedVotesCount AS weighted_votes_count
	`, constants.UserLabel, kind.VoteRelationship, kind.Label)

	return voteQueries{
		snapshotTarget: snapshot,
		voteExists:     exists,
		upvote:         upvote,
		undoUpvote:     undo,
	}
}

func buildKarmaQueries(field state.KarmaField) karmaQueries {
	return karmaQueries{
		snapshotVoter: fmt.Sprintf(`
			MATCH (u:%[1]s {username: $username})
			RETURN u.username AS username,
			       coalesce(u.%[2]s, 0) AS karma,
			       u.createdAt AS created_at
		`, constants.UserLabel, field),
		addKarma: fmt.Sprintf(`
			MATCH (u:%[1]s {username: $username})
			SET u.%[2]s = coalesce(u.%[2]s, 0) + $delta
			RETURN u.username AS username
		`, constants.UserLabel, field),
	}
}

func queriesFor(kind state.VotableKind) (voteQueries, error) {
	q, ok := queriesByLabel[kind.Label]
	if !ok {
		return voteQueries{}, fmt.Errorf("unsupported votable kind: %q", kind.Name)
	}
	return q, nil
}

func karmaQueriesFor(field state.KarmaField) (karmaQueries, error) {
	q, ok := queriesByKarma[field]
	if !ok {
		return karmaQueries{}, fmt.Errorf("unsupported karma field: %q", field)
	}
	return q, nil
}
