package voting

import (
	"gennit/backend/internal/state"
)

// Project builds the response for a committed vote from the snapshot read
// before the write plus the delta that was applied. It does not re-read the
// target, so it reflects this transaction's writes only.
func Project(target *state.TargetSnapshot, username string, bonus float64, dir state.Direction) *state.VoteSummary {
	weight := VoteWeight(bonus)

	summary := &state.VoteSummary{
		ID:                 target.ID,
		WeightedVotesCount: target.WeightedVotesCount + float64(dir.Sign())*weight,
	}

	switch dir {
	case state.Upvote:
		summary.Voters = append(append(make([]string, 0, len(target.Voters)+1), target.Voters...), username)
		summary.VoterCount = target.VoterCount + 1
	case state.UndoUpvote:
		summary.Voters = make([]string, 0, len(target.Voters))
		for _, v := range target.Voters {
			if v != username {
				summary.Voters = append(summary.Voters, v)
			}
		}
		summary.VoterCount = target.VoterCount - 1
		if summary.VoterCount < 0 {
			summary.VoterCount = 0
		}
	}

	return summary
}
