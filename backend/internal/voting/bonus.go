package voting

import (
	"math"
	"time"

	"gennit/backend/internal/constants"
)

// ComputeBonus returns the reputation weight a voter adds on top of the base
// vote. Both the karma and the account age contribute their log10, each
// rounded to five decimals. Non-positive inputs contribute nothing, so a
// brand new account with no karma has a bonus of exactly 0.
func ComputeBonus(karma int64, createdAt, now time.Time) float64 {
	bonus := 0.0

	if karma > 0 {
		bonus += roundTo(math.Log10(float64(karma)), constants.BonusPrecision)
	}

	if months := monthsBetween(createdAt, now); months > 0 {
		bonus += roundTo(math.Log10(float64(months)), constants.BonusPrecision)
	}

	return bonus
}

// VoteWeight is the full amount a single vote moves weightedVotesCount by
func VoteWeight(bonus float64) float64 {
	return constants.BaseVoteWeight + bonus
}

// monthsBetween counts whole calendar months from start to end, 0 if end is
// not after start.
func monthsBetween(start, end time.Time) int {
	if start.IsZero() || !end.After(start) {
		return 0
	}
	start, end = start.UTC(), end.UTC()

	months := (end.Year()-start.Year())*12 + int(end.Month()-start.Month())
	if end.Day() < start.Day() || (end.Day() == start.Day() && clock(end) < clock(start)) {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

func clock(t time.Time) time.Duration {
	return t.Sub(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()))
}

func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
