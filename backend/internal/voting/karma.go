package voting

import (
	"context"
	"fmt"

	"gennit/backend/internal/state"
)

// KarmaLedger credits or debits an author's karma as a side effect of votes
// on their content. Deltas are relative and never clamped, so a counter can
// go negative.
type KarmaLedger struct{}

// Apply adds delta to the author's field within the vote's transaction. It
// reports false when no user row matched, which happens if the author was
// deleted after the target was read; the vote itself still stands.
func (l *KarmaLedger) Apply(ctx context.Context, w KarmaWriter, username string, field state.KarmaField, delta int64) (bool, error) {
	found, err := w.AddKarma(ctx, username, field, delta)
	if err != nil {
		return false, fmt.Errorf("failed to apply %s delta: %w", field, err)
	}
	return found, nil
}
