package voting

import (
	"context"
	"errors"
	"sync"
	"time"

	"gennit/backend/internal/state"
)

var errInjected = errors.New("injected datastore failure")

type fakeTarget struct {
	count  *float64 // nil mirrors a property that was never set
	author string
	voters []string
}

type fakeUser struct {
	karma     map[state.KarmaField]int64
	createdAt time.Time
}

type fakeData struct {
	targets map[string]map[string]*fakeTarget // kind name -> id -> target
	users   map[string]*fakeUser
}

func (d *fakeData) clone() *fakeData {
	c := &fakeData{
		targets: make(map[string]map[string]*fakeTarget, len(d.targets)),
		users:   make(map[string]*fakeUser, len(d.users)),
	}
	for kind, byID := range d.targets {
		c.targets[kind] = make(map[string]*fakeTarget, len(byID))
		for id, t := range byID {
			ct := &fakeTarget{author: t.author, voters: append([]string(nil), t.voters...)}
			if t.count != nil {
				v := *t.count
				ct.count = &v
			}
			c.targets[kind][id] = ct
		}
	}
	for name, u := range d.users {
		cu := &fakeUser{createdAt: u.createdAt, karma: make(map[state.KarmaField]int64, len(u.karma))}
		for f, k := range u.karma {
			cu.karma[f] = k
		}
		c.users[name] = cu
	}
	return c
}

// fakeStore is an in-memory Store. Each transaction works on a private copy
// that replaces the committed data on Commit.
type fakeStore struct {
	mu        sync.Mutex
	data      *fakeData
	failOn    map[string]error
	beginErr  error

	// beforeKarma runs against the transaction's data just before AddKarma
	beforeKarma func(*fakeData)
	committed int
	rollbacks int
	closed    int
	began     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		data: &fakeData{
			targets: map[string]map[string]*fakeTarget{
				state.CommentVote.Name:    {},
				state.DiscussionVote.Name: {},
			},
			users: map[string]*fakeUser{},
		},
		failOn: map[string]error{},
	}
}

func (s *fakeStore) addUser(username string, commentKarma, discussionKarma int64, createdAt time.Time) {
	s.data.users[username] = &fakeUser{
		karma:     map[state.KarmaField]int64{state.CommentKarma: commentKarma, state.DiscussionKarma: discussionKarma},
		createdAt: createdAt,
	}
}

func (s *fakeStore) addTarget(kind state.VotableKind, id, author string, count *float64, voters ...string) {
	s.data.targets[kind.Name][id] = &fakeTarget{count: count, author: author, voters: voters}
}

func (s *fakeStore) target(kind state.VotableKind, id string) *fakeTarget {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.targets[kind.Name][id]
}

func (s *fakeStore) karma(username string, field state.KarmaField) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.users[username].karma[field]
}

func (s *fakeStore) BeginVote(ctx context.Context) (Tx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	s.began++
	return &fakeTx{store: s, data: s.data.clone()}, nil
}

type fakeTx struct {
	store *fakeStore
	data  *fakeData
	done  bool
}

func (t *fakeTx) fail(op string) error {
	return t.store.failOn[op]
}

func (t *fakeTx) SnapshotTarget(ctx context.Context, kind state.VotableKind, targetID string) (*state.TargetSnapshot, error) {
	if err := t.fail("SnapshotTarget"); err != nil {
		return nil, err
	}
	tg, ok := t.data.targets[kind.Name][targetID]
	if !ok {
		return nil, nil
	}
	snap := &state.TargetSnapshot{
		ID:         targetID,
		Voters:     append([]string{}, tg.voters...),
		VoterCount: len(tg.voters),
	}
	if tg.count != nil {
		snap.WeightedVotesCount = *tg.count
	}
	if author, ok := t.data.users[tg.author]; ok {
		snap.AuthorUsername = tg.author
		snap.AuthorKarma = author.karma[kind.KarmaField]
	}
	return snap, nil
}

func (t *fakeTx) VoteExists(ctx context.Context, kind state.VotableKind, username, targetID string) (bool, error) {
	if err := t.fail("VoteExists"); err != nil {
		return false, err
	}
	tg, ok := t.data.targets[kind.Name][targetID]
	if !ok {
		return false, nil
	}
	for _, v := range tg.voters {
		if v == username {
			return true, nil
		}
	}
	return false, nil
}

func (t *fakeTx) SnapshotVoter(ctx context.Context, kind state.VotableKind, username string) (*state.VoterSnapshot, error) {
	if err := t.fail("SnapshotVoter"); err != nil {
		return nil, err
	}
	u, ok := t.data.users[username]
	if !ok {
		return nil, nil
	}
	return &state.VoterSnapshot{Username: username, Karma: u.karma[kind.KarmaField], CreatedAt: u.createdAt}, nil
}

func (t *fakeTx) ApplyVote(ctx context.Context, kind state.VotableKind, dir state.Direction, targetID, username string, weight float64) error {
	if err := t.fail("ApplyVote"); err != nil {
		return err
	}
	tg := t.data.targets[kind.Name][targetID]
	count := 0.0
	if tg.count != nil {
		count = *tg.count
	}
	count += float64(dir.Sign()) * weight
	tg.count = &count

	if dir == state.Upvote {
		tg.voters = append(tg.voters, username)
		return nil
	}
	kept := tg.voters[:0]
	for _, v := range tg.voters {
		if v != username {
			kept = append(kept, v)
		}
	}
	tg.voters = kept
	return nil
}

func (t *fakeTx) AddKarma(ctx context.Context, username string, field state.KarmaField, delta int64) (bool, error) {
	if err := t.fail("AddKarma"); err != nil {
		return false, err
	}
	if t.store.beforeKarma != nil {
		t.store.beforeKarma(t.data)
	}
	u, ok := t.data.users[username]
	if !ok {
		return false, nil
	}
	u.karma[field] += delta
	return true, nil
}

func (t *fakeTx) Commit(ctx context.Context) error {
	if err := t.fail("Commit"); err != nil {
		return err
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.data = t.data
	t.store.committed++
	t.done = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.store.mu.Lock()
	t.store.rollbacks++
	t.store.mu.Unlock()
	if err := t.fail("Rollback"); err != nil {
		return err
	}
	t.data = nil
	t.done = true
	return nil
}

func (t *fakeTx) Close(ctx context.Context) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.closed++
	return nil
}

func float(v float64) *float64 {
	return &v
}
