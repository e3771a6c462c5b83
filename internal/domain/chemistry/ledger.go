// Package chemistry keeps the undirected pairwise history of players who
// played on the same side.
package chemistry

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/okian/kickrate/internal/domain/model"
	"github.com/okian/kickrate/internal/domain/rating"
)

// Sentinel kinds for ledger errors.
var (
	ErrSelfPair = errors.New("a player cannot pair with itself")
)

// Ledger stores wins, losses and draws per unordered pair of teammates.
type Ledger interface {
	// Record adds one match outcome for every pair among memberIDs.
	Record(ctx context.Context, memberIDs []int, outcome rating.Outcome)

	// Records returns playerID's history with each of teammateIDs, one record
	// per teammate. Pairs never seen yield zero counts.
	Records(ctx context.Context, playerID int, teammateIDs []int) []model.ChemistryRecord

	// Pair returns a's history with b.
	Pair(ctx context.Context, a, b int) (model.ChemistryRecord, error)

	// Size returns the number of pairs tracked.
	Size() int64
}

// pairKey is the unordered pair (lo, hi).
type pairKey struct {
	lo, hi int
}

func keyOf(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

type tally struct {
	wins, losses, draws int
}

// inMemoryLedger implements Ledger with a mutex guarded map.
type inMemoryLedger struct {
	mu    sync.RWMutex
	pairs map[pairKey]tally
	size  atomic.Int64
}

// NewInMemoryLedger creates an empty ledger.
func NewInMemoryLedger(opts ...Option) Ledger {
	cfg := options{initialPairs: defaultInitialPairs}
	for _, opt := range opts {
		opt(&cfg)
	}
	l := &inMemoryLedger{pairs: make(map[pairKey]tally, cfg.initialPairs)}
	for _, s := range cfg.seed {
		l.add(keyOf(s.A, s.B), tally{wins: s.Wins, losses: s.Losses, draws: s.Draws})
	}
	return l
}

func (l *inMemoryLedger) Record(_ context.Context, memberIDs []int, outcome rating.Outcome) {
	var t tally
	switch outcome {
	case rating.Win:
		t.wins = 1
	case rating.Loss:
		t.losses = 1
	default:
		t.draws = 1
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for i := 0; i < len(memberIDs); i++ {
		for j := i + 1; j < len(memberIDs); j++ {
			if memberIDs[i] == memberIDs[j] {
				continue
			}
			l.add(keyOf(memberIDs[i], memberIDs[j]), t)
		}
	}
}

// add must be called with l.mu held or before l is shared.
func (l *inMemoryLedger) add(k pairKey, t tally) {
	cur, ok := l.pairs[k]
	if !ok {
		l.size.Add(1)
	}
	cur.wins += t.wins
	cur.losses += t.losses
	cur.draws += t.draws
	l.pairs[k] = cur
}

func (l *inMemoryLedger) Records(_ context.Context, playerID int, teammateIDs []int) []model.ChemistryRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.ChemistryRecord, 0, len(teammateIDs))
	for _, id := range teammateIDs {
		if id == playerID {
			continue
		}
		t := l.pairs[keyOf(playerID, id)]
		out = append(out, model.ChemistryRecord{TeammateID: id, Wins: t.wins, Losses: t.losses, Draws: t.draws})
	}
	return out
}

func (l *inMemoryLedger) Pair(_ context.Context, a, b int) (model.ChemistryRecord, error) {
	if a == b {
		return model.ChemistryRecord{}, ErrSelfPair
	}
	l.mu.RLock()
	t := l.pairs[keyOf(a, b)]
	l.mu.RUnlock()
	return model.ChemistryRecord{TeammateID: b, Wins: t.wins, Losses: t.losses, Draws: t.draws}, nil
}

func (l *inMemoryLedger) Size() int64 {
	return l.size.Load()
}
