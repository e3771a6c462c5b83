package chemistry

const defaultInitialPairs = 1024

// SeedPair preloads one pair's history, e.g. from a persisted snapshot.
type SeedPair struct {
	A, B                int
	Wins, Losses, Draws int
}

type options struct {
	initialPairs int
	seed         []SeedPair
}

// Option applies a configuration option to the ledger.
type Option func(*options)

// WithInitialPairs sizes the pair map up front.
func WithInitialPairs(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.initialPairs = n
		}
	}
}

// WithSeed preloads pair histories. Self pairs are skipped and repeated pairs
// accumulate.
func WithSeed(pairs ...SeedPair) Option {
	return func(o *options) {
		for _, p := range pairs {
			if p.A != p.B {
				o.seed = append(o.seed, p)
			}
		}
	}
}
