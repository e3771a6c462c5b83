package rating

import "math"

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithParams replaces the default parameter set. Invalid parameter sets are
// ignored; callers that need to surface the error call Params.Validate first.
func WithParams(p Params) Option {
	return func(e *Engine) {
		if p.Validate() == nil {
			e.params = p
		}
	}
}

// MemberResult explains how one participant's delta was produced.
type MemberResult struct {
	ID            int
	WorkingRating float64
	Q             float64
	K             float64
	Score         float64
	TeamShare     float64
	PerfShare     float64
	Share         float64
	Delta         float64
}

// SideResult summarises the computation for one side.
type SideResult struct {
	Goals         int
	Outcome       Outcome
	WorkingRating float64
	Expected      float64
	Actual        float64
	Pot           float64
	Members       []MemberResult
}

// Result is the output of one match computation.
type Result struct {
	// Deltas maps participant id to signed rating change. The values of both
	// sides sum to zero.
	Deltas map[int]float64
	Home   SideResult
	Away   SideResult
}

// Engine turns a Match into rating deltas. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	params Params
}

// NewEngine creates an engine with DefaultParams unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{params: DefaultParams()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Params returns a copy of the engine's parameter set.
func (e *Engine) Params() Params { return e.params }

// NewParticipant builds a participant using the engine's parameters.
func (e *Engine) NewParticipant(state PlayerState, teammateIDs []int, chemistry []ChemistryRecord) *Participant {
	return NewParticipant(e.params, state, teammateIDs, chemistry)
}

// Expected returns the logistic expected score of a side rated rating
// against a side rated opponent.
func (e *Engine) Expected(rating, opponent float64) float64 {
	return 1 / (1 + math.Pow(10, (opponent-rating)/e.params.EloDiffDivisor))
}

// Rate computes the deltas of every participant of m.
func (e *Engine) Rate(m *Match) Result {
	homeExpected := e.Expected(m.Home().WorkingRating(), m.Away().WorkingRating())
	home := e.rateSide(m, m.Home(), homeExpected)
	away := e.rateSide(m, m.Away(), 1-homeExpected)

	e.balance(&home, &away)

	deltas := make(map[int]float64, 2*SideSize)
	for _, sr := range []SideResult{home, away} {
		for _, mr := range sr.Members {
			deltas[mr.ID] = mr.Delta
		}
	}
	return Result{Deltas: deltas, Home: home, Away: away}
}

func (e *Engine) actual(m *Match, s *Side) float64 {
	switch s {
	case m.Winner():
		return 1
	case m.Loser():
		return 0
	default:
		return e.params.DrawScore
	}
}

func (e *Engine) rateSide(m *Match, s *Side, expected float64) SideResult {
	outcome := m.OutcomeFor(s)
	actual := e.actual(m, s)
	pot := actual - expected
	if outcome == Draw {
		pot *= e.params.DrawDampening
	}

	isWin := s == m.Winner()
	isLoss := s == m.Loser()
	goalsFor := m.GoalsFor(s)
	goalsAgainst := m.GoalsFor(m.Opponent(s))
	members := s.Members()

	var team, perf [SideSize]float64
	scores := make([]float64, SideSize)
	for i, p := range members {
		ratio := 0.0
		if s.WorkingRating() != 0 {
			ratio = p.WorkingRating() / s.WorkingRating()
		}
		if isWin {
			team[i] = math.Max(0, 1-ratio)
		} else {
			team[i] = math.Max(0, ratio)
		}

		goals := m.GoalsOf(p.ID())
		scores[i] = p.Score(goals, goalsFor-goals, goalsAgainst, s.IsGoalkeeper(p.ID()))
		if isLoss {
			perf[i] = 1 / (scores[i] * scores[i])
		} else {
			perf[i] = scores[i]
		}
	}
	team = normalize(team)
	perf = normalize(perf)

	res := SideResult{
		Goals:         goalsFor,
		Outcome:       outcome,
		WorkingRating: s.WorkingRating(),
		Expected:      expected,
		Actual:        actual,
		Pot:           pot,
		Members:       make([]MemberResult, SideSize),
	}
	for i, p := range members {
		share := (1-p.Q())*team[i] + p.Q()*perf[i]
		res.Members[i] = MemberResult{
			ID:            p.ID(),
			WorkingRating: p.WorkingRating(),
			Q:             p.Q(),
			K:             p.K(),
			Score:         scores[i],
			TeamShare:     team[i],
			PerfShare:     perf[i],
			Share:         share,
			Delta:         p.K() * pot * share * SideSize,
		}
	}
	return res
}

// balance rescales both sides so their totals are equal and opposite.
// When every member shares the same k the deltas are left unchanged.
func (e *Engine) balance(home, away *SideResult) {
	homeTotal := sideTotal(home)
	awayTotal := sideTotal(away)
	target := (homeTotal - awayTotal) / 2

	redistribute(home, target)
	redistribute(away, -target)
}

func sideTotal(s *SideResult) float64 {
	var t float64
	for _, m := range s.Members {
		t += m.Delta
	}
	return t
}

// redistribute sets the side total to target keeping each member's
// proportion k*share of the side.
func redistribute(s *SideResult, target float64) {
	var weight float64
	for _, m := range s.Members {
		weight += m.K * m.Share
	}
	if weight <= 0 {
		return
	}
	for i := range s.Members {
		s.Members[i].Delta = target * s.Members[i].K * s.Members[i].Share / weight
	}
}

// normalize scales w to sum to 1, or splits uniformly when the sum is zero.
func normalize(w [SideSize]float64) [SideSize]float64 {
	var total float64
	for _, v := range w {
		total += v
	}
	var out [SideSize]float64
	for i, v := range w {
		if total > 0 {
			out[i] = v / total
		} else {
			out[i] = 1.0 / SideSize
		}
	}
	return out
}
