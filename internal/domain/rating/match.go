package rating

// Match is two opposing sides and the per-participant goal tally.
type Match struct {
	home  *Side
	away  *Side
	goals map[int]int

	homeGoals int
	awayGoals int
}

// NewMatch builds a match. Participants missing from goals scored zero.
// The goal map is copied.
func NewMatch(home, away *Side, goals map[int]int) *Match {
	m := &Match{
		home:  home,
		away:  away,
		goals: make(map[int]int, len(goals)),
	}
	for id, g := range goals {
		m.goals[id] = g
	}
	m.homeGoals = m.sideGoals(home)
	m.awayGoals = m.sideGoals(away)
	return m
}

func (m *Match) sideGoals(s *Side) int {
	total := 0
	for _, p := range s.Members() {
		total += m.goals[p.ID()]
	}
	return total
}

// Home returns the first side.
func (m *Match) Home() *Side { return m.home }

// Away returns the second side.
func (m *Match) Away() *Side { return m.away }

// GoalsOf returns the goals scored by a participant, zero if absent.
func (m *Match) GoalsOf(id int) int { return m.goals[id] }

// GoalsFor returns the total goals of a side.
func (m *Match) GoalsFor(s *Side) int {
	if s == m.home {
		return m.homeGoals
	}
	return m.awayGoals
}

// Opponent returns the side facing s.
func (m *Match) Opponent(s *Side) *Side {
	if s == m.home {
		return m.away
	}
	return m.home
}

// Score returns home and away goals.
func (m *Match) Score() (home, away int) { return m.homeGoals, m.awayGoals }

// OutcomeFor returns the categorical outcome for side s.
func (m *Match) OutcomeFor(s *Side) Outcome {
	return outcomeOf(m.GoalsFor(s) - m.GoalsFor(m.Opponent(s)))
}

// Winner returns the side with more goals, or nil on a draw.
func (m *Match) Winner() *Side {
	switch outcomeOf(m.homeGoals - m.awayGoals) {
	case Win:
		return m.home
	case Loss:
		return m.away
	default:
		return nil
	}
}

// Loser returns the side with fewer goals, or nil on a draw.
func (m *Match) Loser() *Side {
	switch outcomeOf(m.homeGoals - m.awayGoals) {
	case Win:
		return m.away
	case Loss:
		return m.home
	default:
		return nil
	}
}
