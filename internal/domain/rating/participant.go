package rating

import "math"

// Outcome is the categorical result of a match from one side's point of view.
type Outcome int

// Outcome values. The order is meaningful: Loss < Draw < Win.
const (
	Loss Outcome = iota
	Draw
	Win
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Loss:
		return "loss"
	default:
		return "draw"
	}
}

// outcomeOf maps a goal difference to an Outcome by its sign.
func outcomeOf(diff int) Outcome {
	switch {
	case diff > 0:
		return Win
	case diff < 0:
		return Loss
	default:
		return Draw
	}
}

// ChemistryRecord is the historical record of a player with one teammate,
// counted over every match they played on the same side.
type ChemistryRecord struct {
	TeammateID int
	Wins       int
	Losses     int
	Draws      int
}

// Games returns the number of matches played together.
func (c ChemistryRecord) Games() int { return c.Wins + c.Losses + c.Draws }

// PlayerState is the snapshot of a player taken before the match.
type PlayerState struct {
	ID             int
	Name           string
	Rating         float64
	FatigueMinutes float64
	GamesPlayed    int
}

// Participant is one player's state for exactly one match. All derived values
// are computed at construction and never change afterwards.
type Participant struct {
	id             int
	name           string
	baseRating     float64
	fatigueCoeff   float64
	chemistryCoeff float64
	workingRating  float64
	q              float64
	k              float64

	params Params
}

// NewParticipant derives the working rating and the q and k factors of a
// player. teammateIDs are the other members of the player's side; chemistry
// records for anyone else are ignored and missing records count as neutral.
func NewParticipant(params Params, state PlayerState, teammateIDs []int, chemistry []ChemistryRecord) *Participant {
	p := &Participant{
		id:         state.ID,
		name:       state.Name,
		baseRating: state.Rating,
		params:     params,
	}
	p.fatigueCoeff = params.fatigueCoefficient(state.FatigueMinutes)
	p.chemistryCoeff = params.chemistryCoefficient(state.ID, teammateIDs, chemistry)
	p.workingRating = state.Rating * p.fatigueCoeff * p.chemistryCoeff
	p.q = params.experienceWeight(state.GamesPlayed)
	p.k = params.volatility(state.Rating)
	return p
}

// ID returns the player id.
func (p *Participant) ID() int { return p.id }

// Name returns the display name. It plays no part in the computation.
func (p *Participant) Name() string { return p.name }

// BaseRating returns the rating the player entered the match with.
func (p *Participant) BaseRating() float64 { return p.baseRating }

// WorkingRating returns the base rating after fatigue and chemistry.
func (p *Participant) WorkingRating() float64 { return p.workingRating }

// FatigueCoefficient returns min(1, (minutes/FatigueFullMinutes)^2).
func (p *Participant) FatigueCoefficient() float64 { return p.fatigueCoeff }

// ChemistryCoefficient returns the teammate-history multiplier.
func (p *Participant) ChemistryCoefficient() float64 { return p.chemistryCoeff }

// Q returns the experience-blend weight.
func (p *Participant) Q() float64 { return p.q }

// K returns the volatility factor.
func (p *Participant) K() float64 { return p.k }

// Score returns the performance-impact score of the participant given its own
// goals, the goals of its teammates and the goals conceded by its side.
// The result is always at least 1.
func (p *Participant) Score(goals, teammateGoals, opponentGoals int, isGoalkeeper bool) float64 {
	params := p.params
	score := 1.0
	goalMultiplier := 1.0

	if isGoalkeeper {
		score += params.keeperBonus(opponentGoals)
		goalMultiplier = params.GoalkeeperGoalMultiplier
	}

	without := outcomeOf(teammateGoals - opponentGoals)
	with := outcomeOf(teammateGoals + goals - opponentGoals)
	score += params.clutchBonus(without, with)

	if goals > 0 {
		bonus := params.goalBonus(goals) * goalMultiplier
		if with == Loss {
			bonus *= params.LossGoalMultiplier
		}
		score += bonus
	}
	return score
}

func (p Params) fatigueCoefficient(minutes float64) float64 {
	if minutes <= 0 {
		return 0
	}
	ratio := minutes / p.FatigueFullMinutes
	return math.Min(1, ratio*ratio)
}

func (p Params) pairChemistry(r ChemistryRecord) float64 {
	games := float64(r.Games())
	if games <= 0 {
		return p.ChemistryNeutral
	}
	winRate := (float64(r.Wins) + 0.5*float64(r.Draws)) / games
	confidence := math.Min(1, games/p.ChemistryFullConfidenceGames)
	return confidence*winRate + (1-confidence)*p.ChemistryNeutral
}

func (p Params) chemistryCoefficient(selfID int, teammateIDs []int, records []ChemistryRecord) float64 {
	byTeammate := make(map[int]ChemistryRecord, len(records))
	for _, r := range records {
		acc := byTeammate[r.TeammateID]
		acc.TeammateID = r.TeammateID
		acc.Wins += r.Wins
		acc.Losses += r.Losses
		acc.Draws += r.Draws
		byTeammate[r.TeammateID] = acc
	}

	var sum float64
	var n int
	for _, id := range teammateIDs {
		if id == selfID {
			continue
		}
		sum += p.pairChemistry(byTeammate[id])
		n++
	}
	avg := p.ChemistryNeutral
	if n > 0 {
		avg = sum / float64(n)
	}
	return p.ChemistryMinCoeff + (p.ChemistryMaxCoeff-p.ChemistryMinCoeff)*avg
}

func (p Params) experienceWeight(gamesPlayed int) float64 {
	return math.Max(p.MinQ, 1.0-float64(gamesPlayed)*p.ExperienceWeight)
}

func (p Params) volatility(baseRating float64) float64 {
	switch {
	case baseRating >= p.HighRatingThreshold:
		return p.KHigh
	case baseRating >= p.MidRatingThreshold:
		return p.KMid
	default:
		return p.KLow
	}
}

func (p Params) keeperBonus(conceded int) float64 {
	switch conceded {
	case 0:
		return p.CleanSheetBonus
	case 1:
		return p.OneConcededBonus
	case 2:
		return p.TwoConcededBonus
	default:
		return 0
	}
}

func (p Params) clutchBonus(without, with Outcome) float64 {
	switch {
	case without == Loss && with == Win:
		return p.ClutchLossToWin
	case without == Draw && with == Win:
		return p.ClutchDrawToWin
	case without == Loss && with == Draw:
		return p.ClutchLossToDraw
	default:
		return 0
	}
}

// goalBonus grows with diminishing returns past two goals and never drops
// below the two-goal bonus.
func (p Params) goalBonus(goals int) float64 {
	switch {
	case goals <= 0:
		return 0
	case goals == 1:
		return p.OneGoalBonus
	case goals == 2:
		return p.TwoGoalBonus
	default:
		return p.TwoGoalBonus * math.Cbrt(float64(goals)/2)
	}
}
