// Package rating computes zero-sum rating deltas for a single 5-versus-5 match.
//
// The package is pure: it performs no I/O, keeps no shared mutable state and
// never logs. Callers build Participants from snapshot data, group them into
// two Sides, wrap the Sides and the goal tally into a Match and hand the Match
// to an Engine. Independent matches may be rated concurrently.
package rating

import "fmt"

// SideSize is the number of participants on each side of a match.
const SideSize = 5

// NoGoalkeeper is the sentinel goalkeeper id meaning no goalkeeper bonus applies.
const NoGoalkeeper = -1

// Params is the immutable set of coefficients governing the engine.
// It is a value type: engines copy it at construction, so tests may use
// alternate tunings without leaking into each other.
type Params struct {
	// EloDiffDivisor is the logistic divisor applied to the aggregate rating gap.
	EloDiffDivisor float64 `koanf:"elo_diff_divisor"`
	// DrawScore is the actual score credited to both sides on a draw.
	DrawScore float64 `koanf:"draw_score"`
	// DrawDampening shrinks the pot on draws.
	DrawDampening float64 `koanf:"draw_dampening"`

	// FatigueFullMinutes is where the fatigue coefficient saturates at 1.
	FatigueFullMinutes float64 `koanf:"fatigue_full_minutes"`

	ChemistryNeutral             float64 `koanf:"chemistry_neutral"`
	ChemistryFullConfidenceGames float64 `koanf:"chemistry_full_confidence_games"`
	ChemistryMinCoeff            float64 `koanf:"chemistry_min_coeff"`
	ChemistryMaxCoeff            float64 `koanf:"chemistry_max_coeff"`

	// ExperienceWeight is subtracted from q for every game played, down to MinQ.
	ExperienceWeight float64 `koanf:"experience_weight"`
	MinQ             float64 `koanf:"min_q"`

	// Volatility tiers. Higher rated players move less per game.
	HighRatingThreshold float64 `koanf:"high_rating_threshold"`
	MidRatingThreshold  float64 `koanf:"mid_rating_threshold"`
	KHigh               float64 `koanf:"k_high"`
	KMid                float64 `koanf:"k_mid"`
	KLow                float64 `koanf:"k_low"`

	// Goalkeeper bonuses keyed to goals conceded (0, 1, 2).
	CleanSheetBonus          float64 `koanf:"clean_sheet_bonus"`
	OneConcededBonus         float64 `koanf:"one_conceded_bonus"`
	TwoConcededBonus         float64 `koanf:"two_conceded_bonus"`
	GoalkeeperGoalMultiplier float64 `koanf:"goalkeeper_goal_multiplier"`

	// Clutch bonuses for goals that changed the team outcome.
	ClutchLossToDraw float64 `koanf:"clutch_loss_to_draw"`
	ClutchDrawToWin  float64 `koanf:"clutch_draw_to_win"`
	ClutchLossToWin  float64 `koanf:"clutch_loss_to_win"`

	OneGoalBonus       float64 `koanf:"one_goal_bonus"`
	TwoGoalBonus       float64 `koanf:"two_goal_bonus"`
	LossGoalMultiplier float64 `koanf:"loss_goal_multiplier"`
}

// DefaultParams returns the production tuning.
func DefaultParams() Params {
	return Params{
		EloDiffDivisor: 400,
		DrawScore:      0.5,
		DrawDampening:  0.5,

		FatigueFullMinutes: 20,

		ChemistryNeutral:             0.5,
		ChemistryFullConfidenceGames: 10,
		ChemistryMinCoeff:            0.9,
		ChemistryMaxCoeff:            1.1,

		ExperienceWeight: 0.05,
		MinQ:             0.5,

		HighRatingThreshold: 1800,
		MidRatingThreshold:  1500,
		KHigh:               24,
		KMid:                32,
		KLow:                40,

		CleanSheetBonus:          0.5,
		OneConcededBonus:         0.3,
		TwoConcededBonus:         0.1,
		GoalkeeperGoalMultiplier: 1.5,

		ClutchLossToDraw: 0.2,
		ClutchDrawToWin:  0.3,
		ClutchLossToWin:  0.5,

		OneGoalBonus:       0.2,
		TwoGoalBonus:       0.35,
		LossGoalMultiplier: 3,
	}
}

// Validate reports whether the parameters describe a usable engine.
func (p Params) Validate() error {
	switch {
	case p.EloDiffDivisor <= 0:
		return fmt.Errorf("%w: elo_diff_divisor must be positive", ErrInvalidParams)
	case p.DrawScore < 0 || p.DrawScore > 1:
		return fmt.Errorf("%w: draw_score must be within [0,1]", ErrInvalidParams)
	case p.DrawDampening < 0 || p.DrawDampening > 1:
		return fmt.Errorf("%w: draw_dampening must be within [0,1]", ErrInvalidParams)
	case p.FatigueFullMinutes <= 0:
		return fmt.Errorf("%w: fatigue_full_minutes must be positive", ErrInvalidParams)
	case p.ChemistryNeutral < 0 || p.ChemistryNeutral > 1:
		return fmt.Errorf("%w: chemistry_neutral must be within [0,1]", ErrInvalidParams)
	case p.ChemistryFullConfidenceGames <= 0:
		return fmt.Errorf("%w: chemistry_full_confidence_games must be positive", ErrInvalidParams)
	case p.ChemistryMinCoeff <= 0 || p.ChemistryMinCoeff > p.ChemistryMaxCoeff:
		return fmt.Errorf("%w: chemistry coefficients must satisfy 0 < min <= max", ErrInvalidParams)
	case p.ExperienceWeight < 0:
		return fmt.Errorf("%w: experience_weight must not be negative", ErrInvalidParams)
	case p.MinQ <= 0 || p.MinQ > 1:
		return fmt.Errorf("%w: min_q must be within (0,1]", ErrInvalidParams)
	case p.MidRatingThreshold > p.HighRatingThreshold:
		return fmt.Errorf("%w: mid_rating_threshold exceeds high_rating_threshold", ErrInvalidParams)
	case p.KHigh <= 0 || p.KMid <= 0 || p.KLow <= 0:
		return fmt.Errorf("%w: volatility constants must be positive", ErrInvalidParams)
	case p.GoalkeeperGoalMultiplier <= 1:
		return fmt.Errorf("%w: goalkeeper_goal_multiplier must exceed 1", ErrInvalidParams)
	case p.ClutchLossToDraw < 0 || p.ClutchLossToDraw >= p.ClutchDrawToWin || p.ClutchDrawToWin >= p.ClutchLossToWin:
		return fmt.Errorf("%w: clutch bonuses must be non-negative and strictly increasing", ErrInvalidParams)
	case p.OneGoalBonus < 0 || p.OneGoalBonus > p.TwoGoalBonus:
		return fmt.Errorf("%w: goal bonuses must be non-negative and non-decreasing", ErrInvalidParams)
	case p.CleanSheetBonus < 0 || p.OneConcededBonus < 0 || p.TwoConcededBonus < 0:
		return fmt.Errorf("%w: goalkeeper bonuses must not be negative", ErrInvalidParams)
	case p.LossGoalMultiplier < 1:
		return fmt.Errorf("%w: loss_goal_multiplier must be at least 1", ErrInvalidParams)
	}
	return nil
}
