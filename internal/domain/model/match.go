// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okian/kickrate/internal/domain/rating"
)

// Sentinel kinds for input errors.
var (
	ErrInvalidInput    = errors.New("invalid match input")
	ErrDuplicatePlayer = errors.New("player appears more than once")
	ErrNegativeValue   = errors.New("negative value")
)

// ChemistryRecord is a player's history with one current teammate.
type ChemistryRecord struct {
	TeammateID int `json:"teammateId"`
	Wins       int `json:"wins"`
	Losses     int `json:"losses"`
	Draws      int `json:"draws"`
}

// PlayerRecord is the per-player snapshot supplied for one match.
type PlayerRecord struct {
	PlayerID       int     `json:"playerId"`
	Name           string  `json:"name,omitempty"`
	Rating         float64 `json:"rating"`
	Goals          int     `json:"goals"`
	GamesPlayed    int     `json:"gamesPlayed"`
	FatigueMinutes float64 `json:"fatigueMinutes"`
	IsGoalkeeper   bool    `json:"isGoalkeeper,omitempty"`

	// Chemistry is nil when the caller supplied none; an empty slice means
	// the player explicitly has no shared history.
	Chemistry []ChemistryRecord `json:"chemistry,omitempty"`
}

// SideInput is one side of a match.
type SideInput struct {
	Players      []PlayerRecord `json:"players"`
	GoalkeeperID *int           `json:"goalkeeperId,omitempty"`
}

// MatchInput is the request to rate one match.
type MatchInput struct {
	MatchID  string    `json:"matchId,omitempty"`
	PlayedAt time.Time `json:"playedAt,omitempty"`
	Home     SideInput `json:"home"`
	Away     SideInput `json:"away"`
}

// Validate checks value ranges and player uniqueness. The member count per
// side is checked by rating.NewSide.
func (m *MatchInput) Validate() error {
	seen := make(map[int]struct{}, 2*rating.SideSize)
	for _, side := range []struct {
		name string
		in   SideInput
	}{{"home", m.Home}, {"away", m.Away}} {
		for i, p := range side.in.Players {
			if _, dup := seen[p.PlayerID]; dup {
				return fmt.Errorf("%w: %w: %s player %d (id %d)", ErrInvalidInput, ErrDuplicatePlayer, side.name, i, p.PlayerID)
			}
			seen[p.PlayerID] = struct{}{}
			if err := p.validate(); err != nil {
				return fmt.Errorf("%w: %s player %d (id %d): %w", ErrInvalidInput, side.name, i, p.PlayerID, err)
			}
		}
	}
	return nil
}

func (p *PlayerRecord) validate() error {
	var bad []string
	if p.Goals < 0 {
		bad = append(bad, "goals")
	}
	if p.GamesPlayed < 0 {
		bad = append(bad, "gamesPlayed")
	}
	if p.FatigueMinutes < 0 {
		bad = append(bad, "fatigueMinutes")
	}
	for _, c := range p.Chemistry {
		if c.Wins < 0 || c.Losses < 0 || c.Draws < 0 {
			bad = append(bad, fmt.Sprintf("chemistry[%d]", c.TeammateID))
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("%w: %s", ErrNegativeValue, strings.Join(bad, ", "))
	}
	return nil
}

// ResolveGoalkeeper returns the explicit goalkeeper id, else the first player
// flagged as goalkeeper, else rating.NoGoalkeeper.
func (s *SideInput) ResolveGoalkeeper() int {
	if s.GoalkeeperID != nil {
		return *s.GoalkeeperID
	}
	for _, p := range s.Players {
		if p.IsGoalkeeper {
			return p.PlayerID
		}
	}
	return rating.NoGoalkeeper
}

// IDs returns the player ids of the side in input order.
func (s *SideInput) IDs() []int {
	ids := make([]int, len(s.Players))
	for i, p := range s.Players {
		ids[i] = p.PlayerID
	}
	return ids
}

// State converts the record to the engine's snapshot.
func (p *PlayerRecord) State() rating.PlayerState {
	return rating.PlayerState{
		ID:             p.PlayerID,
		Name:           p.Name,
		Rating:         p.Rating,
		FatigueMinutes: p.FatigueMinutes,
		GamesPlayed:    p.GamesPlayed,
	}
}

// ChemistryRecords converts the record's chemistry to the engine's form.
func (p *PlayerRecord) ChemistryRecords() []rating.ChemistryRecord {
	out := make([]rating.ChemistryRecord, len(p.Chemistry))
	for i, c := range p.Chemistry {
		out[i] = rating.ChemistryRecord(c)
	}
	return out
}

// Goals returns the goal tally of both sides keyed by player id.
func (m *MatchInput) Goals() map[int]int {
	goals := make(map[int]int, 2*rating.SideSize)
	for _, side := range []SideInput{m.Home, m.Away} {
		for _, p := range side.Players {
			if p.Goals != 0 {
				goals[p.PlayerID] += p.Goals
			}
		}
	}
	return goals
}
