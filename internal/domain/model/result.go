package model

import "github.com/okian/kickrate/internal/domain/rating"

// MemberSummary explains one player's delta.
type MemberSummary struct {
	PlayerID      int     `json:"playerId"`
	WorkingRating float64 `json:"workingRating"`
	Q             float64 `json:"q"`
	K             float64 `json:"k"`
	Score         float64 `json:"score"`
	Share         float64 `json:"share"`
	Delta         float64 `json:"delta"`
}

// SideSummary is the per-side breakdown of a rating computation.
type SideSummary struct {
	Goals         int             `json:"goals"`
	Outcome       string          `json:"outcome"`
	WorkingRating float64         `json:"workingRating"`
	Expected      float64         `json:"expected"`
	Actual        float64         `json:"actual"`
	Pot           float64         `json:"pot"`
	Members       []MemberSummary `json:"members"`
}

// RatingResult is the answer to a MatchInput.
type RatingResult struct {
	MatchID string          `json:"matchId,omitempty"`
	Deltas  map[int]float64 `json:"deltas"`
	Home    SideSummary     `json:"home"`
	Away    SideSummary     `json:"away"`
}

// NewRatingResult converts an engine result.
func NewRatingResult(matchID string, r rating.Result) RatingResult {
	return RatingResult{
		MatchID: matchID,
		Deltas:  r.Deltas,
		Home:    summarize(r.Home),
		Away:    summarize(r.Away),
	}
}

func summarize(s rating.SideResult) SideSummary {
	out := SideSummary{
		Goals:         s.Goals,
		Outcome:       s.Outcome.String(),
		WorkingRating: s.WorkingRating,
		Expected:      s.Expected,
		Actual:        s.Actual,
		Pot:           s.Pot,
		Members:       make([]MemberSummary, len(s.Members)),
	}
	for i, m := range s.Members {
		out.Members[i] = MemberSummary{
			PlayerID:      m.ID,
			WorkingRating: m.WorkingRating,
			Q:             m.Q,
			K:             m.K,
			Score:         m.Score,
			Share:         m.Share,
			Delta:         m.Delta,
		}
	}
	return out
}
