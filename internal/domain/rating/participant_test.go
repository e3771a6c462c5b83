package rating_test

import (
	"math"
	"testing"

	"github.com/okian/kickrate/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

var teammates = []int{1, 2, 3, 4, 5}

func player(id int, r, fatigue float64, games int) rating.PlayerState {
	return rating.PlayerState{ID: id, Rating: r, FatigueMinutes: fatigue, GamesPlayed: games}
}

func TestParticipant_FatigueCoefficient(t *testing.T) {
	Convey("Given default parameters", t, func() {
		params := rating.DefaultParams()

		Convey("When the player has not played recently", func() {
			p := rating.NewParticipant(params, player(1, 1500, 0, 3), teammates, nil)

			Convey("Then the working rating collapses to zero", func() {
				So(p.FatigueCoefficient(), ShouldEqual, 0.0)
				So(p.WorkingRating(), ShouldEqual, 0.0)
			})
		})

		Convey("When the player has played 10 minutes", func() {
			p := rating.NewParticipant(params, player(1, 1500, 10, 3), teammates, nil)

			Convey("Then the coefficient is a quarter", func() {
				So(p.FatigueCoefficient(), ShouldAlmostEqual, 0.25, 1e-12)
				So(p.WorkingRating(), ShouldAlmostEqual, 375, 1e-9)
			})
		})

		Convey("When fatigue passes the saturation point", func() {
			p20 := rating.NewParticipant(params, player(1, 1500, 20, 3), teammates, nil)
			p90 := rating.NewParticipant(params, player(1, 1500, 90, 3), teammates, nil)

			Convey("Then the coefficient caps at one", func() {
				So(p20.FatigueCoefficient(), ShouldEqual, 1.0)
				So(p90.FatigueCoefficient(), ShouldEqual, 1.0)
				So(p90.WorkingRating(), ShouldAlmostEqual, 1500, 1e-9)
			})
		})

		Convey("When fatigue increases step by step", func() {
			Convey("Then the working rating strictly increases until saturation", func() {
				prev := -1.0
				for minutes := 0.0; minutes <= 20; minutes += 2.5 {
					p := rating.NewParticipant(params, player(1, 1500, minutes, 3), teammates, nil)
					So(p.WorkingRating(), ShouldBeGreaterThan, prev)
					prev = p.WorkingRating()
				}
			})
		})
	})
}

func TestParticipant_ChemistryCoefficient(t *testing.T) {
	Convey("Given default parameters", t, func() {
		params := rating.DefaultParams()

		Convey("When there is no shared history", func() {
			p := rating.NewParticipant(params, player(1, 1500, 20, 0), teammates, nil)

			Convey("Then the coefficient is the neutral midpoint", func() {
				So(p.ChemistryCoefficient(), ShouldAlmostEqual, 1.0, 1e-12)
			})
		})

		Convey("When every teammate has a perfect record at full confidence", func() {
			var recs []rating.ChemistryRecord
			for _, id := range teammates[1:] {
				recs = append(recs, rating.ChemistryRecord{TeammateID: id, Wins: 10})
			}
			p := rating.NewParticipant(params, player(1, 1500, 20, 0), teammates, recs)

			Convey("Then the coefficient reaches the maximum", func() {
				So(p.ChemistryCoefficient(), ShouldAlmostEqual, params.ChemistryMaxCoeff, 1e-12)
			})
		})

		Convey("When every teammate has only losses at full confidence", func() {
			var recs []rating.ChemistryRecord
			for _, id := range teammates[1:] {
				recs = append(recs, rating.ChemistryRecord{TeammateID: id, Losses: 25})
			}
			p := rating.NewParticipant(params, player(1, 1500, 20, 0), teammates, recs)

			Convey("Then the coefficient reaches the minimum", func() {
				So(p.ChemistryCoefficient(), ShouldAlmostEqual, params.ChemistryMinCoeff, 1e-12)
			})
		})

		Convey("When history is thin", func() {
			// 2 wins in 2 games: confidence 0.2, blended score 0.2*1 + 0.8*0.5 = 0.6
			recs := []rating.ChemistryRecord{{TeammateID: 2, Wins: 2}}
			p := rating.NewParticipant(params, player(1, 1500, 20, 0), teammates, recs)

			Convey("Then it is blended towards neutral", func() {
				// average over 4 teammates: (0.6 + 3*0.5)/4 = 0.525 -> 0.9 + 0.2*0.525
				So(p.ChemistryCoefficient(), ShouldAlmostEqual, 1.005, 1e-12)
			})
		})

		Convey("When records mention players outside the side", func() {
			recs := []rating.ChemistryRecord{{TeammateID: 99, Wins: 50}}
			p := rating.NewParticipant(params, player(1, 1500, 20, 0), teammates, recs)

			Convey("Then they are ignored", func() {
				So(p.ChemistryCoefficient(), ShouldAlmostEqual, 1.0, 1e-12)
			})
		})

		Convey("When records are arbitrary", func() {
			Convey("Then the coefficient stays within bounds", func() {
				for w := 0; w < 6; w++ {
					for l := 0; l < 6; l++ {
						for d := 0; d < 6; d++ {
							recs := []rating.ChemistryRecord{
								{TeammateID: 2, Wins: w, Losses: l, Draws: d},
								{TeammateID: 3, Wins: l, Losses: d, Draws: w},
							}
							c := rating.NewParticipant(params, player(1, 1500, 20, 0), teammates, recs).ChemistryCoefficient()
							So(c, ShouldBeBetweenOrEqual, params.ChemistryMinCoeff, params.ChemistryMaxCoeff)
						}
					}
				}
			})
		})
	})
}

func TestParticipant_Factors(t *testing.T) {
	Convey("Given default parameters", t, func() {
		params := rating.DefaultParams()

		Convey("When experience grows", func() {
			Convey("Then q decreases and is floored", func() {
				So(rating.NewParticipant(params, player(1, 1500, 0, 0), teammates, nil).Q(), ShouldEqual, 1.0)
				So(rating.NewParticipant(params, player(1, 1500, 0, 3), teammates, nil).Q(), ShouldAlmostEqual, 0.85, 1e-12)
				So(rating.NewParticipant(params, player(1, 1500, 0, 10), teammates, nil).Q(), ShouldAlmostEqual, 0.5, 1e-12)
				So(rating.NewParticipant(params, player(1, 1500, 0, 400), teammates, nil).Q(), ShouldEqual, 0.5)
			})
		})

		Convey("When the base rating changes tier", func() {
			Convey("Then higher rated players get a lower k", func() {
				So(rating.NewParticipant(params, player(1, 1900, 0, 0), teammates, nil).K(), ShouldEqual, params.KHigh)
				So(rating.NewParticipant(params, player(1, 1800, 0, 0), teammates, nil).K(), ShouldEqual, params.KHigh)
				So(rating.NewParticipant(params, player(1, 1500, 0, 0), teammates, nil).K(), ShouldEqual, params.KMid)
				So(rating.NewParticipant(params, player(1, 1499, 0, 0), teammates, nil).K(), ShouldEqual, params.KLow)
			})
		})
	})
}

func TestParticipant_Score(t *testing.T) {
	Convey("Given a participant", t, func() {
		params := rating.DefaultParams()
		p := rating.NewParticipant(params, player(1, 1500, 20, 3), teammates, nil)

		Convey("When it did nothing in a comfortable win", func() {
			Convey("Then the score is the base of one", func() {
				So(p.Score(0, 3, 0, false), ShouldEqual, 1.0)
			})
		})

		Convey("When it is the goalkeeper", func() {
			Convey("Then the bonus depends on goals conceded", func() {
				So(p.Score(0, 0, 0, true), ShouldAlmostEqual, 1+params.CleanSheetBonus, 1e-12)
				So(p.Score(0, 0, 1, true), ShouldAlmostEqual, 1+params.OneConcededBonus, 1e-12)
				So(p.Score(0, 0, 2, true), ShouldAlmostEqual, 1+params.TwoConcededBonus, 1e-12)
				So(p.Score(0, 0, 3, true), ShouldEqual, 1.0)
			})

			Convey("And goals are worth more", func() {
				field := p.Score(1, 3, 0, false)
				keeper := p.Score(1, 3, 0, true) - params.CleanSheetBonus
				So(keeper-1, ShouldAlmostEqual, (field-1)*params.GoalkeeperGoalMultiplier, 1e-12)
			})
		})

		Convey("When its goals changed the result", func() {
			Convey("Then the clutch bonus follows the change", func() {
				// 1-0 win, without the goal a 0-0 draw
				So(p.Score(1, 0, 0, false), ShouldAlmostEqual, 1+params.ClutchDrawToWin+params.OneGoalBonus, 1e-12)
				// 1-1 draw, without the goal a 0-1 loss
				So(p.Score(1, 0, 1, false), ShouldAlmostEqual, 1+params.ClutchLossToDraw+params.OneGoalBonus, 1e-12)
				// 2-1 win, without the goals a 0-1 loss
				So(p.Score(2, 0, 1, false), ShouldAlmostEqual, 1+params.ClutchLossToWin+params.TwoGoalBonus, 1e-12)
			})
		})

		Convey("When it scored in a loss", func() {
			Convey("Then the goal bonus is tripled", func() {
				So(p.Score(1, 0, 3, false), ShouldAlmostEqual, 1+params.OneGoalBonus*params.LossGoalMultiplier, 1e-12)
			})
		})

		Convey("When it scored a hat-trick", func() {
			Convey("Then the bonus uses the cube-root curve", func() {
				want := 1 + params.TwoGoalBonus*math.Cbrt(1.5)
				So(p.Score(3, 5, 0, false), ShouldAlmostEqual, want, 1e-12)
			})
		})

		Convey("When the match outcome is fixed", func() {
			Convey("Then more goals never lower the score", func() {
				// every case keeps the same outcome for 1..6 goals
				cases := []struct{ mates, opp int }{{0, 0}, {3, 0}, {4, 4}, {0, 9}, {2, 9}}
				for _, keeper := range []bool{false, true} {
					for _, c := range cases {
						prev := 0.0
						for goals := 1; goals <= 6; goals++ {
							s := p.Score(goals, c.mates, c.opp, keeper)
							So(s, ShouldBeGreaterThanOrEqualTo, prev)
							prev = s
						}
					}
				}
			})
		})
	})
}
