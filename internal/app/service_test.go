package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"testing"
	"time"

	service "github.com/okian/kickrate/internal/app"
	"github.com/okian/kickrate/internal/domain/model"
	"github.com/okian/kickrate/internal/domain/rating"
	"github.com/okian/kickrate/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		panic(err)
	}
}

// side builds five players with ids first..first+4 scoring goals[i].
func side(first int, goals ...int) model.SideInput {
	players := make([]model.PlayerRecord, rating.SideSize)
	for i := range players {
		players[i] = model.PlayerRecord{
			PlayerID:       first + i,
			Name:           fmt.Sprintf("p%d", first+i),
			Rating:         1500,
			FatigueMinutes: 20,
			GamesPlayed:    10,
		}
		if i < len(goals) {
			players[i].Goals = goals[i]
		}
	}
	players[0].IsGoalkeeper = true
	return model.SideInput{Players: players}
}

func match(id string, homeGoals, awayGoals []int) model.MatchInput {
	return model.MatchInput{
		MatchID: id,
		Home:    side(1, homeGoals...),
		Away:    side(6, awayGoals...),
	}
}

func total(deltas map[int]float64) float64 {
	var s float64
	for _, d := range deltas {
		s += d
	}
	return s
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it uses the default coefficients", func() {
			So(svc, ShouldNotBeNil)
			So(svc.Params(), ShouldResemble, rating.DefaultParams())
			So(svc.GetStats()["started"], ShouldEqual, false)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		p := rating.DefaultParams()
		p.KLow = 20
		bad := rating.DefaultParams()
		bad.EloDiffDivisor = -1

		svc := service.New(
			service.WithWorkerCount(2),
			service.WithQueueSize(16),
			service.WithMaxBatchSize(4),
			service.WithDedupeSize(8),
			service.WithParams(p),
			service.WithParams(bad),
		)

		Convey("Then valid options apply and invalid parameters are ignored", func() {
			So(svc.Params().KLow, ShouldEqual, 20.0)
			So(svc.GetStats()["maxBatchSize"], ShouldEqual, 4)
		})
	})
}

func TestService_RateMatch(t *testing.T) {
	Convey("Given a service", t, func() {
		svc := service.New()
		ctx := context.Background()

		Convey("When rating an even draw", func() {
			res, err := svc.RateMatch(ctx, match("m1", []int{0, 1}, []int{1}))

			Convey("Then every player gets a zero delta", func() {
				So(err, ShouldBeNil)
				So(res.MatchID, ShouldEqual, "m1")
				So(res.Deltas, ShouldHaveLength, 10)
				for _, d := range res.Deltas {
					So(math.Abs(d), ShouldBeLessThan, 1e-9)
				}
				So(res.Home.Outcome, ShouldEqual, "draw")
			})
		})

		Convey("When the home side wins", func() {
			res, err := svc.RateMatch(ctx, match("m2", []int{0, 2}, []int{0, 1}))

			Convey("Then deltas are zero-sum with winners gaining", func() {
				So(err, ShouldBeNil)
				So(math.Abs(total(res.Deltas)), ShouldBeLessThan, 1e-9)
				So(res.Deltas[2], ShouldBeGreaterThan, 0)
				So(res.Deltas[7], ShouldBeLessThan, 0)
				So(res.Home.Outcome, ShouldEqual, "win")
				So(res.Away.Outcome, ShouldEqual, "loss")
				So(res.Home.Members, ShouldHaveLength, rating.SideSize)
			})
		})

		Convey("When a value is negative", func() {
			in := match("m3", nil, nil)
			in.Away.Players[2].Goals = -1
			_, err := svc.RateMatch(ctx, in)

			Convey("Then the input is rejected", func() {
				So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
				So(errors.Is(err, model.ErrNegativeValue), ShouldBeTrue)
			})
		})

		Convey("When a side has four players", func() {
			in := match("m4", nil, nil)
			in.Home.Players = in.Home.Players[:4]
			_, err := svc.RateMatch(ctx, in)

			Convey("Then the side size precondition fails", func() {
				So(errors.Is(err, rating.ErrSideSize), ShouldBeTrue)
			})
		})
	})
}

func TestService_Settle(t *testing.T) {
	Convey("Given a service", t, func() {
		svc := service.New()
		ctx := context.Background()

		Convey("When settling without a match id", func() {
			_, err := svc.Settle(ctx, match("", []int{1}, nil))

			Convey("Then it is rejected", func() {
				So(errors.Is(err, service.ErrMissingMatchID), ShouldBeTrue)
			})
		})

		Convey("When a home win is settled", func() {
			_, err := svc.Settle(ctx, match("s1", []int{0, 1}, nil))
			So(err, ShouldBeNil)

			Convey("Then teammates share the win in the ledger", func() {
				rec, err := svc.Chemistry(ctx, 1, 2)
				So(err, ShouldBeNil)
				So(rec.Wins, ShouldEqual, 1)
				opp, _ := svc.Chemistry(ctx, 6, 10)
				So(opp.Losses, ShouldEqual, 1)
				cross, _ := svc.Chemistry(ctx, 1, 6)
				So(cross.Wins+cross.Losses+cross.Draws, ShouldEqual, 0)
			})

			Convey("Then the same match id cannot settle twice", func() {
				_, err := svc.Settle(ctx, match("s1", []int{0, 1}, nil))
				So(errors.Is(err, service.ErrAlreadySettled), ShouldBeTrue)
				rec, _ := svc.Chemistry(ctx, 1, 2)
				So(rec.Wins, ShouldEqual, 1)
			})

			Convey("Then stats count the settlement", func() {
				stats := svc.GetStats()
				So(stats["matchesSettled"], ShouldEqual, int64(1))
				So(stats["chemistryPairs"], ShouldEqual, int64(20))
			})
		})

		Convey("When an invalid settlement is retried with a valid body", func() {
			bad := match("s2", nil, nil)
			bad.Home.Players = bad.Home.Players[:3]
			_, errBad := svc.Settle(ctx, bad)
			_, errGood := svc.Settle(ctx, match("s2", nil, nil))

			Convey("Then the id was not burned by the failure", func() {
				So(errBad, ShouldNotBeNil)
				So(errGood, ShouldBeNil)
			})
		})

		Convey("When chemistry is omitted after several shared wins", func() {
			for i := 0; i < 10; i++ {
				_, err := svc.Settle(ctx, match(fmt.Sprintf("w%d", i), []int{0, 1}, nil))
				So(err, ShouldBeNil)
			}

			fromLedger, err := svc.RateMatch(ctx, match("next", nil, nil))
			So(err, ShouldBeNil)

			explicit := match("next", nil, nil)
			for i := range explicit.Home.Players {
				explicit.Home.Players[i].Chemistry = []model.ChemistryRecord{}
				explicit.Away.Players[i].Chemistry = []model.ChemistryRecord{}
			}
			neutral, err := svc.RateMatch(ctx, explicit)
			So(err, ShouldBeNil)

			Convey("Then the ledger history lifts the home working rating", func() {
				So(fromLedger.Home.WorkingRating, ShouldBeGreaterThan, neutral.Home.WorkingRating)
				So(fromLedger.Away.WorkingRating, ShouldBeLessThan, neutral.Away.WorkingRating)
			})
		})

		Convey("When asking for a self pair", func() {
			_, err := svc.Chemistry(ctx, 3, 3)

			Convey("Then it is an error", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestService_RateBatch(t *testing.T) {
	Convey("Given a service that has not been started", t, func() {
		svc := service.New()
		_, err := svc.RateBatch(context.Background(), []model.MatchInput{match("b0", nil, nil)})

		Convey("Then batches are refused", func() {
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})
	})

	Convey("Given a started service", t, func() {
		svc := service.New(service.WithWorkerCount(4), service.WithQueueSize(64), service.WithMaxBatchSize(32))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When rating a batch", func() {
			inputs := make([]model.MatchInput, 20)
			for i := range inputs {
				inputs[i] = match(fmt.Sprintf("b%d", i), []int{i % 3}, []int{i % 2})
			}
			inputs[7].Home.Players[1].GamesPlayed = -3

			items, err := svc.RateBatch(ctx, inputs)

			Convey("Then results come back in input order", func() {
				So(err, ShouldBeNil)
				So(items, ShouldHaveLength, 20)
				for i, it := range items {
					So(it.Index, ShouldEqual, i)
					if i == 7 {
						So(errors.Is(it.Err, model.ErrInvalidInput), ShouldBeTrue)
						So(it.Result, ShouldBeNil)
						continue
					}
					So(it.Err, ShouldBeNil)
					So(it.Result.MatchID, ShouldEqual, fmt.Sprintf("b%d", i))
					So(math.Abs(total(it.Result.Deltas)), ShouldBeLessThan, 1e-9)
				}
			})
		})

		Convey("When the batch is too large", func() {
			_, err := svc.RateBatch(ctx, make([]model.MatchInput, 33))

			Convey("Then it is refused", func() {
				So(errors.Is(err, service.ErrBatchTooLarge), ShouldBeTrue)
			})
		})

		Convey("When the service is stopped", func() {
			svc.Stop()

			Convey("Then batches are refused again", func() {
				_, err := svc.RateBatch(ctx, []model.MatchInput{match("late", nil, nil)})
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})

	Convey("Given a started service with a tiny queue", t, func() {
		svc := service.New(service.WithWorkerCount(1), service.WithQueueSize(1), service.WithMaxBatchSize(200))
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		inputs := make([]model.MatchInput, 200)
		for i := range inputs {
			inputs[i] = match(fmt.Sprintf("q%d", i), nil, nil)
		}
		items, err := svc.RateBatch(ctx, inputs)

		Convey("Then overflow is reported per item", func() {
			So(err, ShouldBeNil)
			rated, refused := 0, 0
			for _, it := range items {
				switch {
				case it.Err == nil:
					rated++
				case errors.Is(it.Err, service.ErrBackpressure):
					refused++
				}
			}
			So(rated, ShouldBeGreaterThan, 0)
			So(rated+refused, ShouldEqual, 200)
		})
	})
}
