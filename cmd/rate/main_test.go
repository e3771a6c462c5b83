package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/kickrate/internal/domain/model"
)

func matchJSON(homeGoals int) string {
	var b strings.Builder
	b.WriteString(`{"matchId":"cli-1","home":{"players":[`)
	for i := 1; i <= 5; i++ {
		if i > 1 {
			b.WriteString(",")
		}
		goals := 0
		if i == 1 {
			goals = homeGoals
		}
		fmt.Fprintf(&b, `{"playerId":%d,"rating":1500,"goals":%d,"gamesPlayed":3}`, i, goals)
	}
	b.WriteString(`]},"away":{"players":[`)
	for i := 6; i <= 10; i++ {
		if i > 6 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"playerId":%d,"rating":1500,"gamesPlayed":3}`, i)
	}
	b.WriteString(`]}}`)
	return b.String()
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	Convey("Given a match on stdin", t, func() {
		var out, errOut bytes.Buffer

		Convey("When rating it", func() {
			err := run(ctx, []string{"-pretty"}, strings.NewReader(matchJSON(2)), &out, &errOut)
			So(err, ShouldBeNil)

			Convey("Then the result is printed as JSON", func() {
				var res model.RatingResult
				So(json.Unmarshal(out.Bytes(), &res), ShouldBeNil)
				So(res.MatchID, ShouldEqual, "cli-1")
				So(res.Home.Outcome, ShouldEqual, "win")
				So(res.Deltas[1], ShouldBeGreaterThan, 0.0)
				So(res.Deltas[6], ShouldBeLessThan, 0.0)
				So(out.String(), ShouldContainSubstring, "\n  ")
			})
		})

		Convey("When the input has unknown fields", func() {
			err := run(ctx, nil, strings.NewReader(`{"bogus":1}`), &out, &errOut)

			Convey("Then decoding fails", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "decode match")
			})
		})

		Convey("When a side is short", func() {
			err := run(ctx, nil, strings.NewReader(`{"home":{"players":[]},"away":{"players":[]}}`), &out, &errOut)

			Convey("Then the engine rejects it", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})

	Convey("Given a match file and a config file", t, func() {
		dir := t.TempDir()
		matchPath := filepath.Join(dir, "match.json")
		So(os.WriteFile(matchPath, []byte(matchJSON(0)), 0o600), ShouldBeNil)
		cfgPath := filepath.Join(dir, "kickrate.yaml")
		So(os.WriteFile(cfgPath, []byte("rating:\n  draw_dampening: 0\n"), 0o600), ShouldBeNil)

		Convey("When rating a draw with draw dampening disabled", func() {
			var out, errOut bytes.Buffer
			err := run(ctx, []string{"-in", matchPath, "-config", cfgPath}, nil, &out, &errOut)
			So(err, ShouldBeNil)

			Convey("Then every delta is zero", func() {
				var res model.RatingResult
				So(json.Unmarshal(out.Bytes(), &res), ShouldBeNil)
				So(res.Home.Outcome, ShouldEqual, "draw")
				for _, d := range res.Deltas {
					So(d, ShouldAlmostEqual, 0.0, 1e-9)
				}
			})
		})

		Convey("When extra arguments are given", func() {
			var out, errOut bytes.Buffer
			err := run(ctx, []string{"-in", matchPath, "extra"}, nil, &out, &errOut)

			Convey("Then usage is printed", func() {
				So(err, ShouldEqual, errUsage)
				So(errOut.String(), ShouldContainSubstring, "Usage: rate")
			})
		})
	})
}
