package scoring_test

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/mmilab/mmi/internal/domain/model"
	"github.com/mmilab/mmi/internal/domain/scaling"
	"github.com/mmilab/mmi/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func validPitch() model.PitchRecord {
	return model.PitchRecord{
		GameID:      "game-1",
		PitchID:     "p-1",
		AtBatIndex:  0,
		PitchNumber: 1,
		GameDate:    time.Date(2025, time.June, 14, 19, 5, 0, 0, time.UTC),
		BatterID:    "batter-1",
		BatterTeam:  "BOS",
		PitcherID:   "pitcher-1",
		PitcherTeam: "NYY",
		HomeTeam:    "NYY",
		AwayTeam:    "BOS",
		State:       model.GameState{Inning: 7, TopHalf: true, Outs: 1, HomeScore: 3, AwayScore: 2},
		Count:       model.Count{Balls: 1, Strikes: 1},
		Type:        model.Fastball,
		Velocity:    95.2,
		Result:      model.CalledStrike,
	}
}

func gamePitches(n int) []model.PitchRecord {
	pitches := make([]model.PitchRecord, 0, n)
	for i := 0; i < n; i++ {
		p := validPitch()
		p.PitchID = ""
		p.AtBatIndex = i / 3
		p.PitchNumber = i%3 + 1
		p.State.Inning = i/6 + 1
		p.State.Outs = i % 3
		p.Count = model.Count{Balls: i % 4, Strikes: i % 3}
		pitches = append(pitches, p)
	}
	return pitches
}

func TestCompute(t *testing.T) {
	Convey("Given a scoring engine with defaults", t, func() {
		eng := scoring.New()

		Convey("When scoring a valid pitch with no workload", func() {
			result, err := eng.Compute(validPitch(), model.RolePitcher, nil)
			So(err, ShouldBeNil)

			Convey("Then the result carries the full breakdown", func() {
				So(result.GameID, ShouldEqual, "game-1")
				So(result.PitcherID, ShouldEqual, "pitcher-1")
				So(result.Inning, ShouldEqual, 7)
				So(result.Role, ShouldEqual, model.RolePitcher)
				So(result.Components.Leverage, ShouldBeGreaterThan, 0.0)
				So(result.Components.Pressure, ShouldBeGreaterThan, 0.0)
				So(result.Components.Weights.Sum(), ShouldAlmostEqual, 1.0, 1e-9)
				So(result.Meta["pitch_number"], ShouldEqual, "1")
			})

			Convey("And the score is the weighted sum of the z-scores", func() {
				So(result.MMI, ShouldAlmostEqual, result.Components.WeightedSum(), 1e-12)
			})

			Convey("And scoring the same pitch again is deterministic", func() {
				again, err := eng.Compute(validPitch(), model.RolePitcher, nil)
				So(err, ShouldBeNil)
				So(again.MMI, ShouldEqual, result.MMI)
				So(again.Timestamp, ShouldEqual, result.Timestamp)
			})
		})

		Convey("When the role is invalid", func() {
			_, err := eng.Compute(validPitch(), model.Role("umpire"), nil)

			Convey("Then validation rejects it", func() {
				So(errors.Is(err, model.ErrInvalidRole), ShouldBeTrue)
			})
		})

		Convey("When the pitch itself is invalid", func() {
			p := validPitch()
			p.GameID = ""
			_, err := eng.Compute(p, model.RolePitcher, nil)

			Convey("Then validation rejects it", func() {
				So(errors.Is(err, model.ErrInvalidPitch), ShouldBeTrue)
			})
		})

		Convey("When the workload variant does not match the role", func() {
			_, err := eng.Compute(validPitch(), model.RolePitcher, model.BatterContext{})

			Convey("Then a context mismatch surfaces", func() {
				So(errors.Is(err, scoring.ErrContextMismatch), ShouldBeTrue)
			})
		})

		Convey("When scoring for the batter with a batter workload", func() {
			ctx := model.DefaultBatterContext()
			ctx.PitcherQuality = 120
			result, err := eng.Compute(validPitch(), model.RoleBatter, ctx)
			So(err, ShouldBeNil)

			Convey("Then the result is tagged for the batter", func() {
				So(result.Role, ShouldEqual, model.RoleBatter)
				So(result.BatterID, ShouldEqual, "batter-1")
			})
		})
	})
}

func TestComputeWithWeights(t *testing.T) {
	Convey("Given a scoring engine", t, func() {
		eng := scoring.New()

		Convey("When the caller supplies unnormalized weights", func() {
			w := model.Weights{Leverage: 7, Pressure: 1, Fatigue: 1, Execution: 0.5, Bio: 0.5}
			result, err := eng.ComputeWithWeights(validPitch(), model.RolePitcher, nil, w)
			So(err, ShouldBeNil)

			Convey("Then they are renormalized preserving proportions", func() {
				applied := result.Components.Weights
				So(applied.Sum(), ShouldAlmostEqual, 1.0, 1e-9)
				So(applied.Leverage, ShouldAlmostEqual, 0.7, 1e-9)
				So(applied.Leverage/applied.Pressure, ShouldAlmostEqual, 7.0, 1e-9)
			})
		})

		Convey("When weights shift toward a single component", func() {
			base, err := eng.Compute(validPitch(), model.RolePitcher, nil)
			So(err, ShouldBeNil)
			leverageOnly := model.Weights{Leverage: 1}
			skewed, err := eng.ComputeWithWeights(validPitch(), model.RolePitcher, nil, leverageOnly)
			So(err, ShouldBeNil)

			Convey("Then the score tracks that component's z-score", func() {
				So(skewed.MMI, ShouldAlmostEqual, skewed.Components.ZLeverage, 1e-9)
				So(skewed.Components.Leverage, ShouldEqual, base.Components.Leverage)
			})
		})
	})
}

func TestComputeGame(t *testing.T) {
	Convey("Given an ordered game pitch sequence", t, func() {
		eng := scoring.New()
		pitches := gamePitches(12)

		Convey("When scoring it for the pitcher", func() {
			results, err := eng.ComputeGame(pitches, model.RolePitcher)
			So(err, ShouldBeNil)

			Convey("Then every pitch yields a result in order", func() {
				So(len(results), ShouldEqual, 12)
				for i, r := range results {
					So(r.Role, ShouldEqual, model.RolePitcher)
					So(r.Meta["pitch_number"], ShouldEqual, strconv.Itoa(i%3+1))
					So(r.GameID, ShouldEqual, "game-1")
				}
			})
		})

		Convey("When scoring it for the batter", func() {
			results, err := eng.ComputeGame(pitches, model.RoleBatter)
			So(err, ShouldBeNil)

			Convey("Then plate appearances drive the rolling workload", func() {
				So(len(results), ShouldEqual, 12)
				So(results[0].Role, ShouldEqual, model.RoleBatter)
			})
		})

		Convey("When the role is invalid", func() {
			_, err := eng.ComputeGame(pitches, model.Role(""))

			Convey("Then nothing is scored", func() {
				So(errors.Is(err, model.ErrInvalidRole), ShouldBeTrue)
			})
		})

		Convey("When a pitch mid-sequence is invalid", func() {
			bad := gamePitches(6)
			bad[3].State.Outs = 7
			_, err := eng.ComputeGame(bad, model.RolePitcher)

			Convey("Then the whole game fails validation", func() {
				So(errors.Is(err, model.ErrInvalidState), ShouldBeTrue)
			})
		})

		Convey("When the sequence is empty", func() {
			results, err := eng.ComputeGame(nil, model.RolePitcher)

			Convey("Then an empty result list comes back", func() {
				So(err, ShouldBeNil)
				So(len(results), ShouldEqual, 0)
			})
		})
	})
}

func TestComputePA(t *testing.T) {
	Convey("Given a plate appearance pitch sequence", t, func() {
		eng := scoring.New()
		pa := gamePitches(4)
		for i := range pa {
			pa[i].AtBatIndex = 0
			pa[i].PitchNumber = i + 1
		}

		Convey("When collapsing with the max strategy", func() {
			result, err := eng.ComputePA(pa, model.RolePitcher, scoring.AggregateMax, nil)
			So(err, ShouldBeNil)

			Convey("Then the highest-scoring pitch wins verbatim", func() {
				// Same default workload per pitch as the PA call itself.
				best, err := eng.Compute(pa[0], model.RolePitcher, nil)
				So(err, ShouldBeNil)
				for _, p := range pa[1:] {
					r, err := eng.Compute(p, model.RolePitcher, nil)
					So(err, ShouldBeNil)
					if r.MMI > best.MMI {
						best = r
					}
				}
				So(result.MMI, ShouldAlmostEqual, best.MMI, 1e-9)
				So(result.Components.Leverage, ShouldEqual, best.Components.Leverage)
			})
		})

		Convey("When collapsing with the mean strategy", func() {
			result, err := eng.ComputePA(pa, model.RolePitcher, scoring.AggregateMean, nil)
			So(err, ShouldBeNil)

			Convey("Then the meta records the strategy and pitch count", func() {
				So(result.Meta["aggregation"], ShouldEqual, "mean")
				So(result.Meta["pitch_count"], ShouldEqual, "4")
				So(result.GameID, ShouldEqual, "game-1")
			})
		})

		Convey("When collapsing with the weighted strategy", func() {
			weighted, err := eng.ComputePA(pa, model.RolePitcher, scoring.AggregateWeighted, nil)
			So(err, ShouldBeNil)
			mean, err := eng.ComputePA(pa, model.RolePitcher, scoring.AggregateMean, nil)
			So(err, ShouldBeNil)

			Convey("Then the leverage-weighted score is a valid aggregate", func() {
				So(weighted.Meta["aggregation"], ShouldEqual, "weighted")
				So(weighted.Components.Leverage, ShouldBeGreaterThan, 0.0)
				So(weighted.Inning, ShouldEqual, mean.Inning)
			})
		})

		Convey("When every pitch of the appearance carries zero leverage", func() {
			decided := make([]model.PitchRecord, 3)
			for i := range decided {
				p := validPitch()
				p.PitchNumber = i + 1
				p.State = model.GameState{Inning: 10, TopHalf: true, HomeScore: 8, AwayScore: 2}
				decided[i] = p
			}
			weighted, err := eng.ComputePA(decided, model.RolePitcher, scoring.AggregateWeighted, nil)
			So(err, ShouldBeNil)
			mean, err := eng.ComputePA(decided, model.RolePitcher, scoring.AggregateMean, nil)
			So(err, ShouldBeNil)

			Convey("Then the weighted strategy falls back to the mean exactly", func() {
				So(weighted.Components.Leverage, ShouldEqual, 0.0)
				So(weighted.MMI, ShouldEqual, mean.MMI)
				So(weighted.Components.ZLeverage, ShouldEqual, mean.Components.ZLeverage)
				So(weighted.Components.Pressure, ShouldEqual, mean.Components.Pressure)
				So(weighted.Components.ZBio, ShouldEqual, mean.Components.ZBio)
			})
		})

		Convey("When the sequence is empty", func() {
			_, err := eng.ComputePA(nil, model.RolePitcher, scoring.AggregateMax, nil)

			Convey("Then the empty-input error surfaces", func() {
				So(errors.Is(err, scoring.ErrNoPitches), ShouldBeTrue)
			})
		})

		Convey("When the strategy is unknown", func() {
			_, err := eng.ComputePA(pa, model.RolePitcher, scoring.PAAggregation(42), nil)

			Convey("Then the unknown-aggregation error surfaces", func() {
				So(errors.Is(err, scoring.ErrUnknownAggregation), ShouldBeTrue)
			})
		})
	})
}

func TestParseAggregation(t *testing.T) {
	Convey("Given aggregation wire names", t, func() {
		Convey("Then the three strategies round trip", func() {
			for _, name := range []string{"max", "mean", "weighted"} {
				agg, err := scoring.ParseAggregation(name)
				So(err, ShouldBeNil)
				So(agg.String(), ShouldEqual, name)
			}
		})

		Convey("And an unknown name is rejected", func() {
			_, err := scoring.ParseAggregation("median")
			So(errors.Is(err, scoring.ErrUnknownAggregation), ShouldBeTrue)
		})
	})
}

func TestScalerLifecycle(t *testing.T) {
	Convey("Given a scoring engine and a pitch sample", t, func() {
		eng := scoring.New()
		pitches := gamePitches(30)

		Convey("When fitting scalers from the sample", func() {
			set, err := eng.FitScalers(pitches, model.RolePitcher, 2025, "R")
			So(err, ShouldBeNil)

			Convey("Then the fit covers the whole sample", func() {
				So(set.SampleSize, ShouldEqual, 30)
				So(set.Season, ShouldEqual, 2025)
				So(set.Leverage.Std, ShouldBeGreaterThan, 0.0)
			})

			Convey("And swapping the fit in changes subsequent scores", func() {
				before, err := eng.Compute(validPitch(), model.RolePitcher, nil)
				So(err, ShouldBeNil)
				eng.SwapScalers(set)
				So(eng.Scalers(), ShouldEqual, set)
				after, err := eng.Compute(validPitch(), model.RolePitcher, nil)
				So(err, ShouldBeNil)
				So(after.Components.Leverage, ShouldEqual, before.Components.Leverage)
				So(after.MMI, ShouldNotEqual, before.MMI)
			})
		})

		Convey("When fitting from an empty sample", func() {
			_, err := eng.FitScalers(nil, model.RolePitcher, 2025, "R")

			Convey("Then the empty-input error surfaces", func() {
				So(errors.Is(err, scoring.ErrNoPitches), ShouldBeTrue)
			})
		})

		Convey("When swapping in a nil set", func() {
			active := eng.Scalers()
			eng.SwapScalers(nil)

			Convey("Then the active set stays untouched", func() {
				So(eng.Scalers(), ShouldEqual, active)
			})
		})

		Convey("When constructed with an explicit scaler set", func() {
			custom := scaling.Default()
			engine := scoring.New(scoring.WithScalerSet(custom))

			Convey("Then the set is active from the start", func() {
				So(engine.Scalers(), ShouldEqual, custom)
			})
		})
	})
}

func TestLeverageExposure(t *testing.T) {
	Convey("Given a scoring engine", t, func() {
		eng := scoring.New()
		state := model.GameState{Inning: 9, TopHalf: false, Outs: 2, HomeScore: 2, AwayScore: 3}

		Convey("When asking for leverage directly", func() {
			li := eng.Leverage(state)

			Convey("Then the value is memoized for later pitches", func() {
				So(li, ShouldBeGreaterThan, 0.0)
				So(eng.LeverageCacheLen(), ShouldEqual, 1)
				So(eng.Leverage(state), ShouldEqual, li)
				So(eng.LeverageCacheLen(), ShouldEqual, 1)
			})
		})
	})
}
