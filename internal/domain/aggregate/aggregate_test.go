package aggregate_test

import (
	"errors"
	"testing"
	"time"

	"github.com/mmilab/mmi/internal/domain/aggregate"
	"github.com/mmilab/mmi/internal/domain/model"
	"github.com/mmilab/mmi/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func result(gameID, pitcherID string, mmi float64) model.MMIResult {
	return model.MMIResult{
		GameID:    gameID,
		PitcherID: pitcherID,
		BatterID:  "batter-1",
		Inning:    5,
		MMI:       mmi,
		Components: model.MMIComponents{
			Leverage: 1.0,
			Pressure: 3.0,
			Fatigue:  2.0,
			// execution and bio left at zero on purpose
			Weights: model.DefaultWeights(),
		},
		Role:      model.RolePitcher,
		Timestamp: time.Date(2025, time.July, 4, 0, 0, 0, 0, time.UTC),
	}
}

func TestSummarize(t *testing.T) {
	Convey("Given results across players and games", t, func() {
		results := []model.MMIResult{
			result("g1", "p1", 0.5),
			result("g1", "p1", 1.5),
			result("g2", "p1", 2.5),
			result("g2", "p1", 3.5),
			result("g1", "p2", 1.0),
		}

		Convey("When summarizing for the pitcher role", func() {
			summaries := aggregate.Summarize(results, model.RolePitcher, 2025, "R")

			Convey("Then one summary per player comes back, sorted by id", func() {
				So(len(summaries), ShouldEqual, 2)
				So(summaries[0].PlayerID, ShouldEqual, "p1")
				So(summaries[1].PlayerID, ShouldEqual, "p2")
			})

			Convey("And the first player's distribution is exact", func() {
				s := summaries[0]
				So(s.TotalPitches, ShouldEqual, 4)
				So(s.TotalGames, ShouldEqual, 2)
				So(s.MeanMMI, ShouldAlmostEqual, 2.0, 1e-9)
				So(s.MedianMMI, ShouldAlmostEqual, 2.0, 1e-9)
				So(s.StdMMI, ShouldAlmostEqual, 1.1180339887, 1e-9)
				So(s.P25, ShouldAlmostEqual, 1.25, 1e-9)
				So(s.P75, ShouldAlmostEqual, 2.75, 1e-9)
				So(s.HighCount, ShouldEqual, 2)
				So(s.ExtremeCount, ShouldEqual, 1)
				So(s.AvgLeverage, ShouldAlmostEqual, 1.0, 1e-9)
				So(s.AvgPressure, ShouldAlmostEqual, 3.0, 1e-9)
				So(s.Season, ShouldEqual, 2025)
				So(s.SeasonType, ShouldEqual, "R")
			})

			Convey("And a single-result player degrades gracefully", func() {
				s := summaries[1]
				So(s.TotalPitches, ShouldEqual, 1)
				So(s.MeanMMI, ShouldEqual, 1.0)
				So(s.MedianMMI, ShouldEqual, 1.0)
				So(s.StdMMI, ShouldEqual, 0.0)
				So(s.P99, ShouldEqual, 1.0)
			})
		})

		Convey("When summarizing for the other role", func() {
			summaries := aggregate.Summarize(results, model.RoleBatter, 2025, "R")

			Convey("Then mismatched results are skipped entirely", func() {
				So(len(summaries), ShouldEqual, 0)
			})
		})
	})
}

func TestTopMoments(t *testing.T) {
	Convey("Given a mixed result stream", t, func() {
		results := []model.MMIResult{
			result("g1", "p1", 1.2),
			result("g1", "p1", 3.4),
			result("g2", "p2", 2.1),
			result("g2", "p1", 2.9),
			result("g3", "p3", 0.4),
		}

		Convey("When extracting moments above the high threshold", func() {
			moments := aggregate.TopMoments(results, scoring.HighThreshold, 0)

			Convey("Then they come back descending by score", func() {
				So(len(moments), ShouldEqual, 3)
				So(moments[0].MMI, ShouldEqual, 3.4)
				So(moments[1].MMI, ShouldEqual, 2.9)
				So(moments[2].MMI, ShouldEqual, 2.1)
			})
		})

		Convey("When a limit truncates the list", func() {
			moments := aggregate.TopMoments(results, scoring.HighThreshold, 2)

			Convey("Then only the strongest survive", func() {
				So(len(moments), ShouldEqual, 2)
				So(moments[0].MMI, ShouldEqual, 3.4)
			})
		})

		Convey("When the threshold excludes everything", func() {
			moments := aggregate.TopMoments(results, 10.0, 0)

			Convey("Then the list is empty, not nil-panicking", func() {
				So(len(moments), ShouldEqual, 0)
			})
		})
	})
}

func TestSeason(t *testing.T) {
	Convey("Given pitches spanning several games out of order", t, func() {
		eng := scoring.New()
		var pitches []model.PitchRecord
		for _, gameID := range []string{"g2", "g1", "g3", "g1", "g2", "g3"} {
			pitches = append(pitches, model.PitchRecord{
				GameID:      gameID,
				PitchNumber: 1,
				PitcherID:   "p1",
				BatterID:    "b1",
				State:       model.GameState{Inning: 4, TopHalf: true, HomeScore: 1, AwayScore: 1},
			})
		}

		Convey("When scoring the season stream", func() {
			all, err := aggregate.Season(eng, pitches, model.RolePitcher)
			So(err, ShouldBeNil)

			Convey("Then every pitch is scored, grouped by game in id order", func() {
				So(len(all), ShouldEqual, 6)
				So(all[0].GameID, ShouldEqual, "g1")
				So(all[1].GameID, ShouldEqual, "g1")
				So(all[2].GameID, ShouldEqual, "g2")
				So(all[4].GameID, ShouldEqual, "g3")
			})
		})

		Convey("When one game contains an invalid pitch", func() {
			bad := append([]model.PitchRecord{}, pitches...)
			bad[2].PitchNumber = 0
			_, err := aggregate.Season(eng, bad, model.RolePitcher)

			Convey("Then the season run fails", func() {
				So(errors.Is(err, model.ErrInvalidPitch), ShouldBeTrue)
			})
		})
	})
}

func TestExportGame(t *testing.T) {
	Convey("Given a scored game", t, func() {
		eng := scoring.New()
		pitches := []model.PitchRecord{
			{
				GameID:      "g1",
				PitchID:     "pt-1",
				PitchNumber: 1,
				PitcherID:   "p1",
				BatterID:    "b1",
				State: model.GameState{
					Inning: 8, TopHalf: false, Outs: 2,
					Bases:     model.BaseState{First: true, Third: true},
					HomeScore: 2, AwayScore: 3,
				},
				Count: model.Count{Balls: 3, Strikes: 2},
			},
			{
				GameID:      "g1",
				PitchNumber: 2,
				PitcherID:   "p1",
				BatterID:    "b1",
				State:       model.GameState{Inning: 8, TopHalf: false, HomeScore: 2, AwayScore: 3},
			},
		}
		results, err := eng.ComputeGame(pitches, model.RolePitcher)
		So(err, ShouldBeNil)

		Convey("When exporting the pitch and result lists together", func() {
			export, err := aggregate.ExportGame("g1", pitches, results)
			So(err, ShouldBeNil)

			Convey("Then situations and scores line up per pitch", func() {
				So(export.GameID, ShouldEqual, "g1")
				So(export.TotalPitches, ShouldEqual, 2)
				So(export.Pitches[0].PitchID, ShouldEqual, "pt-1")
				So(export.Pitches[0].Count, ShouldEqual, "3-2")
				So(export.Pitches[0].BaseCode, ShouldEqual, "1_3")
				So(export.Pitches[0].ScoreDiff, ShouldEqual, -1)
				So(export.Pitches[0].MMI, ShouldEqual, results[0].MMI)
				So(export.Pitches[0].Components["leverage"], ShouldEqual, results[0].Components.Leverage)
				So(export.Pitches[1].BaseCode, ShouldEqual, "___")
			})
		})

		Convey("When the lists are misaligned", func() {
			_, err := aggregate.ExportGame("g1", pitches, results[:1])

			Convey("Then the mismatch is rejected", func() {
				So(errors.Is(err, aggregate.ErrLengthMismatch), ShouldBeTrue)
			})
		})
	})
}
