package winprob_test

import (
	"testing"

	"github.com/mmilab/mmi/internal/domain/model"
	"github.com/mmilab/mmi/internal/domain/winprob"
	. "github.com/smartystreets/goconvey/convey"
)

func TestExpectedRuns(t *testing.T) {
	Convey("Given the run expectancy matrix", t, func() {
		Convey("Then bases empty with no outs matches the league table", func() {
			So(winprob.ExpectedRuns(0, model.BaseState{}), ShouldEqual, 0.481)
		})

		Convey("And bases loaded with no outs is the maximum", func() {
			loaded := model.BaseState{First: true, Second: true, Third: true}
			So(winprob.ExpectedRuns(0, loaded), ShouldEqual, 2.292)
		})

		Convey("And expectancy falls as outs accumulate", func() {
			bases := model.BaseState{Second: true}
			So(winprob.ExpectedRuns(1, bases), ShouldBeLessThan, winprob.ExpectedRuns(0, bases))
			So(winprob.ExpectedRuns(2, bases), ShouldBeLessThan, winprob.ExpectedRuns(1, bases))
		})

		Convey("And expectancy rises with more runners", func() {
			So(winprob.ExpectedRuns(0, model.BaseState{First: true}),
				ShouldBeGreaterThan, winprob.ExpectedRuns(0, model.BaseState{}))
			So(winprob.ExpectedRuns(0, model.BaseState{First: true, Second: true}),
				ShouldBeGreaterThan, winprob.ExpectedRuns(0, model.BaseState{First: true}))
		})

		Convey("And out-of-range outs clamp to the nearest bucket", func() {
			So(winprob.ExpectedRuns(7, model.BaseState{}), ShouldEqual, winprob.ExpectedRuns(2, model.BaseState{}))
			So(winprob.ExpectedRuns(-1, model.BaseState{}), ShouldEqual, winprob.ExpectedRuns(0, model.BaseState{}))
		})
	})
}

func TestWinProbability(t *testing.T) {
	Convey("Given a win probability model", t, func() {
		m := winprob.New()

		Convey("Then all outputs stay within [0,1]", func() {
			states := []model.GameState{
				{Inning: 1, TopHalf: true},
				{Inning: 5, TopHalf: false, Outs: 2, HomeScore: 3, AwayScore: 3},
				{Inning: 9, TopHalf: true, Outs: 2, HomeScore: 1, AwayScore: 8},
				{Inning: 12, TopHalf: false, HomeScore: 4, AwayScore: 4},
			}
			for _, st := range states {
				wp := m.WinProbability(st, st.HomeBatting())
				So(wp, ShouldBeBetweenOrEqual, 0.0, 1.0)
			}
		})

		Convey("When the game opens tied", func() {
			st := model.GameState{Inning: 1, TopHalf: true}
			wp := m.WinProbability(st, false)

			Convey("Then the probability sits near even", func() {
				So(wp, ShouldBeBetween, 0.4, 0.6)
			})
		})

		Convey("When the home team leads big late", func() {
			st := model.GameState{Inning: 8, TopHalf: true, HomeScore: 9, AwayScore: 1}
			wp := m.WinProbability(st, false)

			Convey("Then the home team is a heavy favorite", func() {
				So(wp, ShouldBeGreaterThan, 0.9)
			})
		})

		Convey("When the home team trails big late", func() {
			st := model.GameState{Inning: 8, TopHalf: false, HomeScore: 1, AwayScore: 10}
			wp := m.WinProbability(st, true)

			Convey("Then the home team is a heavy underdog", func() {
				So(wp, ShouldBeLessThan, 0.1)
			})
		})

		Convey("When the home team leads in the bottom of the ninth", func() {
			st := model.GameState{Inning: 9, TopHalf: false, HomeScore: 5, AwayScore: 4}
			wp := m.WinProbability(st, true)

			Convey("Then the game is already won", func() {
				So(wp, ShouldEqual, 1.0)
			})
		})

		Convey("When extra innings resolve after the top half", func() {
			ahead := model.GameState{Inning: 10, TopHalf: true, HomeScore: 6, AwayScore: 5}
			behind := model.GameState{Inning: 10, TopHalf: true, HomeScore: 5, AwayScore: 6}

			Convey("Then a lead is decisive either way", func() {
				So(m.WinProbability(ahead, false), ShouldEqual, 1.0)
				So(m.WinProbability(behind, false), ShouldEqual, 0.0)
			})
		})

		Convey("When sweeping the run differential with everything else fixed", func() {
			prev := -1.0
			for diff := -10; diff <= 10; diff++ {
				st := model.GameState{Inning: 6, TopHalf: true, Outs: 1, AwayScore: 10, HomeScore: 10 + diff}
				wp := m.WinProbability(st, false)
				So(wp, ShouldBeGreaterThanOrEqualTo, prev)
				prev = wp
			}

			Convey("Then the home team's chances never drop as its lead grows", func() {
				So(prev, ShouldBeGreaterThan, 0.8)
			})
		})

		Convey("When a runner on third raises the batting side's outlook", func() {
			base := model.GameState{Inning: 7, TopHalf: false, Outs: 1, HomeScore: 3, AwayScore: 3}
			withRunner := base
			withRunner.Bases.Third = true

			Convey("Then home batting with the runner scores higher", func() {
				So(m.WinProbability(withRunner, true), ShouldBeGreaterThan, m.WinProbability(base, true))
			})
		})
	})
}
