package leverage_test

import (
	"testing"

	"github.com/mmilab/mmi/internal/domain/leverage"
	"github.com/mmilab/mmi/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLeverageIndex(t *testing.T) {
	Convey("Given a leverage engine", t, func() {
		eng := leverage.New()

		Convey("When the same state is scored twice", func() {
			state := model.GameState{Inning: 7, TopHalf: false, Outs: 1, HomeScore: 2, AwayScore: 3}
			first := eng.For(state)
			second := eng.For(state)

			Convey("Then the results are identical and memoized once", func() {
				So(second, ShouldEqual, first)
				So(eng.CacheLen(), ShouldEqual, 1)
			})
		})

		Convey("When the tying run stands in scoring position in the ninth", func() {
			clutch := model.GameState{
				Inning: 9, TopHalf: true, Outs: 2,
				Bases:     model.BaseState{Second: true, Third: true},
				HomeScore: 4, AwayScore: 3,
			}
			blowout := model.GameState{Inning: 2, TopHalf: true, HomeScore: 10, AwayScore: 0}

			Convey("Then the moment is far above average leverage", func() {
				So(eng.For(clutch), ShouldBeGreaterThan, 1.5)
				So(eng.For(clutch), ShouldBeGreaterThan, eng.For(blowout))
			})
		})

		Convey("When comparing a tight late game to a blowout", func() {
			tight := model.GameState{
				Inning: 9, TopHalf: false, Outs: 2,
				Bases:     model.BaseState{Second: true},
				HomeScore: 3, AwayScore: 4,
			}
			blowout := model.GameState{Inning: 3, TopHalf: true, HomeScore: 11, AwayScore: 0}

			Convey("Then the tight game carries far more leverage", func() {
				So(eng.For(tight), ShouldBeGreaterThan, eng.For(blowout))
				So(eng.For(blowout), ShouldBeLessThan, 0.5)
			})
		})

		Convey("When scoring any state", func() {
			states := []model.GameState{
				{Inning: 1, TopHalf: true},
				{Inning: 9, TopHalf: false, Outs: 2, Bases: model.BaseState{First: true, Second: true, Third: true}, HomeScore: 4, AwayScore: 5},
				{Inning: 6, TopHalf: true, HomeScore: 0, AwayScore: 12},
			}

			Convey("Then leverage is never negative", func() {
				for _, st := range states {
					So(eng.For(st), ShouldBeGreaterThanOrEqualTo, 0.0)
				}
			})
		})

		Convey("When exposing the win probability for a state", func() {
			state := model.GameState{Inning: 5, TopHalf: true, HomeScore: 2, AwayScore: 2}

			Convey("Then it stays within [0,1]", func() {
				So(eng.WinProbability(state), ShouldBeBetweenOrEqual, 0.0, 1.0)
			})
		})
	})
}

func TestCaches(t *testing.T) {
	Convey("Given the cache implementations", t, func() {
		key := func(inning int) leverage.Key {
			return model.GameState{Inning: inning, TopHalf: true}
		}

		Convey("When using the unbounded map cache", func() {
			c := leverage.NewMapCache()
			c.Put(key(1), 1.5)
			c.Put(key(2), 2.5)

			Convey("Then stored values round trip", func() {
				v, ok := c.Get(key(1))
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 1.5)
				So(c.Len(), ShouldEqual, 2)

				_, ok = c.Get(key(9))
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the bounded cache overflows", func() {
			c := leverage.NewBoundedCache(2)
			c.Put(key(1), 1.0)
			c.Put(key(2), 2.0)
			c.Put(key(3), 3.0)

			Convey("Then the oldest entry is evicted", func() {
				So(c.Len(), ShouldEqual, 2)
				_, ok := c.Get(key(1))
				So(ok, ShouldBeFalse)
				v, ok := c.Get(key(3))
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 3.0)
			})
		})

		Convey("When a bounded cache key is rewritten", func() {
			c := leverage.NewBoundedCache(2)
			c.Put(key(1), 1.0)
			c.Put(key(1), 1.1)

			Convey("Then the value updates without growing the cache", func() {
				So(c.Len(), ShouldEqual, 1)
				v, _ := c.Get(key(1))
				So(v, ShouldEqual, 1.1)
			})
		})

		Convey("When the bounded cache is given no capacity", func() {
			c := leverage.NewBoundedCache(0)
			for i := 1; i <= 10; i++ {
				c.Put(key(i), float64(i))
			}

			Convey("Then it falls back to the unbounded cache", func() {
				So(c.Len(), ShouldEqual, 10)
			})
		})

		Convey("When using the no-op cache", func() {
			c := leverage.NewNopCache()
			c.Put(key(1), 1.0)

			Convey("Then nothing is stored", func() {
				_, ok := c.Get(key(1))
				So(ok, ShouldBeFalse)
				So(c.Len(), ShouldEqual, 0)
			})
		})

		Convey("When an engine runs with a no-op cache", func() {
			eng := leverage.New(leverage.WithCache(leverage.NewNopCache()))
			state := model.GameState{Inning: 4, TopHalf: false, HomeScore: 1, AwayScore: 1}
			first := eng.For(state)
			second := eng.For(state)

			Convey("Then results stay deterministic with an empty cache", func() {
				So(second, ShouldEqual, first)
				So(eng.CacheLen(), ShouldEqual, 0)
			})
		})
	})
}
