package service_test

import (
	"context"
	"testing"
	"time"

	service "github.com/mmilab/mmi/internal/app"
	"github.com/mmilab/mmi/internal/domain/model"
	"github.com/mmilab/mmi/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// gamePitches builds a short valid pitch sequence for one game.
func gamePitches(gameID string, n int) []model.PitchRecord {
	pitches := make([]model.PitchRecord, 0, n)
	for i := 0; i < n; i++ {
		pitches = append(pitches, model.PitchRecord{
			GameID:      gameID,
			AtBatIndex:  i / 3,
			PitchNumber: i%3 + 1,
			GameDate:    time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC),
			BatterID:    "batter-1",
			BatterTeam:  "BOS",
			PitcherID:   "pitcher-1",
			PitcherTeam: "NYY",
			HomeTeam:    "NYY",
			AwayTeam:    "BOS",
			State: model.GameState{
				Inning:    i/6 + 1,
				TopHalf:   true,
				Outs:      i % 3,
				HomeScore: 2,
				AwayScore: 1,
			},
			Count:  model.Count{Balls: i % 4, Strikes: i % 3},
			Result: model.Ball,
		})
	}
	return pitches
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithWorkerCount(4),
			service.WithQueueSize(256),
			service.WithLeverageCacheSize(1000),
			service.WithLeagueAvgAttendance(28_000),
			service.WithWeightMap(map[string]float64{"leverage": 0.5, "pressure": 0.2}),
		)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithWorkerCount(2))
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
			})

			Convey("And it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
			})

			Convey("And a second start is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(service.WithWorkerCount(2))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, false)
			})

			Convey("And a second stop is a no-op", func() {
				So(svc.Stop, ShouldNotPanic)
			})
		})
	})
}

func TestService_NotStarted(t *testing.T) {
	Convey("Given a service that was never started", t, func() {
		svc := service.New()
		ctx := context.Background()

		Convey("Then enqueueing is rejected", func() {
			ok := svc.EnqueueGame(ctx, "game-1", model.RolePitcher, gamePitches("game-1", 3))
			So(ok, ShouldBeFalse)
		})

		Convey("And synchronous scoring reports not started", func() {
			_, err := svc.ScoreGameSync(ctx, "game-1", model.RolePitcher, gamePitches("game-1", 3))
			So(err, ShouldEqual, service.ErrNotStarted)
		})

		Convey("And reloading scalers reports not started", func() {
			err := svc.ReloadScalers(ctx, "does-not-matter.json")
			So(err, ShouldEqual, service.ErrNotStarted)
		})
	})
}

func TestService_ScoreGameSync(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(service.WithWorkerCount(1))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When scoring a game synchronously", func() {
			results, err := svc.ScoreGameSync(ctx, "game-sync", model.RoleBatter, gamePitches("game-sync", 6))

			Convey("Then results are returned and stored", func() {
				So(err, ShouldBeNil)
				So(results, ShouldHaveLength, 6)

				stored, err := svc.GameResults(ctx, "game-sync", model.RoleBatter)
				So(err, ShouldBeNil)
				So(stored, ShouldHaveLength, 6)
			})
		})
	})
}
