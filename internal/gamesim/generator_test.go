package gamesim

import (
	"context"
	"testing"

	"github.com/mmilab/mmi/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestGenerateSingleGame(t *testing.T) {
	Convey("Given a generated game", t, func() {
		game := generateSingleGame(300)

		Convey("Then it has an id and pitches", func() {
			So(game.GameID, ShouldStartWith, "sim-")
			So(len(game.Pitches), ShouldBeGreaterThan, 0)
			So(len(game.Pitches), ShouldBeLessThanOrEqualTo, 300)
		})

		Convey("And every pitch validates", func() {
			for _, p := range game.Pitches {
				So(p.Validate(), ShouldBeNil)
			}
		})

		Convey("And pitch numbering restarts per plate appearance", func() {
			lastAtBat := -1
			for _, p := range game.Pitches {
				if p.AtBatIndex != lastAtBat {
					So(p.PitchNumber, ShouldEqual, 1)
					lastAtBat = p.AtBatIndex
				}
			}
		})

		Convey("And the final pitch of each plate appearance is flagged", func() {
			for i, p := range game.Pitches {
				last := i == len(game.Pitches)-1 || game.Pitches[i+1].AtBatIndex != p.AtBatIndex
				if last && i < len(game.Pitches)-1 {
					So(p.FinalPitchOfPA, ShouldBeTrue)
				}
			}
		})

		Convey("And innings only move forward", func() {
			prev := 0
			for _, p := range game.Pitches {
				So(p.State.Inning, ShouldBeGreaterThanOrEqualTo, prev)
				prev = p.State.Inning
			}
		})

		Convey("And teams are distinct", func() {
			So(game.Pitches[0].HomeTeam, ShouldNotEqual, game.Pitches[0].AwayTeam)
		})
	})
}

func TestGenerateGames(t *testing.T) {
	Convey("Given a generation config", t, func() {
		config := &Config{
			NumGames:       4,
			PitchesPerGame: 120,
			Workers:        2,
		}
		stats := &Stats{}

		Convey("When games are generated", func() {
			games, err := generateGames(context.Background(), config, stats)

			Convey("Then the requested number is produced", func() {
				So(err, ShouldBeNil)
				So(games, ShouldHaveLength, 4)
				So(stats.GamesGenerated, ShouldEqual, 4)
				So(stats.PitchesGenerated, ShouldBeGreaterThan, 0)
			})

			Convey("And game ids are unique", func() {
				So(err, ShouldBeNil)
				seen := make(map[string]bool)
				for _, g := range games {
					So(seen[g.GameID], ShouldBeFalse)
					seen[g.GameID] = true
				}
			})
		})
	})
}
