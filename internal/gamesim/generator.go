package gamesim

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/mmilab/mmi/internal/domain/model"
	"github.com/mmilab/mmi/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
)

// Constants for the simulated game shape.
const (
	regulationInnings = 9
	outsPerHalf       = 3
	battersPerTeam    = 9
	pitchersPerTeam   = 4

	minVelocity   = 86.0
	velocityRange = 14.0
	plateXRange   = 2.4 // feet, centered on zero
	plateZMin     = 1.2
	plateZMax     = 3.8

	leagueAvgAttendance = 30000.0
	attendanceSpread    = 15000.0
)

// Pitch outcome probabilities, cumulative over [0,1).
const (
	pBall           = 0.34
	pCalledStrike   = 0.51
	pSwingingStrike = 0.61
	pFoul           = 0.79
	pHitIntoPlay    = 0.98
	// remainder: hit by pitch
)

// In-play outcome probabilities.
const (
	pInPlayOut    = 0.68
	pInPlaySingle = 0.85
	pInPlayDouble = 0.93
	pInPlayHomer  = 0.97
	// remainder: triple
)

var teamPool = []string{"NYY", "BOS", "LAD", "SFG", "HOU", "ATL", "CHC", "STL", "SEA", "TOR"}

var pitchTypes = []model.PitchType{
	model.Fastball, model.TwoSeam, model.Cutter, model.Sinker,
	model.Slider, model.Curveball, model.Changeup, model.Splitter,
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// randomIndex returns a random int in [0, n).
func randomIndex(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generateGames creates the configured number of synthetic games.
func generateGames(ctx context.Context, config *Config, stats *Stats) ([]Game, error) {
	logger.Get().Info(ctx, "generating synthetic games",
		logger.Int("numGames", config.NumGames),
		logger.Int("pitchesPerGame", config.PitchesPerGame))

	games := make([]Game, config.NumGames)

	type gameResult struct {
		index int
		game  Game
		err   error
	}

	resultChan := make(chan gameResult, config.NumGames)

	// Use worker pool for game generation
	workerCount := minInt(config.Workers, config.NumGames)
	if workerCount < 1 {
		workerCount = 1
	}
	gamesPerWorker := config.NumGames / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * gamesPerWorker
		end := start + gamesPerWorker
		if worker == workerCount-1 {
			end = config.NumGames // Last worker gets remaining games
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- gameResult{index: i, err: ctx.Err()}
					return
				default:
					game := generateSingleGame(config.PitchesPerGame)
					resultChan <- gameResult{index: i, game: game}
				}
			}
		}(start, end)
	}

	// Collect results
	pitchTotal := 0
	for i := 0; i < config.NumGames; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during game generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate game %d: %w", result.index, result.err)
			}
			games[result.index] = result.game
			pitchTotal += len(result.game.Pitches)
		}
	}

	stats.GamesGenerated = len(games)
	stats.PitchesGenerated = pitchTotal
	logger.Get().Info(ctx, "generated games successfully",
		logger.Int("games", len(games)),
		logger.Int("pitches", pitchTotal))

	return games, nil
}

// roster holds the generated players for one team.
type roster struct {
	team     string
	batters  []string
	pitchers []string
}

func newRoster(team string) roster {
	r := roster{team: team}
	for i := 0; i < battersPerTeam; i++ {
		r.batters = append(r.batters, uuid.New().String())
	}
	for i := 0; i < pitchersPerTeam; i++ {
		r.pitchers = append(r.pitchers, uuid.New().String())
	}
	return r
}

// simState tracks the evolving game situation during simulation.
type simState struct {
	inning    int
	topHalf   bool
	outs      int
	bases     model.BaseState
	homeScore int
	awayScore int
}

// generateSingleGame simulates one nine-inning game pitch by pitch.
// maxPitches is a hard cap guarding against degenerate sequences.
func generateSingleGame(maxPitches int) Game {
	gameID := "sim-" + uuid.New().String()
	gameDate := time.Now().UTC().Truncate(24 * time.Hour)

	homeIdx := randomIndex(len(teamPool))
	awayIdx := randomIndex(len(teamPool) - 1)
	if awayIdx >= homeIdx {
		awayIdx++
	}
	home := newRoster(teamPool[homeIdx])
	away := newRoster(teamPool[awayIdx])

	attendance := int(leagueAvgAttendance - attendanceSpread/2 + getRandomFloat()*attendanceSpread)

	if maxPitches <= 0 {
		maxPitches = 400
	}

	st := simState{inning: 1, topHalf: true}
	atBatIndex := 0
	pitches := make([]model.PitchRecord, 0, maxPitches)
	homeBatter, awayBatter := 0, 0

	for st.inning <= regulationInnings && len(pitches) < maxPitches {
		batting, fielding := &home, &away
		batterSlot := &homeBatter
		if st.topHalf {
			batting, fielding = &away, &home
			batterSlot = &awayBatter
		}

		batterID := batting.batters[*batterSlot%battersPerTeam]
		*batterSlot++
		pitcherID := fielding.pitchers[(st.inning-1)*pitchersPerTeam/regulationInnings]

		pa := simulatePlateAppearance(&st, maxPitches-len(pitches))
		for pitchNum, sim := range pa.pitches {
			pitches = append(pitches, model.PitchRecord{
				GameID:         gameID,
				PitchID:        fmt.Sprintf("%s_%d_%d", gameID, atBatIndex, pitchNum+1),
				AtBatIndex:     atBatIndex,
				PitchNumber:    pitchNum + 1,
				GameDate:       gameDate,
				BatterID:       batterID,
				BatterTeam:     batting.team,
				PitcherID:      pitcherID,
				PitcherTeam:    fielding.team,
				HomeTeam:       home.team,
				AwayTeam:       away.team,
				State:          sim.state,
				Count:          sim.count,
				Type:           pitchTypes[randomIndex(len(pitchTypes))],
				Velocity:       minVelocity + getRandomFloat()*velocityRange,
				PlateX:         (getRandomFloat() - 0.5) * plateXRange,
				PlateZ:         plateZMin + getRandomFloat()*(plateZMax-plateZMin),
				Result:         sim.result,
				Attendance:     attendance,
				FinalPitchOfPA: pitchNum == len(pa.pitches)-1,
			})
		}
		atBatIndex++

		if st.outs >= outsPerHalf {
			st.outs = 0
			st.bases = model.BaseState{}
			if st.topHalf {
				st.topHalf = false
			} else {
				st.topHalf = true
				st.inning++
			}
		}
	}

	return Game{GameID: gameID, Pitches: pitches}
}

// simPitch is one simulated pitch: the situation before it and its outcome.
type simPitch struct {
	state  model.GameState
	count  model.Count
	result model.PitchResult
}

type plateAppearance struct {
	pitches []simPitch
}

// simulatePlateAppearance runs one batter's turn, mutating the shared
// game situation when the plate appearance resolves.
func simulatePlateAppearance(st *simState, budget int) plateAppearance {
	var pa plateAppearance
	balls, strikes := 0, 0

	for len(pa.pitches) < budget {
		snapshot := model.GameState{
			Inning:    st.inning,
			TopHalf:   st.topHalf,
			Outs:      st.outs,
			Bases:     st.bases,
			HomeScore: st.homeScore,
			AwayScore: st.awayScore,
		}
		count := model.Count{Balls: balls, Strikes: strikes}

		roll := getRandomFloat()
		var result model.PitchResult
		done := false

		switch {
		case roll < pBall:
			result = model.Ball
			balls++
			if balls > 3 {
				resolveWalk(st)
				done = true
			}
		case roll < pCalledStrike:
			result = model.CalledStrike
			strikes++
			if strikes > 2 {
				st.outs++
				done = true
			}
		case roll < pSwingingStrike:
			result = model.SwingingStrike
			strikes++
			if strikes > 2 {
				st.outs++
				done = true
			}
		case roll < pFoul:
			result = model.Foul
			if strikes < 2 {
				strikes++
			}
		case roll < pHitIntoPlay:
			result = model.HitIntoPlay
			resolveBallInPlay(st)
			done = true
		default:
			result = model.HitByPitch
			resolveWalk(st)
			done = true
		}

		pa.pitches = append(pa.pitches, simPitch{state: snapshot, count: count, result: result})
		if done {
			return pa
		}
	}
	// Budget exhausted mid-PA; charge an out so the half-inning advances.
	st.outs++
	return pa
}

// resolveWalk forces the batter to first, pushing forced runners.
func resolveWalk(st *simState) {
	if st.bases.First {
		if st.bases.Second {
			if st.bases.Third {
				scoreRun(st)
			}
			st.bases.Third = true
		}
		st.bases.Second = true
	}
	st.bases.First = true
}

// resolveBallInPlay settles a batted ball: out, single, double, triple,
// or home run, advancing runners accordingly.
func resolveBallInPlay(st *simState) {
	roll := getRandomFloat()
	switch {
	case roll < pInPlayOut:
		st.outs++
	case roll < pInPlaySingle:
		advanceRunners(st, 1)
	case roll < pInPlayDouble:
		advanceRunners(st, 2)
	case roll < pInPlayHomer:
		advanceRunners(st, 4)
	default:
		advanceRunners(st, 3)
	}
}

// advanceRunners moves every runner (and the batter) the given number of
// bases, scoring any that cross home.
func advanceRunners(st *simState, bases int) {
	runners := []bool{true, st.bases.First, st.bases.Second, st.bases.Third}
	st.bases = model.BaseState{}
	for from, occupied := range runners {
		if !occupied {
			continue
		}
		to := from + bases
		switch {
		case to >= 4:
			scoreRun(st)
		case to == 1:
			st.bases.First = true
		case to == 2:
			st.bases.Second = true
		case to == 3:
			st.bases.Third = true
		}
	}
}

func scoreRun(st *simState) {
	if st.topHalf {
		st.awayScore++
	} else {
		st.homeScore++
	}
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
