// Package aggregate rolls result streams up into per-player and per-game
// statistics: summary distributions, top-moment extraction, and
// season-wide scoring.
package aggregate

import (
	"math"
	"sort"

	"github.com/mmilab/mmi/internal/domain/model"
	"github.com/mmilab/mmi/internal/domain/scoring"
)

// playerKey groups results by player and role.
type playerKey struct {
	playerID string
	role     model.Role
}

// Summarize groups results by (player id, role) and computes one
// PlayerSummary per group, sorted by player id for stable output. Results
// whose role differs from the requested one are skipped.
func Summarize(results []model.MMIResult, role model.Role, season int, seasonType string) []model.PlayerSummary {
	groups := make(map[playerKey][]model.MMIResult)
	for _, r := range results {
		if r.Role != role {
			continue
		}
		k := playerKey{playerID: r.PlayerID(), role: r.Role}
		groups[k] = append(groups[k], r)
	}

	summaries := make([]model.PlayerSummary, 0, len(groups))
	for k, rs := range groups {
		summaries = append(summaries, summarizeGroup(k, rs, season, seasonType))
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].PlayerID < summaries[j].PlayerID
	})
	return summaries
}

func summarizeGroup(k playerKey, results []model.MMIResult, season int, seasonType string) model.PlayerSummary {
	values := make([]float64, len(results))
	games := make(map[string]struct{})
	high, extreme := 0, 0
	var sumLev, sumPre, sumFat, sumExe, sumBio float64

	for i, r := range results {
		values[i] = r.MMI
		games[r.GameID] = struct{}{}
		if r.MMI > scoring.HighThreshold {
			high++
		}
		if r.MMI > scoring.ExtremeThreshold {
			extreme++
		}
		sumLev += r.Components.Leverage
		sumPre += r.Components.Pressure
		sumFat += r.Components.Fatigue
		sumExe += r.Components.Execution
		sumBio += r.Components.Bio
	}
	sort.Float64s(values)
	n := float64(len(values))

	return model.PlayerSummary{
		PlayerID:     k.playerID,
		Role:         k.role,
		Season:       season,
		SeasonType:   seasonType,
		TotalPitches: len(results),
		TotalGames:   len(games),
		MeanMMI:      mean(values),
		MedianMMI:    median(values),
		StdMMI:       populationStd(values),
		P10:          percentile(values, 10),
		P25:          percentile(values, 25),
		P75:          percentile(values, 75),
		P90:          percentile(values, 90),
		P95:          percentile(values, 95),
		P99:          percentile(values, 99),
		HighCount:    high,
		ExtremeCount: extreme,
		AvgLeverage:  sumLev / n,
		AvgPressure:  sumPre / n,
		AvgFatigue:   sumFat / n,
		AvgExecution: sumExe / n,
		AvgBio:       sumBio / n,
	}
}

// TopMoments returns up to limit results with MMI at or above threshold,
// sorted descending by MMI. The input slice is not modified.
func TopMoments(results []model.MMIResult, threshold float64, limit int) []model.MMIResult {
	moments := make([]model.MMIResult, 0, len(results))
	for _, r := range results {
		if r.MMI >= threshold {
			moments = append(moments, r)
		}
	}
	sort.Slice(moments, func(i, j int) bool {
		return moments[i].MMI > moments[j].MMI
	})
	if limit > 0 && len(moments) > limit {
		moments = moments[:limit]
	}
	return moments
}

// Season scores an unordered pitch stream spanning many games: pitches are
// grouped by game id, each game is scored independently with its own
// rolling context, and the per-game result lists are concatenated. Games
// are processed in sorted id order for deterministic output.
func Season(engine *scoring.Engine, pitches []model.PitchRecord, role model.Role) ([]model.MMIResult, error) {
	games := make(map[string][]model.PitchRecord)
	for _, p := range pitches {
		games[p.GameID] = append(games[p.GameID], p)
	}

	gameIDs := make([]string, 0, len(games))
	for id := range games {
		gameIDs = append(gameIDs, id)
	}
	sort.Strings(gameIDs)

	all := make([]model.MMIResult, 0, len(pitches))
	for _, id := range gameIDs {
		results, err := engine.ComputeGame(games[id], role)
		if err != nil {
			return nil, err
		}
		all = append(all, results...)
	}
	return all, nil
}

// mean assumes a non-empty slice.
func mean(sorted []float64) float64 {
	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	return sum / float64(len(sorted))
}

// median assumes a sorted non-empty slice.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// populationStd is the standard deviation with divisor N.
func populationStd(sorted []float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	m := mean(sorted)
	variance := 0.0
	for _, v := range sorted {
		d := v - m
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(sorted)))
}

// percentile interpolates linearly between ranks: k = (n-1)*p/100, value
// between floor(k) and ceil(k). Assumes a sorted non-empty slice.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	k := float64(n-1) * p / 100.0
	f := int(math.Floor(k))
	c := f + 1
	if c > n-1 {
		return sorted[f]
	}
	return sorted[f] + (sorted[c]-sorted[f])*(k-float64(f))
}
