package gamesim

import (
	"fmt"
	"log"
	"sort"
)

// verifyResults checks the retrieved scoring output against what was
// submitted and sanity-checks the top moments ordering.
func verifyResults(config *Config, games []Game, results []GameResult, moments []MomentEntry) error {
	log.Println("Verifying results...")

	if len(results) == 0 {
		return fmt.Errorf("no results to verify")
	}

	// Every retrieved game should hold one result per submitted pitch.
	submitted := make(map[string]int, len(games))
	for _, g := range games {
		submitted[g.GameID] = len(g.Pitches)
	}

	mismatched := 0
	for _, r := range results {
		want, ok := submitted[r.GameID]
		if !ok {
			log.Printf("Warning: results for unknown game %s", r.GameID)
			mismatched++
			continue
		}
		if len(r.Results) != want {
			log.Printf("Warning: game %s has %d results, submitted %d pitches",
				r.GameID, len(r.Results), want)
			mismatched++
		}
	}
	if mismatched == 0 {
		log.Println("Per-game result counts verified")
	}

	// Verify moments ordering if we have moments data
	if len(moments) > 0 {
		if err := verifyMomentOrdering(moments); err != nil {
			log.Printf("Moment ordering warning: %v", err)
		} else {
			log.Println("Top moment ordering verified")
		}
	}

	displayTopMoments(results, moments, config.Verbose)

	log.Println("Result verification completed")
	return nil
}

// verifyMomentOrdering checks that top moments descend by MMI with
// ranks assigned from one.
func verifyMomentOrdering(moments []MomentEntry) error {
	if moments[0].Rank != 1 {
		return fmt.Errorf("top moment has rank %d, expected 1", moments[0].Rank)
	}

	for i := 1; i < len(moments); i++ {
		if moments[i].MMI > moments[i-1].MMI {
			return fmt.Errorf("moments not properly sorted: entry %d has higher MMI than entry %d",
				i, i-1)
		}
		if moments[i].Rank < moments[i-1].Rank {
			return fmt.Errorf("moment ranks not monotonic at entry %d", i)
		}
	}

	return nil
}

// displayTopMoments shows the highest-MMI pitches from the run.
func displayTopMoments(results []GameResult, moments []MomentEntry, verbose bool) {
	topN := 10
	if len(moments) < topN {
		topN = len(moments)
	}

	log.Printf("Top %d moments from the service:", topN)
	for i := 0; i < topN; i++ {
		m := moments[i]
		log.Printf("   %d. game %s player %s inning %d - MMI: %.3f (leverage %.2f)",
			m.Rank, m.GameID, m.PlayerID, m.Inning, m.MMI, m.Leverage)
	}

	if verbose {
		// Show the score distribution across every retrieved result
		all := make([]float64, 0)
		for _, r := range results {
			for _, res := range r.Results {
				all = append(all, res.MMI)
			}
		}
		if len(all) > 0 {
			sort.Float64s(all)
			log.Printf(`MMI statistics:
   Pitches: %d
   Average: %.3f
   Maximum: %.3f
   Minimum: %.3f
`, len(all), calculateAverage(all), all[len(all)-1], all[0])
		}
	}
}

// calculateAverage calculates the mean of a float slice.
func calculateAverage(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}
