package scoring

import (
	"fmt"
	"strconv"

	"github.com/mmilab/mmi/internal/domain/model"
)

// PAAggregation selects how a plate appearance's pitch results collapse
// into one result. The set is exhaustive; switches over it need no default
// arm beyond the error case.
type PAAggregation int

// The three aggregation strategies.
const (
	// AggregateMax returns the single highest-MMI pitch result verbatim.
	AggregateMax PAAggregation = iota
	// AggregateMean averages every numeric field across the pitches.
	AggregateMean
	// AggregateWeighted averages weighted by each pitch's raw leverage
	// index. A plate appearance whose total raw leverage is zero falls
	// back to AggregateMean.
	AggregateWeighted
)

// String returns the wire name of the strategy.
func (a PAAggregation) String() string {
	switch a {
	case AggregateMax:
		return "max"
	case AggregateMean:
		return "mean"
	case AggregateWeighted:
		return "weighted"
	default:
		return "unknown"
	}
}

// ParseAggregation maps a wire name to a strategy.
func ParseAggregation(s string) (PAAggregation, error) {
	switch s {
	case "max":
		return AggregateMax, nil
	case "mean":
		return AggregateMean, nil
	case "weighted":
		return AggregateWeighted, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAggregation, s)
	}
}

// ComputePA scores an ordered plate appearance and collapses it with the
// selected strategy. workloads may be nil or shorter than pitches; missing
// entries fall back to the role defaults.
func (e *Engine) ComputePA(pitches []model.PitchRecord, role model.Role, agg PAAggregation, workloads []model.Workload) (model.MMIResult, error) {
	if len(pitches) == 0 {
		return model.MMIResult{}, ErrNoPitches
	}

	results := make([]model.MMIResult, 0, len(pitches))
	for i, pitch := range pitches {
		var w model.Workload
		if i < len(workloads) {
			w = workloads[i]
		}
		r, err := e.Compute(pitch, role, w)
		if err != nil {
			return model.MMIResult{}, err
		}
		results = append(results, r)
	}

	switch agg {
	case AggregateMax:
		best := results[0]
		for _, r := range results[1:] {
			if r.MMI > best.MMI {
				best = r
			}
		}
		return best, nil
	case AggregateMean:
		return e.meanResult(pitches[0], role, results), nil
	case AggregateWeighted:
		totalLI := 0.0
		for _, r := range results {
			totalLI += r.Components.Leverage
		}
		if totalLI == 0 {
			// Zero leverage across the whole PA: the weighted average is
			// undefined, the mean is the documented substitute.
			return e.meanResult(pitches[0], role, results), nil
		}
		return e.weightedResult(pitches[0], role, results, totalLI), nil
	default:
		return model.MMIResult{}, fmt.Errorf("%w: %d", ErrUnknownAggregation, int(agg))
	}
}

// meanResult averages every raw value, z-score, and the final scalar.
func (e *Engine) meanResult(first model.PitchRecord, role model.Role, results []model.MMIResult) model.MMIResult {
	n := float64(len(results))
	var c model.MMIComponents
	mmi := 0.0
	for _, r := range results {
		mmi += r.MMI
		c.Leverage += r.Components.Leverage
		c.Pressure += r.Components.Pressure
		c.Fatigue += r.Components.Fatigue
		c.Execution += r.Components.Execution
		c.Bio += r.Components.Bio
		c.ZLeverage += r.Components.ZLeverage
		c.ZPressure += r.Components.ZPressure
		c.ZFatigue += r.Components.ZFatigue
		c.ZExecution += r.Components.ZExecution
		c.ZBio += r.Components.ZBio
	}
	mmi /= n
	c.Leverage /= n
	c.Pressure /= n
	c.Fatigue /= n
	c.Execution /= n
	c.Bio /= n
	c.ZLeverage /= n
	c.ZPressure /= n
	c.ZFatigue /= n
	c.ZExecution /= n
	c.ZBio /= n
	c.Weights = results[0].Components.Weights

	return e.paResult(first, role, mmi, c, AggregateMean, len(results))
}

// weightedResult averages every field weighted by each pitch's raw
// leverage index. The leverage field itself is weighted by leverage too;
// the asymmetry against z-leverage is kept as specified.
func (e *Engine) weightedResult(first model.PitchRecord, role model.Role, results []model.MMIResult, totalLI float64) model.MMIResult {
	var c model.MMIComponents
	mmi := 0.0
	for _, r := range results {
		li := r.Components.Leverage
		mmi += r.MMI * li
		c.Leverage += r.Components.Leverage * li
		c.Pressure += r.Components.Pressure * li
		c.Fatigue += r.Components.Fatigue * li
		c.Execution += r.Components.Execution * li
		c.Bio += r.Components.Bio * li
		c.ZLeverage += r.Components.ZLeverage * li
		c.ZPressure += r.Components.ZPressure * li
		c.ZFatigue += r.Components.ZFatigue * li
		c.ZExecution += r.Components.ZExecution * li
		c.ZBio += r.Components.ZBio * li
	}
	mmi /= totalLI
	c.Leverage /= totalLI
	c.Pressure /= totalLI
	c.Fatigue /= totalLI
	c.Execution /= totalLI
	c.Bio /= totalLI
	c.ZLeverage /= totalLI
	c.ZPressure /= totalLI
	c.ZFatigue /= totalLI
	c.ZExecution /= totalLI
	c.ZBio /= totalLI
	c.Weights = results[0].Components.Weights

	return e.paResult(first, role, mmi, c, AggregateWeighted, len(results))
}

func (e *Engine) paResult(first model.PitchRecord, role model.Role, mmi float64, c model.MMIComponents, agg PAAggregation, pitchCount int) model.MMIResult {
	return model.MMIResult{
		GameID:     first.GameID,
		BatterID:   first.BatterID,
		PitcherID:  first.PitcherID,
		Inning:     first.State.Inning,
		MMI:        mmi,
		Components: c,
		Role:       role,
		Timestamp:  first.GameDate,
		Meta: map[string]string{
			"aggregation": agg.String(),
			"pitch_count": strconv.Itoa(pitchCount),
		},
	}
}
