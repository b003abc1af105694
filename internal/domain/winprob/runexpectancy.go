package winprob

import (
	"github.com/mmilab/mmi/internal/domain/model"
)

// reKey indexes the run expectancy matrix by outs and base occupancy code.
type reKey struct {
	outs int
	code string
}

// runExpectancy maps (outs, base code) to expected runs until the end of
// the inning. Empirical 2020-2023 league averages.
var runExpectancy = map[reKey]float64{
	// 0 outs
	{0, "___"}: 0.481,
	{0, "1__"}: 0.859,
	{0, "_2_"}: 1.100,
	{0, "__3"}: 1.361,
	{0, "12_"}: 1.437,
	{0, "1_3"}: 1.784,
	{0, "_23"}: 1.970,
	{0, "123"}: 2.292,
	// 1 out
	{1, "___"}: 0.254,
	{1, "1__"}: 0.509,
	{1, "_2_"}: 0.664,
	{1, "__3"}: 0.950,
	{1, "12_"}: 0.888,
	{1, "1_3"}: 1.140,
	{1, "_23"}: 1.352,
	{1, "123"}: 1.541,
	// 2 outs
	{2, "___"}: 0.098,
	{2, "1__"}: 0.214,
	{2, "_2_"}: 0.305,
	{2, "__3"}: 0.362,
	{2, "12_"}: 0.421,
	{2, "1_3"}: 0.561,
	{2, "_23"}: 0.570,
	{2, "123"}: 0.772,
}

// ExpectedRuns returns the run expectancy for an outs/base state. Out-of-range
// outs are clamped to the nearest valid bucket rather than failing.
func ExpectedRuns(outs int, bases model.BaseState) float64 {
	if outs < 0 {
		outs = 0
	}
	if outs > 2 {
		outs = 2
	}
	return runExpectancy[reKey{outs: outs, code: bases.Code()}]
}
