package scaling_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmilab/mmi/internal/domain/scaling"
	. "github.com/smartystreets/goconvey/convey"
)

func TestScaler(t *testing.T) {
	Convey("Given component value samples", t, func() {
		Convey("When fitting over a simple spread", func() {
			s := scaling.FitScaler("pressure", []float64{2.0, 4.0, 6.0, 8.0})

			Convey("Then mean and population std come out exact", func() {
				So(s.Mean, ShouldAlmostEqual, 5.0, 1e-9)
				So(s.Std, ShouldAlmostEqual, 2.2360679775, 1e-9)
			})

			Convey("And transform and inverse round trip", func() {
				for _, x := range []float64{-3.0, 0.0, 5.0, 17.5} {
					So(s.InverseTransform(s.Transform(x)), ShouldAlmostEqual, x, 1e-9)
				}
				So(s.Transform(5.0), ShouldAlmostEqual, 0.0, 1e-9)
			})
		})

		Convey("When fitting a constant sample", func() {
			s := scaling.FitScaler("fatigue", []float64{3.3, 3.3, 3.3})

			Convey("Then the std degrades to one instead of zero", func() {
				So(s.Std, ShouldEqual, 1.0)
				So(s.Transform(4.3), ShouldAlmostEqual, 1.0, 1e-9)
			})
		})

		Convey("When fitting an empty sample", func() {
			s := scaling.FitScaler("bio", nil)

			Convey("Then the identity scaler comes back", func() {
				So(s.Mean, ShouldEqual, 0.0)
				So(s.Std, ShouldEqual, 1.0)
			})
		})

		Convey("When a scaler is built with a zero std directly", func() {
			s := scaling.NewScaler("leverage", 1.0, 0.0)

			Convey("Then the zero never reaches the divisor", func() {
				So(s.Std, ShouldEqual, 1.0)
			})
		})
	})
}

func TestScalerSet(t *testing.T) {
	Convey("Given raw component lists", t, func() {
		leverage := []float64{0.5, 1.0, 1.5, 2.0}
		pressure := []float64{2.0, 3.0, 4.0, 5.0}
		fatigue := []float64{1.0, 2.0, 3.0, 4.0}
		execution := []float64{2.5, 3.0, 3.5, 4.0}
		bio := []float64{0.2, 0.6, 1.0, 1.4}

		Convey("When fitting a full set", func() {
			set := scaling.Fit(leverage, pressure, fatigue, execution, bio, 2025, "R")

			Convey("Then the metadata reflects the fit", func() {
				So(set.Season, ShouldEqual, 2025)
				So(set.SeasonType, ShouldEqual, "R")
				So(set.SampleSize, ShouldEqual, 4)
				So(set.LastUpdated.IsZero(), ShouldBeFalse)
			})

			Convey("And transforming all components at once matches per-scaler transforms", func() {
				z := set.TransformAll(1.0, 3.0, 2.0, 3.0, 0.6)
				So(z.Leverage, ShouldAlmostEqual, set.Leverage.Transform(1.0), 1e-12)
				So(z.Pressure, ShouldAlmostEqual, set.Pressure.Transform(3.0), 1e-12)
				So(z.Fatigue, ShouldAlmostEqual, set.Fatigue.Transform(2.0), 1e-12)
				So(z.Execution, ShouldAlmostEqual, set.Execution.Transform(3.0), 1e-12)
				So(z.Bio, ShouldAlmostEqual, set.Bio.Transform(0.6), 1e-12)
			})
		})

		Convey("When falling back to the default set", func() {
			set := scaling.Default()

			Convey("Then the approximate league parameters are in place", func() {
				So(set.Leverage.Mean, ShouldEqual, 1.0)
				So(set.Leverage.Std, ShouldEqual, 0.5)
				So(set.Pressure.Mean, ShouldEqual, 3.0)
				So(set.Bio.Std, ShouldEqual, 0.8)
				So(set.SeasonType, ShouldEqual, "default")
			})
		})
	})
}

func TestPersistence(t *testing.T) {
	Convey("Given a fitted scaler set", t, func() {
		set := scaling.Fit(
			[]float64{0.5, 1.0, 1.5},
			[]float64{2.0, 3.0, 4.0},
			[]float64{1.0, 2.0, 3.0},
			[]float64{2.5, 3.0, 3.5},
			[]float64{0.2, 0.6, 1.0},
			2024, "P",
		)
		dir := t.TempDir()
		path := filepath.Join(dir, "scalers.json")

		Convey("When saving and loading it back", func() {
			So(set.Save(path), ShouldBeNil)
			loaded, err := scaling.Load(path)
			So(err, ShouldBeNil)

			Convey("Then every parameter survives exactly", func() {
				So(loaded.Leverage.Mean, ShouldEqual, set.Leverage.Mean)
				So(loaded.Leverage.Std, ShouldEqual, set.Leverage.Std)
				So(loaded.Pressure.Mean, ShouldEqual, set.Pressure.Mean)
				So(loaded.Fatigue.Std, ShouldEqual, set.Fatigue.Std)
				So(loaded.Execution.Mean, ShouldEqual, set.Execution.Mean)
				So(loaded.Bio.Std, ShouldEqual, set.Bio.Std)
				So(loaded.Season, ShouldEqual, 2024)
				So(loaded.SeasonType, ShouldEqual, "P")
				So(loaded.SampleSize, ShouldEqual, 3)
			})
		})

		Convey("When the file does not exist", func() {
			_, err := scaling.Load(filepath.Join(dir, "missing.json"))

			Convey("Then a load error surfaces", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, scaling.ErrLoad), ShouldBeTrue)
			})
		})

		Convey("When the document is malformed", func() {
			bad := filepath.Join(dir, "bad.json")
			So(writeFile(bad, "{not json"), ShouldBeNil)
			_, err := scaling.Load(bad)

			Convey("Then a load error surfaces", func() {
				So(errors.Is(err, scaling.ErrLoad), ShouldBeTrue)
			})
		})

		Convey("When a persisted scaler carries a zero std and no name", func() {
			partial := filepath.Join(dir, "partial.json")
			doc := `{
  "metadata": {"season": 2023, "season_type": "R", "sample_size": 10},
  "scalers": {
    "leverage": {"mean": 1.2, "std": 0},
    "pressure": {"name": "pressure", "mean": 3.1, "std": 1.4},
    "fatigue": {"mean": 2.4, "std": 1.1},
    "execution": {"mean": 2.9, "std": 0.9},
    "bio_proxies": {"mean": 1.1, "std": 0.7}
  }
}`
			So(writeFile(partial, doc), ShouldBeNil)
			loaded, err := scaling.Load(partial)
			So(err, ShouldBeNil)

			Convey("Then the loader sanitizes it", func() {
				So(loaded.Leverage.Std, ShouldEqual, 1.0)
				So(loaded.Leverage.Name, ShouldEqual, "leverage_index")
				So(loaded.Pressure.Std, ShouldEqual, 1.4)
			})
		})
	})
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}
