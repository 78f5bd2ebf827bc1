package drive

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMapToWindow(t *testing.T) {
	const (
		start = 30
		end   = 60
	)

	Convey("the ESC window mapping", t, func() {
		Convey("keeps exact neutral at zero", func() {
			So(mapToWindow(0, start, end), ShouldEqual, 0)
		})

		Convey("is odd-symmetric", func() {
			for x := 1; x <= 100; x++ {
				So(mapToWindow(-x, start, end), ShouldEqual, -mapToWindow(x, start, end))
			}
		})

		Convey("lands every nonzero command inside the window", func() {
			for x := 1; x <= 100; x++ {
				out := mapToWindow(x, start, end)
				So(out, ShouldBeBetweenOrEqual, start, end)
			}
		})

		Convey("is monotonic in the magnitude", func() {
			prev := 0
			for x := 1; x <= 100; x++ {
				out := mapToWindow(x, start, end)
				So(out, ShouldBeGreaterThanOrEqualTo, prev)
				prev = out
			}
		})

		Convey("hits the documented anchor points", func() {
			So(mapToWindow(1, start, end), ShouldEqual, 30)
			So(mapToWindow(4, start, end), ShouldEqual, 31)
			So(mapToWindow(50, start, end), ShouldEqual, 45)
			So(mapToWindow(100, start, end), ShouldEqual, 60)
		})

		Convey("a degenerate window pins the output", func() {
			So(mapToWindow(50, 40, 40), ShouldEqual, 40)
		})
	})
}

func TestRampStep(t *testing.T) {
	Convey("the ramp limiter", t, func() {
		Convey("bounds the step in both directions", func() {
			So(rampStep(0, 100, 4), ShouldEqual, 4)
			So(rampStep(0, -100, 4), ShouldEqual, -4)
		})

		Convey("lands exactly on a close target", func() {
			So(rampStep(98, 100, 4), ShouldEqual, 100)
			So(rampStep(-2, 0, 4), ShouldEqual, 0)
		})

		Convey("holds at the target", func() {
			So(rampStep(42, 42, 4), ShouldEqual, 42)
		})
	})
}

func TestEmaBlend(t *testing.T) {
	Convey("the EMA step", t, func() {
		So(emaBlend(0, 100, 0.25), ShouldAlmostEqual, 25.0)
		So(emaBlend(100, 0, 0.25), ShouldAlmostEqual, 75.0)

		Convey("alpha 1 is a passthrough", func() {
			So(emaBlend(12.5, 99, 1), ShouldAlmostEqual, 99.0)
		})
	})
}

func TestParamsNormalize(t *testing.T) {
	Convey("Normalize repairs a degenerate parameter set", t, func() {
		p := Params{
			TickMS:              0,
			RampStepPct:         0,
			ReverseThresholdPct: -5,
			SmoothAlpha:         4,
			LeftScale:           0,
			RightScale:          -1,
			WindowStartPct:      90,
			WindowEndPct:        10,
		}
		p.Normalize()

		So(p.TickMS, ShouldEqual, DefaultParams().TickMS)
		So(p.RampStepPct, ShouldEqual, 1)
		So(p.ReverseThresholdPct, ShouldEqual, 0)
		So(p.SmoothAlpha, ShouldEqual, 1)
		So(p.LeftScale, ShouldEqual, 1)
		So(p.RightScale, ShouldEqual, 1)

		Convey("an inverted window is swapped, not zeroed", func() {
			So(p.WindowStartPct, ShouldEqual, 10)
			So(p.WindowEndPct, ShouldEqual, 90)
		})
	})
}
