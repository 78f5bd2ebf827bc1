package sensors

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMedianWindow(t *testing.T) {
	Convey("a 3-sample median window", t, func() {
		w := newMedianWindow(3)

		Convey("is zero before any sample", func() {
			So(w.Value(), ShouldEqual, 0)
		})

		Convey("tracks a partially filled window", func() {
			w.Push(40)
			So(w.Value(), ShouldEqual, 40)
			w.Push(44)
			So(w.Value(), ShouldEqual, 44) // median of {40,44} picks the upper
		})

		Convey("knocks out a single spike", func() {
			w.Push(40)
			w.Push(900)
			w.Push(42)
			So(w.Value(), ShouldEqual, 42)
		})

		Convey("slides over old samples without growing", func() {
			for _, v := range []uint16{40, 900, 42, 41, 43} {
				w.Push(v)
			}
			So(w.Value(), ShouldEqual, 42)
			So(len(w.buf), ShouldEqual, 3)
		})
	})

	Convey("an even window size is rounded down to stay odd", t, func() {
		So(len(newMedianWindow(4).buf), ShouldEqual, 3)
		So(len(newMedianWindow(0).buf), ShouldEqual, 1)
	})
}

func TestMovingAverage(t *testing.T) {
	Convey("a 4-sample moving average", t, func() {
		a := newMovingAverage(4)

		Convey("averages only what is present early on", func() {
			So(a.Push(10), ShouldAlmostEqual, 10.0)
			So(a.Push(20), ShouldAlmostEqual, 15.0)
		})

		Convey("drops the oldest sample once full", func() {
			for _, v := range []float64{10, 20, 30, 40} {
				a.Push(v)
			}
			So(a.Value(), ShouldAlmostEqual, 25.0)
			So(a.Push(50), ShouldAlmostEqual, 35.0) // {20,30,40,50}
		})
	})
}

func TestRangeFilter(t *testing.T) {
	Convey("a range filter with a mounting offset", t, func() {
		f := NewRangeFilter(3, 1, 15)

		Convey("applies the offset to good frames", func() {
			out := f.Update(RangeReading{DistanceMM: 400, FrameReady: true})
			So(out.DistanceMM, ShouldEqual, 415)
			So(out.FrameReady, ShouldBeTrue)
		})

		Convey("keeps the last good value through a dropout", func() {
			f.Update(RangeReading{DistanceMM: 400, FrameReady: true})
			out := f.Update(RangeReading{})

			So(out.DistanceMM, ShouldEqual, 415)
			So(out.FrameReady, ShouldBeFalse)

			Convey("and recovers on the next good frame", func() {
				out := f.Update(RangeReading{DistanceMM: 402, FrameReady: true})
				So(out.FrameReady, ShouldBeTrue)
			})
		})

		Convey("never reports a negative distance", func() {
			g := NewRangeFilter(1, 1, -100)
			out := g.Update(RangeReading{DistanceMM: 40, FrameReady: true})
			So(out.DistanceMM, ShouldEqual, 0)
		})
	})
}

func TestColorDerive(t *testing.T) {
	Convey("deriving color temperature and lux", t, func() {
		Convey("a gray surface yields positive values", func() {
			c := ColorReading{Clear: 400, R: 120, G: 120, B: 120}
			c.Derive()
			So(c.Lux, ShouldBeGreaterThan, 0)
			So(c.ColorTempK, ShouldBeGreaterThan, 0)
		})

		Convey("an all-dark frame does not divide by zero", func() {
			c := ColorReading{}
			c.Derive()
			So(c.ColorTempK, ShouldEqual, 0)
		})
	})
}
