package drive

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestGateEvaluate(t *testing.T) {
	const (
		dwell = uint32(600)
		thr   = 3
	)

	Convey("an inert gate", t, func() {
		g := &gate{}

		Convey("passes a plain target through", func() {
			So(g.evaluate(10, 50, 1000, dwell, thr), ShouldEqual, 50)
			So(g.active, ShouldBeFalse)
		})

		Convey("ignores a sign flip inside the threshold band", func() {
			So(g.evaluate(thr, -thr, 1000, dwell, thr), ShouldEqual, -thr)
			So(g.evaluate(-thr, thr, 1000, dwell, thr), ShouldEqual, thr)
			So(g.active, ShouldBeFalse)
		})

		Convey("trips on a qualifying reversal, both polarities", func() {
			So(g.evaluate(thr+1, -(thr + 1), 1000, dwell, thr), ShouldEqual, 0)
			So(g.active, ShouldBeTrue)
			So(g.release, ShouldEqual, 1000+dwell)

			g2 := &gate{}
			So(g2.evaluate(-(thr + 1), thr+1, 1000, dwell, thr), ShouldEqual, 0)
			So(g2.active, ShouldBeTrue)
		})
	})

	Convey("an active gate", t, func() {
		g := &gate{}
		g.evaluate(80, -80, 1000, dwell, thr)
		So(g.active, ShouldBeTrue)

		Convey("forces neutral until the dwell elapses", func() {
			So(g.evaluate(0, -80, 1100, dwell, thr), ShouldEqual, 0)
			So(g.evaluate(0, -80, 1599, dwell, thr), ShouldEqual, 0)
			So(g.active, ShouldBeTrue)
		})

		Convey("never re-extends the release while running", func() {
			release := g.release
			for now := uint32(1001); now < 1600; now += 100 {
				g.evaluate(0, -100, now, dwell, thr)
				So(g.release, ShouldEqual, release)
			}
		})

		Convey("clears exactly at the release stamp and passes through", func() {
			So(g.evaluate(0, -80, 1600, dwell, thr), ShouldEqual, -80)
			So(g.active, ShouldBeFalse)
		})
	})

	Convey("dwell timing survives a tick counter rollover", t, func() {
		g := &gate{}
		start := ^uint32(0) - 100 // 100ms before wraparound

		So(g.evaluate(80, -80, start, dwell, thr), ShouldEqual, 0)
		So(g.active, ShouldBeTrue)

		Convey("still gated just before the wrapped release", func() {
			So(g.evaluate(0, -80, start+599, dwell, thr), ShouldEqual, 0)
			So(g.active, ShouldBeTrue)
		})

		Convey("clears once the wrapped release is reached", func() {
			So(g.evaluate(0, -80, start+dwell, dwell, thr), ShouldEqual, -80)
			So(g.active, ShouldBeFalse)
		})
	})
}
