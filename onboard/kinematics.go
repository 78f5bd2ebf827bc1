package onboard

import (
	. "math"

	"github.com/go-gl/mathgl/mgl64"
)

// Odometry dead-reckons a planar pose from the commanded track percentages.
// It integrates commands, not encoder feedback (the chassis has none), so it
// is a trend indicator for the panel rather than ground truth.
type Odometry struct {
	trackWidthM float64
	maxSpeedMS  float64

	pos     mgl64.Vec2
	heading float64 // radians, 0 = +X
	lastMS  uint32
	primed  bool
}

func NewOdometry(chassis ChassisConfig) *Odometry {
	return &Odometry{
		trackWidthM: chassis.TrackWidthM,
		maxSpeedMS:  chassis.MaxSpeedMS,
	}
}

// Integrate advances the pose given the current track commands. The first
// call only establishes the time base.
func (o *Odometry) Integrate(leftPct, rightPct int, nowMS uint32) {
	if !o.primed {
		o.lastMS = nowMS
		o.primed = true
		return
	}

	dt := float64(nowMS-o.lastMS) / 1000
	o.lastMS = nowMS
	if dt <= 0 || o.trackWidthM <= 0 {
		return
	}

	vl := float64(leftPct) / 100 * o.maxSpeedMS
	vr := float64(rightPct) / 100 * o.maxSpeedMS

	v := (vl + vr) / 2
	w := (vr - vl) / o.trackWidthM

	o.heading += w * dt
	dir := mgl64.Vec2{Cos(o.heading), Sin(o.heading)}
	o.pos = o.pos.Add(dir.Mul(v * dt))
}

// Pose reports the estimate as x/y meters and heading degrees.
func (o *Odometry) Pose() (x, y, headingDeg float64) {
	return o.pos.X(), o.pos.Y(), mgl64.RadToDeg(o.heading)
}

// Reset zeroes the estimate but keeps the time base.
func (o *Odometry) Reset() {
	o.pos = mgl64.Vec2{}
	o.heading = 0
}
