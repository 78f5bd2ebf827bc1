package drive

// gate is the per-track neutral dwell state. A qualifying direction reversal
// forces the track to neutral for the dwell interval, giving the ESC time to
// enter reverse cleanly instead of slamming the drivetrain.
type gate struct {
	active  bool
	release uint32 // millisecond stamp at which the dwell ends
}

// evaluate decides the effective target for this tick. While the dwell is
// running the result is 0 regardless of tgt. Reversal detection compares the
// *ramped* value cur against the threshold, not the raw target history: a
// command that flaps around zero without the track ever having been driven
// past the threshold does not trip the gate.
//
// Timestamps are uint32 milliseconds; the subtraction is wraparound-safe so a
// rollover of the uptime counter does not strand an active gate.
func (g *gate) evaluate(cur, tgt int, now uint32, dwellMS uint32, thr int) int {
	if g.active {
		if int32(now-g.release) >= 0 {
			g.active = false
		} else {
			return 0
		}
	}

	if (cur > thr && tgt < -thr) || (cur < -thr && tgt > thr) {
		g.active = true
		g.release = now + dwellMS
		return 0
	}

	return tgt
}
