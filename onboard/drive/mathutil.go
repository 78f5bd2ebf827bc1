package drive

func clampInt(v, lo, hi int) int {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}

// rampStep advances cur toward tgt by at most step and returns the new value.
// No other state is involved; the caller owns cur.
func rampStep(cur, tgt, step int) int {
	d := tgt - cur
	if d > step {
		d = step
	} else if d < -step {
		d = -step
	}
	return cur + d
}

// emaBlend is one step of an exponential moving average. alpha=1 passes the
// input straight through; callers are expected to bypass it for alpha<=0
// rather than letting the filter freeze at its initial value.
func emaBlend(prev, in, alpha float64) float64 {
	return (1-alpha)*prev + alpha*in
}

// mapToWindow translates a logical command (-100..100) onto the useful band
// of the ESC. 0 stays at true neutral; any other magnitude lands inside
// [start..end] so small commands clear the ESC dead zone and full commands
// stay below the traction limit. Odd-symmetric in sign.
func mapToWindow(x, start, end int) int {
	if x == 0 {
		return 0
	}

	sign := 1
	mag := x
	if x < 0 {
		sign = -1
		mag = -x
	}

	level := start + (end-start)*mag/100
	level = clampInt(level, start, end)

	return sign * level
}
