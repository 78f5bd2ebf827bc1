package drive

// Params are the tuning knobs for the track controller. They are read-only as
// far as the controller is concerned; the module logic never writes them back.
type Params struct {
	// TickMS is the drive loop cadence in milliseconds. 20ms = 50Hz.
	TickMS uint32 `yaml:"tick_ms"`

	// NeutralDwellMS is how long a track is held at neutral after a
	// direction reversal before the new direction is allowed through.
	NeutralDwellMS uint32 `yaml:"neutral_dwell_ms"`

	// RampStepPct is the maximum change of the effective command per tick,
	// in percentage points.
	RampStepPct int `yaml:"ramp_step_pct"`

	// ReverseThresholdPct is the dead band around 0% used for reversal
	// detection. Sign changes inside the band never trip the neutral gate.
	ReverseThresholdPct int `yaml:"reverse_threshold_pct"`

	// SmoothAlpha is the EMA coefficient applied after the ramp.
	// 0 disables the filter entirely, 1 passes values through unchanged.
	SmoothAlpha float64 `yaml:"smooth_alpha"`

	// LeftScale and RightScale compensate track asymmetry. 1.0 = no correction.
	LeftScale  float64 `yaml:"left_scale"`
	RightScale float64 `yaml:"right_scale"`

	// WindowStartPct and WindowEndPct define the useful band of the ESC.
	// A logical 1..100% command lands on [start..end]; 0% stays neutral.
	WindowStartPct int `yaml:"esc_start_pct"`
	WindowEndPct   int `yaml:"esc_max_pct"`
}

// DefaultParams returns the field-tested tuning for the stock chassis.
func DefaultParams() Params {
	return Params{
		TickMS:              20,
		NeutralDwellMS:      600,
		RampStepPct:         4,
		ReverseThresholdPct: 3,
		SmoothAlpha:         0.25,
		LeftScale:           1.00,
		RightScale:          1.00,
		WindowStartPct:      30,
		WindowEndPct:        60,
	}
}

// Normalize clamps degenerate values in place so a bad config file cannot
// wedge the controller. Returns the receiver for chaining.
func (p *Params) Normalize() *Params {
	if p.TickMS == 0 {
		p.TickMS = DefaultParams().TickMS
	}
	if p.RampStepPct < 1 {
		p.RampStepPct = 1
	}
	if p.ReverseThresholdPct < 0 {
		p.ReverseThresholdPct = 0
	}
	if p.SmoothAlpha < 0 {
		p.SmoothAlpha = 0
	}
	if p.SmoothAlpha > 1 {
		p.SmoothAlpha = 1
	}
	if p.LeftScale <= 0 {
		p.LeftScale = 1
	}
	if p.RightScale <= 0 {
		p.RightScale = 1
	}
	p.WindowStartPct = clampInt(p.WindowStartPct, 0, 100)
	p.WindowEndPct = clampInt(p.WindowEndPct, 0, 100)
	if p.WindowEndPct < p.WindowStartPct {
		p.WindowStartPct, p.WindowEndPct = p.WindowEndPct, p.WindowStartPct
	}
	return p
}
