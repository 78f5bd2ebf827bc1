// Package drive turns signed per-track speed commands into safe, time-shaped
// ESC commands. The pipeline per track and per tick is: neutral gate -> ramp
// -> EMA smoothing -> side compensation -> ESC window -> output write.
package drive

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Channel identifies one driven track.
type Channel int

const (
	Left Channel = iota
	Right
	numChannels
)

func (c Channel) String() string {
	switch c {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// ESC is the output sink for the controller. Writes are fire-and-forget; the
// controller neither observes nor handles transmission failures.
type ESC interface {
	// WriteChannel commands one track to pct, -100..100 around neutral.
	WriteChannel(ch Channel, pct int)
	// SetAllNeutral puts every track at neutral. Idempotent.
	SetAllNeutral()
}

type track struct {
	target   int // what the caller asked for, -100..100
	current  int // after ramping, -100..100
	filtered float64
}

// Controller owns the full command state for both tracks. It is not safe for
// concurrent use; all calls must come from the single loop goroutine that
// drives Update.
type Controller struct {
	esc    ESC
	params *Params
	clk    clock.Clock
	epoch  time.Time

	tracks [numChannels]track
	gates  [numChannels]gate
}

// NewController builds a controller on the given output sink and primes it
// via Init. clk may be nil, in which case the wall clock is used.
func NewController(esc ESC, params Params, clk clock.Clock) *Controller {
	if esc == nil {
		panic("drive: nil ESC")
	}
	if clk == nil {
		clk = clock.New()
	}
	c := &Controller{
		esc:   esc,
		clk:   clk,
		epoch: clk.Now(),
	}
	c.Init(params)
	return c
}

// Init resets both tracks and gates to zero, installs the parameter set and
// commands a safe neutral on all channels. May be called again to re-tune a
// running controller; the drive restarts from standstill.
func (c *Controller) Init(params Params) {
	params.Normalize()
	c.params = &params

	for i := range c.tracks {
		c.tracks[i] = track{}
		c.gates[i] = gate{}
	}

	c.esc.SetAllNeutral()
}

func (c *Controller) nowMS() uint32 {
	return uint32(c.clk.Since(c.epoch) / time.Millisecond)
}

// Update runs one control tick for both tracks and issues exactly one ESC
// write per track, whether or not the value changed. Call it once per
// TickMS; all dwell decisions compare clock stamps, so an irregular call
// cadence affects responsiveness only, never correctness.
func (c *Controller) Update() {
	p := c.params
	if p == nil {
		panic("drive: Update before Init")
	}

	now := c.nowMS()

	for i := range c.tracks {
		t := &c.tracks[i]
		g := &c.gates[i]

		effTgt := g.evaluate(t.current, t.target, now, p.NeutralDwellMS, p.ReverseThresholdPct)

		// Hard neutral while the gate runs; the dwell already guarantees
		// a safe reversal, ramping down would only delay it.
		if g.active {
			t.current = 0
		} else {
			t.current = rampStep(t.current, effTgt, p.RampStepPct)
		}

		if p.SmoothAlpha > 0 {
			t.filtered = emaBlend(t.filtered, float64(t.current), p.SmoothAlpha)
		} else {
			t.filtered = float64(t.current)
		}

		scale := p.LeftScale
		if Channel(i) == Right {
			scale = p.RightScale
		}
		comp := clampFloat(t.filtered*scale, -100, 100)

		out := mapToWindow(int(comp), p.WindowStartPct, p.WindowEndPct)
		c.esc.WriteChannel(Channel(i), out)
	}
}

// SetTarget stores new track targets, clamped to -100..100. Takes effect on
// the next Update.
func (c *Controller) SetTarget(left, right int) {
	c.tracks[Left].target = clampInt(left, -100, 100)
	c.tracks[Right].target = clampInt(right, -100, 100)
}

// Stop targets neutral on both tracks. The ramp still applies; for an
// immediate cut use the ESC's SetAllNeutral directly.
func (c *Controller) Stop() {
	c.SetTarget(0, 0)
}

// Forward drives both tracks ahead at pct (0..100).
func (c *Controller) Forward(pct int) {
	pct = clampInt(pct, 0, 100)
	c.SetTarget(pct, pct)
}

// Backward drives both tracks in reverse at pct (0..100).
func (c *Controller) Backward(pct int) {
	pct = clampInt(pct, 0, 100)
	c.SetTarget(-pct, -pct)
}

// arcPair splits a base magnitude into inner/outer track speeds for an arc
// turn. The inner track runs at half the outer.
func arcPair(base int) (inner, outer int) {
	return base / 2, base
}

// TurnLeft arcs left at pct (0..100); the left track becomes the inner one.
func (c *Controller) TurnLeft(pct int) {
	pct = clampInt(pct, 0, 100)
	inner, outer := arcPair(pct)
	c.SetTarget(inner, outer)
}

// TurnRight arcs right at pct (0..100).
func (c *Controller) TurnRight(pct int) {
	pct = clampInt(pct, 0, 100)
	inner, outer := arcPair(pct)
	c.SetTarget(outer, inner)
}

// RotateLeft spins in place counter-clockwise at pct (0..100).
func (c *Controller) RotateLeft(pct int) {
	pct = clampInt(pct, 0, 100)
	c.SetTarget(-pct, pct)
}

// RotateRight spins in place clockwise at pct (0..100).
func (c *Controller) RotateRight(pct int) {
	pct = clampInt(pct, 0, 100)
	c.SetTarget(pct, -pct)
}

// TrackState is a telemetry snapshot of one track.
type TrackState struct {
	Target   int     `json:"target"`
	Current  int     `json:"current"`
	Filtered float64 `json:"filtered"`
	Output   int     `json:"output"`
	Gated    bool    `json:"gated"`
}

// State reports both tracks. Output is recomputed from the filtered value and
// matches what the last Update sent to the ESC.
func (c *Controller) State() (left, right TrackState) {
	return c.trackState(Left), c.trackState(Right)
}

func (c *Controller) trackState(ch Channel) TrackState {
	p := c.params
	t := c.tracks[ch]

	scale := p.LeftScale
	if ch == Right {
		scale = p.RightScale
	}
	comp := clampFloat(t.filtered*scale, -100, 100)

	return TrackState{
		Target:   t.target,
		Current:  t.current,
		Filtered: t.filtered,
		Output:   mapToWindow(int(comp), p.WindowStartPct, p.WindowEndPct),
		Gated:    c.gates[ch].active,
	}
}

// Params returns a copy of the active parameter set.
func (c *Controller) Params() Params {
	return *c.params
}
