package telemetry

import (
	"fmt"
	"io"

	"github.com/dzikibot/tankdrive/onboard/drive"
	"github.com/dzikibot/tankdrive/onboard/sensors"
)

// Frame is one telemetry snapshot. The same frame feeds the websocket
// stream and the console panel.
type Frame struct {
	UptimeMS uint32 `json:"uptime_ms"`

	Left  drive.TrackState `json:"left"`
	Right drive.TrackState `json:"right"`

	RangeLeft  sensors.RangeReading `json:"range_left"`
	RangeRight sensors.RangeReading `json:"range_right"`
	Color      sensors.ColorReading `json:"color"`

	OdomX      float64 `json:"odom_x_m"`
	OdomY      float64 `json:"odom_y_m"`
	HeadingDeg float64 `json:"heading_deg"`

	TestRunning bool `json:"test_running"`
}

const (
	ansiHome  = "\x1b[H"
	ansiClear = "\x1b[2J"
	ansiEOL   = "\x1b[K"
)

// Panel redraws a fixed status block in place on an ANSI terminal, the way
// the old serial console panel did. One Render call per telemetry tick.
type Panel struct {
	w       io.Writer
	cleared bool
}

func NewPanel(w io.Writer) *Panel {
	return &Panel{w: w}
}

func (p *Panel) Render(f Frame) {
	if !p.cleared {
		fmt.Fprint(p.w, ansiClear)
		p.cleared = true
	}
	fmt.Fprint(p.w, ansiHome)

	p.line("=== tankdrive  up %7.1fs  test:%v ===", float64(f.UptimeMS)/1000, f.TestRunning)
	p.line("L  tgt %+4d  cur %+4d  out %+4d  %s", f.Left.Target, f.Left.Current, f.Left.Output, gateTag(f.Left.Gated))
	p.line("R  tgt %+4d  cur %+4d  out %+4d  %s", f.Right.Target, f.Right.Current, f.Right.Output, gateTag(f.Right.Gated))
	p.line("range L %5dmm %s   R %5dmm %s",
		f.RangeLeft.DistanceMM, freshTag(f.RangeLeft.FrameReady),
		f.RangeRight.DistanceMM, freshTag(f.RangeRight.FrameReady))
	p.line("color C%4d R%3d G%3d B%3d  %5.0fK %5.0flx",
		f.Color.Clear, f.Color.R, f.Color.G, f.Color.B, f.Color.ColorTempK, f.Color.Lux)
	p.line("odom  x %+7.2fm  y %+7.2fm  hdg %+6.1f", f.OdomX, f.OdomY, f.HeadingDeg)
}

func (p *Panel) line(format string, args ...interface{}) {
	fmt.Fprintf(p.w, format, args...)
	fmt.Fprint(p.w, ansiEOL+"\r\n")
}

func gateTag(gated bool) string {
	if gated {
		return "GATE"
	}
	return "    "
}

func freshTag(ready bool) string {
	if ready {
		return "ok"
	}
	return "--"
}
