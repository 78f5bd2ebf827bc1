// Package sensors holds the ranging and color sensor plumbing: readings,
// bounded filtering, CAN-fed implementations and simulators. Sensor data
// informs the autonomy layer and the panels; the drive core never depends
// on it.
package sensors

// RangeReading is one frame from a time-of-flight ranging sensor.
// FrameReady false means the sensor had no fresh frame; consumers keep the
// previous good value so panels do not flicker.
type RangeReading struct {
	DistanceMM int     `json:"distance_mm"`
	Strength   int     `json:"strength"`
	TempC      float64 `json:"temp_c"`
	FrameReady bool    `json:"frame_ready"`
}

// RangeSensor produces raw range frames. Read must not block.
type RangeSensor interface {
	Read() RangeReading
}

// RangeFilter smooths raw frames: median to drop spikes, then moving average
// to settle the value, then a fixed mounting offset. Stale frames return the
// last good reading with FrameReady cleared.
type RangeFilter struct {
	med      *medianWindow
	avg      *movingAverage
	offsetMM int
	last     RangeReading
}

func NewRangeFilter(medianWin, maWin, offsetMM int) *RangeFilter {
	return &RangeFilter{
		med:      newMedianWindow(medianWin),
		avg:      newMovingAverage(maWin),
		offsetMM: offsetMM,
	}
}

func (f *RangeFilter) Update(r RangeReading) RangeReading {
	if !r.FrameReady {
		out := f.last
		out.FrameReady = false
		return out
	}

	d := r.DistanceMM
	if d < 0 {
		d = 0
	}
	f.med.Push(uint16(d))
	mean := f.avg.Push(float64(f.med.Value()))

	out := RangeReading{
		DistanceMM: int(mean) + f.offsetMM,
		Strength:   r.Strength,
		TempC:      r.TempC,
		FrameReady: true,
	}
	if out.DistanceMM < 0 {
		out.DistanceMM = 0
	}
	f.last = out
	return out
}
