package sensors

import "sort"

// medianWindow is a fixed-capacity history used to knock out single-sample
// spikes. The buffer is allocated once and never resized, keeping memory and
// latency bounded. An even size is rounded down; a median needs an odd window.
type medianWindow struct {
	buf   []uint16
	idx   int
	count int
}

func newMedianWindow(size int) *medianWindow {
	if size < 1 {
		size = 1
	}
	if size%2 == 0 {
		size--
	}
	return &medianWindow{buf: make([]uint16, size)}
}

func (w *medianWindow) Push(v uint16) {
	w.buf[w.idx] = v
	w.idx = (w.idx + 1) % len(w.buf)
	if w.count < len(w.buf) {
		w.count++
	}
}

// Value is the median of the samples pushed so far. Zero before any Push.
func (w *medianWindow) Value() uint16 {
	if w.count == 0 {
		return 0
	}
	tmp := make([]uint16, w.count)
	copy(tmp, w.buf[:w.count])
	sort.Slice(tmp, func(i, j int) bool { return tmp[i] < tmp[j] })
	return tmp[w.count/2]
}

// movingAverage is a fixed-capacity running mean with an explicit element
// count, so the early samples are averaged over what is actually present.
type movingAverage struct {
	buf   []float64
	idx   int
	count int
	sum   float64
}

func newMovingAverage(size int) *movingAverage {
	if size < 1 {
		size = 1
	}
	return &movingAverage{buf: make([]float64, size)}
}

// Push adds a sample and returns the updated mean.
func (a *movingAverage) Push(v float64) float64 {
	if a.count == len(a.buf) {
		a.sum -= a.buf[a.idx]
	} else {
		a.count++
	}
	a.buf[a.idx] = v
	a.sum += v
	a.idx = (a.idx + 1) % len(a.buf)
	return a.sum / float64(a.count)
}

func (a *movingAverage) Value() float64 {
	if a.count == 0 {
		return 0
	}
	return a.sum / float64(a.count)
}
