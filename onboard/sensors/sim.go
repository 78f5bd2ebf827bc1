package sensors

import "math/rand"

const (
	simRangeDelta   = 5
	simDropoutOneIn = 10
)

// SimulatedRangeSensor random-walks a distance value and occasionally drops
// a frame, which exercises the last-good-value path in consumers.
type SimulatedRangeSensor struct {
	rng  *rand.Rand
	dist int
}

func NewSimulatedRangeSensor(seed int64, startMM int) *SimulatedRangeSensor {
	return &SimulatedRangeSensor{
		rng:  rand.New(rand.NewSource(seed)),
		dist: startMM,
	}
}

func (s *SimulatedRangeSensor) Read() RangeReading {
	if s.rng.Intn(simDropoutOneIn) == 0 {
		return RangeReading{}
	}

	s.dist += s.rng.Intn(simRangeDelta*2) - simRangeDelta
	if s.dist < 0 {
		s.dist = 0
	}
	return RangeReading{
		DistanceMM: s.dist,
		Strength:   100 + s.rng.Intn(50),
		TempC:      35 + s.rng.Float64(),
		FrameReady: true,
	}
}

// SimulatedColorSensor jitters around a mid-gray surface.
type SimulatedColorSensor struct {
	rng *rand.Rand
}

func NewSimulatedColorSensor(seed int64) *SimulatedColorSensor {
	return &SimulatedColorSensor{rng: rand.New(rand.NewSource(seed))}
}

func (s *SimulatedColorSensor) Read() ColorReading {
	c := ColorReading{
		Clear:      400 + s.rng.Intn(40),
		R:          120 + s.rng.Intn(16),
		G:          120 + s.rng.Intn(16),
		B:          120 + s.rng.Intn(16),
		FrameReady: true,
	}
	c.Derive()
	return c
}
