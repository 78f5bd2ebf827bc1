package onboard

import (
	"sync"

	"github.com/benbjohnson/clock"

	"github.com/dzikibot/tankdrive/onboard/drive"
	"github.com/dzikibot/tankdrive/onboard/sensors"
)

// SimulatedESC records what the controller writes instead of driving
// hardware. Useful for -sim runs and tests.
type SimulatedESC struct {
	mu     sync.Mutex
	writes map[drive.Channel]int
}

func NewSimulatedESC() *SimulatedESC {
	return &SimulatedESC{writes: make(map[drive.Channel]int)}
}

func (e *SimulatedESC) WriteChannel(ch drive.Channel, pct int) {
	e.mu.Lock()
	e.writes[ch] = pct
	e.mu.Unlock()
}

func (e *SimulatedESC) SetAllNeutral() {
	e.mu.Lock()
	for ch := range e.writes {
		e.writes[ch] = 0
	}
	e.mu.Unlock()
}

// Channel reports the last value written to ch.
func (e *SimulatedESC) Channel(ch drive.Channel) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.writes[ch]
}

// NewSimulatedTankBot builds the robot on simulated hardware: recorded ESC
// writes and random-walk sensors. Same composition as the real one
// otherwise.
func NewSimulatedTankBot(cfg TankConfig, clk clock.Clock) *TankBot {
	return newTankBot(cfg, NewSimulatedESC(),
		sensors.NewSimulatedRangeSensor(1, 400),
		sensors.NewSimulatedRangeSensor(2, 400),
		sensors.NewSimulatedColorSensor(3),
		clk,
	)
}
