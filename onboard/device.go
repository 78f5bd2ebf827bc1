package onboard

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dzikibot/tankdrive/onboard/canbus"
	"github.com/dzikibot/tankdrive/onboard/drive"
	oberrors "github.com/dzikibot/tankdrive/onboard/errors"
	"github.com/dzikibot/tankdrive/onboard/hardware"
	"github.com/dzikibot/tankdrive/onboard/sensors"
	"github.com/dzikibot/tankdrive/onboard/telemetry"
)

const scanTimeout = 20 * time.Millisecond

// Rover is what the outward surfaces (HTTP API, dev shell) get to see.
type Rover interface {
	SetTarget(left, right int)
	Maneuver(action string, pct int) error
	StartTest()
	StopTest()
	Frame() telemetry.Frame
	Params() drive.Params
	Retune(p drive.Params)
}

// TankBot composes the whole robot. All drive and sensor state is confined
// to the scheduler goroutine that calls the *Tick methods; external callers
// hand commands over through a staged-closure mailbox and read state through
// the published frame.
type TankBot struct {
	cfg   TankConfig
	clk   clock.Clock
	epoch time.Time

	Drive *drive.Controller
	esc   drive.ESC

	rangeLeft  sensors.RangeSensor
	rangeRight sensors.RangeSensor
	colorSens  sensors.ColorSensor
	filtLeft   *sensors.RangeFilter
	filtRight  *sensors.RangeFilter

	lastRangeLeft  sensors.RangeReading
	lastRangeRight sensors.RangeReading
	lastColor      sensors.ColorReading

	odom *Odometry
	test *DriveTest

	cmdMu  sync.Mutex
	staged []func()

	frameMu sync.RWMutex
	frame   telemetry.Frame
	params  drive.Params
}

func newTankBot(cfg TankConfig, esc drive.ESC,
	rl, rr sensors.RangeSensor, col sensors.ColorSensor, clk clock.Clock,
) *TankBot {
	if clk == nil {
		clk = clock.New()
	}

	b := &TankBot{
		cfg:        cfg,
		clk:        clk,
		epoch:      clk.Now(),
		esc:        esc,
		rangeLeft:  rl,
		rangeRight: rr,
		colorSens:  col,
		filtLeft:   sensors.NewRangeFilter(cfg.Sensors.MedianWin, cfg.Sensors.MAWin, cfg.Sensors.DistOffsetLeftMM),
		filtRight:  sensors.NewRangeFilter(cfg.Sensors.MedianWin, cfg.Sensors.MAWin, cfg.Sensors.DistOffsetRightMM),
		odom:       NewOdometry(cfg.Chassis),
	}
	b.Drive = drive.NewController(esc, cfg.Motion, clk)
	b.params = b.Drive.Params()
	b.test = NewDriveTest(b.Drive.SetTarget)
	return b
}

// NewTankBot brings up the real hardware: opens the CAN bus, scans it,
// attaches the ESC node, arms it and wires the CAN-fed sensors.
func NewTankBot(ctx context.Context, cfg TankConfig, clk clock.Clock) (*TankBot, error) {
	bus, err := canbus.NewCANBus(ctx, cfg.Bus)
	if err != nil {
		return nil, err
	}

	found := hardware.ScanNodes(bus, 0x100, 0x2FF, scanTimeout)
	log.Printf("bus scan on %s: %d node(s) %#x", cfg.Bus, len(found), found)

	node, err := hardware.NewESCNode(bus, cfg.ESCAddr)
	if err != nil {
		bus.Close()
		return nil, err
	}
	node.ArmNeutral(clk, time.Duration(cfg.ArmMS)*time.Millisecond)

	return newTankBot(cfg, node,
		sensors.NewCANRangeSensor(bus, cfg.RangeLeftAddr),
		sensors.NewCANRangeSensor(bus, cfg.RangeRightAddr),
		sensors.NewCANColorSensor(bus, cfg.ColorAddr),
		clk,
	), nil
}

func (b *TankBot) nowMS() uint32 {
	return uint32(b.clk.Since(b.epoch) / time.Millisecond)
}

// stage queues work for the scheduler goroutine. This is the only way in
// for external goroutines; nothing outside the loop touches the controller.
func (b *TankBot) stage(f func()) {
	b.cmdMu.Lock()
	b.staged = append(b.staged, f)
	b.cmdMu.Unlock()
}

func (b *TankBot) applyStaged() {
	b.cmdMu.Lock()
	queue := b.staged
	b.staged = nil
	b.cmdMu.Unlock()

	for _, f := range queue {
		f()
	}
}

// SetTarget hands new track targets to the drive loop.
func (b *TankBot) SetTarget(left, right int) {
	b.stage(func() { b.Drive.SetTarget(left, right) })
}

// Maneuver dispatches a named convenience maneuver. pct is clamped by the
// controller.
func (b *TankBot) Maneuver(action string, pct int) error {
	var f func()
	switch strings.ToLower(action) {
	case "stop":
		f = func() { b.Drive.Stop() }
	case "forward":
		f = func() { b.Drive.Forward(pct) }
	case "backward":
		f = func() { b.Drive.Backward(pct) }
	case "turn_left":
		f = func() { b.Drive.TurnLeft(pct) }
	case "turn_right":
		f = func() { b.Drive.TurnRight(pct) }
	case "rotate_left":
		f = func() { b.Drive.RotateLeft(pct) }
	case "rotate_right":
		f = func() { b.Drive.RotateRight(pct) }
	default:
		return oberrors.UnknownManeuverError{Action: action}
	}
	b.stage(f)
	return nil
}

// StartTest launches the scripted bring-up drive.
func (b *TankBot) StartTest() {
	b.stage(func() { b.test.Start(b.nowMS()) })
}

func (b *TankBot) StopTest() {
	b.stage(func() { b.test.Stop() })
}

// Retune installs a new parameter set; the drive restarts from neutral.
func (b *TankBot) Retune(p drive.Params) {
	b.stage(func() {
		b.Drive.Init(p)
		b.odom.Reset()
	})
}

// Params returns the active tuning from the published snapshot. Safe from
// any goroutine; the controller itself is only touched by the loop. A staged
// Retune shows up here after the next motion tick.
func (b *TankBot) Params() drive.Params {
	b.frameMu.RLock()
	defer b.frameMu.RUnlock()
	return b.params
}

// MotionTick is the highest-priority periodic task: staged commands, test
// script, the drive pipeline, odometry, then the published frame.
func (b *TankBot) MotionTick() {
	b.applyStaged()

	now := b.nowMS()
	b.test.Tick(now)
	b.Drive.Update()

	left, right := b.Drive.State()
	b.odom.Integrate(left.Current, right.Current, now)

	b.publishFrame(left, right, now)
}

// SensorTick polls both range sensors and the color sensor, keeping the last
// good reading when a sensor has no fresh frame.
func (b *TankBot) SensorTick() {
	b.lastRangeLeft = b.filtLeft.Update(b.rangeLeft.Read())
	b.lastRangeRight = b.filtRight.Update(b.rangeRight.Read())

	if c := b.colorSens.Read(); c.FrameReady {
		b.lastColor = c
	} else {
		b.lastColor.FrameReady = false
	}
}

func (b *TankBot) publishFrame(left, right drive.TrackState, now uint32) {
	x, y, hdg := b.odom.Pose()
	f := telemetry.Frame{
		UptimeMS:    now,
		Left:        left,
		Right:       right,
		RangeLeft:   b.lastRangeLeft,
		RangeRight:  b.lastRangeRight,
		Color:       b.lastColor,
		OdomX:       x,
		OdomY:       y,
		HeadingDeg:  hdg,
		TestRunning: b.test.Running(),
	}

	b.frameMu.Lock()
	b.frame = f
	b.params = b.Drive.Params()
	b.frameMu.Unlock()
}

// Frame returns the last published telemetry snapshot. Safe from any
// goroutine.
func (b *TankBot) Frame() telemetry.Frame {
	b.frameMu.RLock()
	defer b.frameMu.RUnlock()
	return b.frame
}

// Config returns the boot configuration.
func (b *TankBot) Config() TankConfig {
	return b.cfg
}
