package onboard

// testStep is one section of the scripted drive test.
type testStep struct {
	left, right int
	durMS       uint32
}

// driveScript mirrors the manual bring-up test: forward, hold neutral long
// enough for the reversal dwell, reverse, stop.
var driveScript = []testStep{
	{+50, +50, 3000},
	{0, 0, 600},
	{-50, -50, 3000},
	{0, 0, 300},
}

// DriveTest steps through driveScript on the drive loop's clock. It talks to
// the controller through the same target-setting path as every other caller
// and adds no state of its own beyond the script position.
type DriveTest struct {
	set     func(left, right int)
	idx     int
	t0      uint32
	running bool
}

func NewDriveTest(set func(left, right int)) *DriveTest {
	return &DriveTest{set: set}
}

func (d *DriveTest) Start(now uint32) {
	d.idx = 0
	d.t0 = now
	d.running = true
	d.set(driveScript[0].left, driveScript[0].right)
}

// Stop aborts the script and targets neutral.
func (d *DriveTest) Stop() {
	if d.running {
		d.running = false
		d.set(0, 0)
	}
}

func (d *DriveTest) Running() bool {
	return d.running
}

// Tick advances the script when the current section has run its duration.
// Called once per drive tick.
func (d *DriveTest) Tick(now uint32) {
	if !d.running {
		return
	}

	if now-d.t0 >= driveScript[d.idx].durMS {
		d.idx++
		d.t0 = now

		if d.idx < len(driveScript) {
			d.set(driveScript[d.idx].left, driveScript[d.idx].right)
		} else {
			d.set(0, 0)
			d.running = false
		}
	}
}
