// Package hardware talks to the drive electronics: a dual-channel ESC board
// reachable over CAN. Throttle writes are best-effort raw sends at loop
// rate; management commands (arming, version, ping) use a retried
// request/acknowledge exchange.
package hardware

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/Masterminds/semver"
	"github.com/benbjohnson/clock"

	"github.com/dzikibot/tankdrive/onboard/canbus"
	"github.com/dzikibot/tankdrive/onboard/drive"
	oberrors "github.com/dzikibot/tankdrive/onboard/errors"
)

const (
	NODE_VERSION = "~0.1.0"

	// Pulse window of the ESC in microseconds. 1500 is neutral; the board
	// maps these onto its PWM timer directly.
	ESC_MIN_US = 1000
	ESC_NEU_US = 1500
	ESC_MAX_US = 2000
)

// Wire channel numbers match the PWM header on the ESC board: the right
// track sits on output 1, the left on output 4.
var channelWire = map[drive.Channel]byte{
	drive.Left:  4,
	drive.Right: 1,
}

// ESCNode is one ESC board on the bus. It satisfies drive.ESC.
type ESCNode struct {
	id  uint32
	bus canbus.CANBusInterface

	lock sync.Mutex
	rx   chan canbus.CANMsg

	pmu     sync.Mutex
	pending map[uint16]chan canbus.CANMsg
}

// NewESCNode attaches to the board at id, verifies its firmware version and
// returns the node ready for throttle writes.
func NewESCNode(bus canbus.CANBusInterface, id uint32) (n *ESCNode, err error) {
	n = &ESCNode{
		id:      id,
		bus:     bus,
		rx:      make(chan canbus.CANMsg, 16),
		pending: make(map[uint16]chan canbus.CANMsg),
	}
	bus.AddListener(id|canbus.CANHostFlag, n.rx)

	go n.listen()

	resp, err := n.command(CMD_VERSION, nil)
	if err != nil {
		return nil, err
	}

	versionString := string(resp.Data)
	if versionString == "DEV" {
		// direct dev build, accept it
		return n, nil
	}

	semVer, err := semver.NewVersion(versionString)
	if err != nil {
		return nil, oberrors.NodeVersionError{Node: id, Version: versionString, Constraint: NODE_VERSION}
	}
	constraint, err := semver.NewConstraint(NODE_VERSION)
	if err != nil {
		return nil, err
	}
	if !constraint.Check(semVer) {
		return nil, oberrors.NodeVersionError{Node: id, Version: versionString, Constraint: NODE_VERSION}
	}

	return n, nil
}

func (n *ESCNode) listen() {
	for msg := range n.rx {
		n.pmu.Lock()
		ack, ok := n.pending[msg.Cmd]
		n.pmu.Unlock()
		if !ok {
			continue
		}
		select {
		case ack <- msg:
		default:
		}
	}
}

// command sends cmd and waits for the board to acknowledge it, retrying up
// to CMD_MAX_RETRIES with CMD_TIMEOUT between attempts.
func (n *ESCNode) command(cmd uint16, data []byte) (resp canbus.CANMsg, err error) {
	ack := make(chan canbus.CANMsg, 1)

	n.pmu.Lock()
	n.pending[cmd] = ack
	n.pmu.Unlock()
	defer func() {
		n.pmu.Lock()
		delete(n.pending, cmd)
		n.pmu.Unlock()
	}()

	msg := canbus.CANMsg{ID: n.id, Cmd: cmd, Data: data}

	for i := 0; i < CMD_MAX_RETRIES; i++ {
		if err = n.send(msg); err != nil {
			return resp, err
		}
		select {
		case resp = <-ack:
			return resp, nil
		case <-time.After(CMD_TIMEOUT):
		}
	}

	return resp, ERR_MAX_RETRIES
}

func (n *ESCNode) send(msg canbus.CANMsg) error {
	n.lock.Lock()
	defer n.lock.Unlock()
	return n.bus.SendMsg(msg)
}

// pctToPulse maps a -100..100 throttle percentage onto the pulse window.
func pctToPulse(pct int) uint16 {
	if pct < -100 {
		pct = -100
	}
	if pct > 100 {
		pct = 100
	}
	return uint16(ESC_NEU_US + pct*(ESC_MAX_US-ESC_NEU_US)/100)
}

// WriteChannel commands one track. Raw fire-and-forget send at loop rate;
// no acknowledgement is awaited and failures are not surfaced.
func (n *ESCNode) WriteChannel(ch drive.Channel, pct int) {
	wire, ok := channelWire[ch]
	if !ok {
		return
	}

	data := make([]byte, 3)
	data[0] = wire
	binary.BigEndian.PutUint16(data[1:3], pctToPulse(pct))

	_ = n.send(canbus.CANMsg{ID: n.id, Cmd: CMD_SET_THROTTLE, Data: data})
}

// SetAllNeutral puts every output at the neutral pulse. Idempotent.
func (n *ESCNode) SetAllNeutral() {
	_ = n.send(canbus.CANMsg{ID: n.id, Cmd: CMD_NEUTRAL_ALL})
}

// AllStop cuts the outputs entirely (no pulse, not neutral). Used as the
// last resort on shutdown.
func (n *ESCNode) AllStop() {
	_ = n.send(canbus.CANMsg{ID: n.id, Cmd: CMD_ALLSTOP})
}

// ArmNeutral holds neutral for the arming window so the ESC firmware sees a
// stable neutral before the first real command. Blocks for the duration;
// call it before the control loop starts.
func (n *ESCNode) ArmNeutral(clk clock.Clock, d time.Duration) {
	if clk == nil {
		clk = clock.New()
	}
	_, _ = n.command(CMD_ARM, nil)
	n.SetAllNeutral()
	clk.Sleep(d)
}
