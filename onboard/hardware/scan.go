package hardware

import (
	"time"

	"github.com/dzikibot/tankdrive/onboard/canbus"
)

// ScanNodes pings every node ID in [lo, hi] and returns the responders.
// Boot-time diagnostic only; it registers a temporary listener per ID and is
// far too slow for anything inside the control loop.
func ScanNodes(bus canbus.CANBusInterface, lo, hi uint32, timeout time.Duration) (found []uint32) {
	for id := lo; id <= hi; id++ {
		rx := make(chan canbus.CANMsg, 1)
		hostID := id | canbus.CANHostFlag
		bus.AddListener(hostID, rx)

		if err := bus.SendMsg(canbus.CANMsg{ID: id, Cmd: CMD_PING}); err != nil {
			bus.RemoveListener(hostID)
			continue
		}

		select {
		case <-rx:
			found = append(found, id)
		case <-time.After(timeout):
		}
		bus.RemoveListener(hostID)
	}
	return found
}
