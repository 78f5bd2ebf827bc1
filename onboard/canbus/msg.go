package canbus

import (
	"encoding/binary"
	"errors"

	"go.einride.tech/can"
)

const (
	// CANHostFlag is OR'd into the frame ID when a node answers the host.
	CANHostFlag = 0x0400

	// msgMaxData is the payload room left after the 2-byte command word.
	msgMaxData = 6
)

var (
	ERR_DATA_TOO_LONG = errors.New("data length exceeds 6 bytes")
)

// CANMsg is one framed exchange with a node: a command word plus up to six
// bytes of payload. The wire layout is [cmd_hi cmd_lo data...].
type CANMsg struct {
	ID   uint32 // node ID this is being issued for
	Cmd  uint16 // command being issued in this message
	Data []byte // raw data up to six bytes. DLC is taken from len(Data).
}

// Frame packs the message into a classic CAN frame.
func (m CANMsg) Frame() (f can.Frame, err error) {
	if len(m.Data) > msgMaxData {
		return f, ERR_DATA_TOO_LONG
	}

	f.ID = m.ID
	f.Length = uint8(2 + len(m.Data))
	binary.BigEndian.PutUint16(f.Data[0:2], m.Cmd)
	copy(f.Data[2:], m.Data)
	return f, nil
}

// msgFromFrame unpacks a received frame. Frames shorter than the command
// word are returned with Cmd 0 and nil Data so the dispatcher can drop them.
func msgFromFrame(f can.Frame) (m CANMsg) {
	m.ID = f.ID
	if f.Length < 2 {
		return m
	}
	m.Cmd = binary.BigEndian.Uint16(f.Data[0:2])
	m.Data = make([]byte, f.Length-2)
	copy(m.Data, f.Data[2:f.Length])
	return m
}
