package sensors

import (
	"encoding/binary"
	"sync"

	"github.com/dzikibot/tankdrive/onboard/canbus"
)

// Sensor nodes broadcast unsolicited frames on their own ID; the command
// word doubles as the frame kind.
const (
	FRAME_RANGE = 0x0110
	FRAME_COLOR = 0x0111
)

// CANRangeSensor consumes range broadcasts from one sensor node. Read
// reports FrameReady only when a new frame arrived since the previous Read.
type CANRangeSensor struct {
	rx chan canbus.CANMsg

	mu     sync.Mutex
	latest RangeReading
	fresh  bool
}

func NewCANRangeSensor(bus canbus.CANBusInterface, id uint32) *CANRangeSensor {
	s := &CANRangeSensor{rx: make(chan canbus.CANMsg, 8)}
	bus.AddListener(id, s.rx)
	go s.collect()
	return s
}

func (s *CANRangeSensor) collect() {
	for msg := range s.rx {
		if msg.Cmd != FRAME_RANGE || len(msg.Data) < 6 {
			continue
		}
		r := RangeReading{
			DistanceMM: int(binary.BigEndian.Uint16(msg.Data[0:2])),
			Strength:   int(binary.BigEndian.Uint16(msg.Data[2:4])),
			TempC:      float64(int16(binary.BigEndian.Uint16(msg.Data[4:6]))) / 100,
			FrameReady: true,
		}
		s.mu.Lock()
		s.latest = r
		s.fresh = true
		s.mu.Unlock()
	}
}

func (s *CANRangeSensor) Read() RangeReading {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.latest
	out.FrameReady = s.fresh
	s.fresh = false
	return out
}

// CANColorSensor consumes color broadcasts from one sensor node.
type CANColorSensor struct {
	rx chan canbus.CANMsg

	mu     sync.Mutex
	latest ColorReading
	fresh  bool
}

func NewCANColorSensor(bus canbus.CANBusInterface, id uint32) *CANColorSensor {
	s := &CANColorSensor{rx: make(chan canbus.CANMsg, 8)}
	bus.AddListener(id, s.rx)
	go s.collect()
	return s
}

func (s *CANColorSensor) collect() {
	for msg := range s.rx {
		if msg.Cmd != FRAME_COLOR || len(msg.Data) < 5 {
			continue
		}
		c := ColorReading{
			Clear:      int(binary.BigEndian.Uint16(msg.Data[0:2])),
			R:          int(msg.Data[2]),
			G:          int(msg.Data[3]),
			B:          int(msg.Data[4]),
			FrameReady: true,
		}
		c.Derive()
		s.mu.Lock()
		s.latest = c
		s.fresh = true
		s.mu.Unlock()
	}
}

func (s *CANColorSensor) Read() ColorReading {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.latest
	out.FrameReady = s.fresh
	s.fresh = false
	return out
}
