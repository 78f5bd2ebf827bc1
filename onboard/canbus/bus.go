// Package canbus is the SocketCAN transport between the host and the drive
// electronics. Outbound messages go through a single writer goroutine;
// inbound frames are dispatched to per-ID listener channels.
package canbus

import (
	"context"
	"net"
	"sync"

	"go.einride.tech/can/pkg/socketcan"
)

type CANBusInterface interface {
	SendMsg(msg CANMsg) error
	AddListener(id uint32, rx chan CANMsg)
	RemoveListener(id uint32)
	Close() error
}

type CANBus struct {
	conn   net.Conn
	tx     *socketcan.Transmitter
	rxconn *socketcan.Receiver

	Tx chan CANMsg

	mu sync.RWMutex
	rx map[uint32]chan CANMsg

	ctx    context.Context
	cancel context.CancelFunc
}

// NewCANBus opens the named SocketCAN interface (e.g. "can0") and starts the
// reader and writer goroutines.
func NewCANBus(ctx context.Context, ifname string) (bus *CANBus, err error) {
	conn, err := socketcan.DialContext(ctx, "can", ifname)
	if err != nil {
		return nil, err
	}

	bctx, cancel := context.WithCancel(ctx)
	bus = &CANBus{
		conn:   conn,
		tx:     socketcan.NewTransmitter(conn),
		rxconn: socketcan.NewReceiver(conn),
		Tx:     make(chan CANMsg, 16),
		rx:     make(map[uint32]chan CANMsg),
		ctx:    bctx,
		cancel: cancel,
	}

	go bus.writer()
	go bus.reader()

	return bus, nil
}

// SendMsg queues a message for transmission. Best-effort: when the queue is
// full the message is dropped rather than blocking the control loop.
func (c *CANBus) SendMsg(msg CANMsg) error {
	if _, err := msg.Frame(); err != nil {
		return err
	}
	select {
	case c.Tx <- msg:
	default:
	}
	return nil
}

// AddListener routes inbound frames with the given ID to rx. One listener
// per ID; a second call replaces the first.
func (c *CANBus) AddListener(id uint32, rx chan CANMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rx[id] = rx
}

// RemoveListener stops routing the given ID. Frames already in flight to the
// old channel may still land in it.
func (c *CANBus) RemoveListener(id uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rx, id)
}

func (c *CANBus) Close() error {
	c.cancel()
	return c.conn.Close()
}

func (c *CANBus) writer() {
	for {
		select {
		case <-c.ctx.Done():
			return
		case msg := <-c.Tx:
			frame, err := msg.Frame()
			if err != nil {
				continue
			}
			_ = c.tx.TransmitFrame(c.ctx, frame)
		}
	}
}

func (c *CANBus) reader() {
	for c.rxconn.Receive() {
		msg := msgFromFrame(c.rxconn.Frame())

		c.mu.RLock()
		ch, ok := c.rx[msg.ID]
		c.mu.RUnlock()
		if !ok {
			continue
		}

		// Listeners that fall behind lose frames; the bus never blocks.
		select {
		case ch <- msg:
		default:
		}
	}
}
