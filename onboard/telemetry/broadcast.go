// Package telemetry renders the robot state for humans: a websocket stream
// for remote dashboards and an in-place ANSI panel for a serial console.
package telemetry

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const (
	// clientQueueLen frames may pile up per client before it is dropped.
	clientQueueLen = 16
	// writeWait bounds a single websocket write.
	writeWait = time.Second
)

// Broadcaster fans state frames out to every connected websocket client.
// Each client gets a bounded queue drained by its own writer goroutine, so
// Publish never blocks no matter what the client's socket does; a client
// that falls behind its queue is dropped.
type Broadcaster struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan interface{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{clients: make(map[*websocket.Conn]chan interface{})}
}

// Handler upgrades the request and registers the client. The read side is
// drained only to detect disconnects; the stream is one-way.
func (b *Broadcaster) Handler(w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Print("upgrade:", err)
		return
	}

	queue := make(chan interface{}, clientQueueLen)
	b.mu.Lock()
	b.clients[c] = queue
	b.mu.Unlock()

	go b.writeLoop(c, queue)

	go func() {
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				b.drop(c)
				return
			}
		}
	}()
}

// writeLoop drains one client's queue. Exits when drop closes the queue or
// a write fails; either way the client is gone.
func (b *Broadcaster) writeLoop(c *websocket.Conn, queue chan interface{}) {
	for v := range queue {
		c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteJSON(v); err != nil {
			b.drop(c)
		}
	}
	c.Close()
}

// drop unregisters the client and closes its queue exactly once. The queue
// close is what unwinds the writer goroutine.
func (b *Broadcaster) drop(c *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if queue, ok := b.clients[c]; ok {
		delete(b.clients, c)
		close(queue)
		c.Close()
	}
}

// Publish queues v as one JSON frame for every client. Non-blocking: a
// client whose queue is full is dropped on the spot.
func (b *Broadcaster) Publish(v interface{}) {
	var stalled []*websocket.Conn

	b.mu.Lock()
	for c, queue := range b.clients {
		select {
		case queue <- v:
		default:
			stalled = append(stalled, c)
		}
	}
	b.mu.Unlock()

	for _, c := range stalled {
		b.drop(c)
	}
}

// ClientCount reports the number of connected clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}
