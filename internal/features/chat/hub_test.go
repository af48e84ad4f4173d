package chat

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

// slowSocket records every write and flags any overlapping WriteMessage
// calls, which the websocket library forbids.
type slowSocket struct {
	mu      sync.Mutex
	writing bool
	overlap bool
	frames  int
	closed  atomic.Bool
}

func (s *slowSocket) WriteMessage(messageType int, data []byte) error {
	s.mu.Lock()
	if s.writing {
		s.overlap = true
	}
	s.writing = true
	s.mu.Unlock()

	time.Sleep(time.Millisecond)

	s.mu.Lock()
	s.writing = false
	s.frames++
	s.mu.Unlock()
	return nil
}

func (s *slowSocket) Close() error {
	s.closed.Store(true)
	return nil
}

func TestBroadcastSerializesWrites(t *testing.T) {
	hub := NewHub(zap.NewNop())
	sock := &slowSocket{}
	client := hub.Register(sock)
	hub.Join("complaint_abc", client)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 4; j++ {
				hub.Broadcast("complaint_abc", Frame{Event: "new_message", ComplaintID: "abc"})
				client.Enqueue(Frame{Event: "joined", ComplaintID: "abc"})
			}
		}()
	}
	wg.Wait()

	hub.Unregister(client)

	deadline := time.Now().Add(2 * time.Second)
	for !sock.closed.Load() {
		if time.Now().After(deadline) {
			t.Fatal("connection was not closed after Unregister")
		}
		time.Sleep(5 * time.Millisecond)
	}

	sock.mu.Lock()
	defer sock.mu.Unlock()
	if sock.overlap {
		t.Error("concurrent writes reached the connection")
	}
	if sock.frames == 0 {
		t.Error("no frames were delivered")
	}
}

func TestUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub(zap.NewNop())
	sock := &slowSocket{}
	client := hub.Register(sock)
	hub.Join("complaint_xyz", client)

	hub.Unregister(client)
	hub.Unregister(client)

	// A broadcast after teardown must not panic on the closed channel.
	hub.Broadcast("complaint_xyz", Frame{Event: "new_message"})

	if client.enqueue([]byte("{}")) {
		t.Error("enqueue after close should report failure")
	}
}
