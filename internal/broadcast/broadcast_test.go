package broadcast

import (
	"bytes"
	"encoding/gob"
	"net"
	"testing"
	"time"

	"github.com/vtcast/vtcast"
)

func TestReplayFramesAppliesInOrder(t *testing.T) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	enc.Encode(Frame{Updates: []vterm.CellUpdate{{X: 0, Y: 0, Cell: vterm.Cell{Symbol: '1'}}}})
	enc.Encode(Frame{Updates: []vterm.CellUpdate{{X: 1, Y: 0, Cell: vterm.Cell{Symbol: '2'}}}})

	var got []rune
	err := ReplayFrames(&buf, func(updates []vterm.CellUpdate) error {
		for _, u := range updates {
			got = append(got, u.Cell.Symbol)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ReplayFrames: %v", err)
	}
	if string(got) != "12" {
		t.Errorf("got %q, want \"12\"", string(got))
	}
}

func TestPublishDeliversToObserver(t *testing.T) {
	s := NewServer()
	serverSide, clientSide := net.Pipe()
	s.addClient(serverSide)

	updates := []vterm.CellUpdate{{X: 1, Y: 2, Cell: vterm.Cell{Symbol: 'x'}}}
	done := make(chan Frame, 1)
	go func() {
		var f Frame
		dec := gob.NewDecoder(clientSide)
		if err := dec.Decode(&f); err == nil {
			done <- f
		}
	}()

	s.Publish(updates)

	select {
	case f := <-done:
		if len(f.Updates) != 1 || f.Updates[0].X != 1 || f.Updates[0].Cell.Symbol != 'x' {
			t.Errorf("got %+v, want one update X=1 Symbol='x'", f.Updates)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published frame")
	}

	s.Close()
}

func TestPublishEmptyIsNoOp(t *testing.T) {
	s := NewServer()
	serverSide, clientSide := net.Pipe()
	s.addClient(serverSide)
	defer clientSide.Close()
	defer s.Close()

	s.Publish(nil) // must not panic or attempt to send

	if s.Count() != 1 {
		t.Errorf("Count() = %d, want 1", s.Count())
	}
}

func TestCountTracksConnections(t *testing.T) {
	s := NewServer()
	if s.Count() != 0 {
		t.Fatalf("Count() = %d, want 0", s.Count())
	}

	serverSide, clientSide := net.Pipe()
	s.addClient(serverSide)
	if s.Count() != 1 {
		t.Errorf("Count() = %d, want 1", s.Count())
	}

	clientSide.Close()
	s.Close()
}

func TestFullQueueDropsClientWithoutPanic(t *testing.T) {
	s := NewServer()
	serverSide, clientSide := net.Pipe()
	// Do not read from clientSide, so the writePump goroutine can never
	// drain c.out via Encode — forces Publish to hit the full-queue path.
	defer clientSide.Close()
	s.addClient(serverSide)

	updates := []vterm.CellUpdate{{X: 0, Y: 0, Cell: vterm.Cell{Symbol: 'a'}}}
	for i := 0; i < 64; i++ {
		s.Publish(updates) // must never panic, even once the queue fills and drop() fires repeatedly
	}
}
