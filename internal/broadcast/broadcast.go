// Package broadcast fans a single host's diff batches out to any number of
// TCP observers.
package broadcast

import (
	"bufio"
	"encoding/gob"
	"io"
	"log"
	"net"
	"os"
	"sync"

	"github.com/vtcast/vtcast"
)

// debugEnabled gates verbose [DEBUG] logging the way vibetunnel gates on
// VIBETUNNEL_DEBUG, to keep the default run quiet.
func debugEnabled() bool { return os.Getenv("VTCAST_DEBUG") != "" }

// Frame is one wire message: a batch of cell updates taken from a single
// Grid.Diff() call. Wire encoding is gob, the standard-library answer for a
// self-contained format with no external schema to keep in sync between
// host and observer.
type Frame struct {
	Updates []vterm.CellUpdate
}

// Server accepts TCP observers and fans out Frames published via Publish.
// Each observer gets its own buffered send queue and goroutine so one slow
// reader cannot stall the others.
type Server struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn      net.Conn
	enc       *gob.Encoder
	out       chan Frame
	done      chan struct{}
	closeOnce sync.Once
}

// drop closes c.done and the connection exactly once, so repeated drops of
// the same slow client (Publish on every full-queue attempt, then Close) are
// safe. Closing the connection also unblocks a writePump stuck in Encode.
func (c *client) drop() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// NewServer creates an empty fan-out server.
func NewServer() *Server {
	return &Server{clients: make(map[*client]struct{})}
}

// Serve accepts connections on ln until it errors or is closed, registering
// each as an observer.
func (s *Server) Serve(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		s.addClient(conn)
	}
}

func (s *Server) addClient(conn net.Conn) {
	c := &client{
		conn: conn,
		enc:  gob.NewEncoder(conn),
		out:  make(chan Frame, 32),
		done: make(chan struct{}),
	}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	count := len(s.clients)
	s.mu.Unlock()
	if debugEnabled() {
		log.Printf("[DEBUG] broadcast: observer connected (%d total)", count)
	}

	go s.writePump(c)
}

func (s *Server) writePump(c *client) {
	defer s.removeClient(c)
	for {
		select {
		case frame, ok := <-c.out:
			if !ok {
				return
			}
			if err := c.enc.Encode(frame); err != nil {
				log.Printf("[ERROR] broadcast: observer write error: %v", err)
				return
			}
		case <-c.done:
			return
		}
	}
}

func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	count := len(s.clients)
	s.mu.Unlock()

	_ = c.conn.Close()
	if debugEnabled() {
		log.Printf("[DEBUG] broadcast: observer disconnected (%d remaining)", count)
	}
}

// Publish sends updates to every currently connected observer. A client
// whose send queue is full is disconnected rather than allowed to
// back-pressure the host; it receives no further frames, and nothing
// reconciles it to a mid-stream baseline.
func (s *Server) Publish(updates []vterm.CellUpdate) {
	if len(updates) == 0 {
		return
	}
	frame := Frame{Updates: updates}

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.out <- frame:
		default:
			log.Printf("[ERROR] broadcast: observer queue full, dropping connection")
			c.drop()
		}
	}
}

// Count returns the number of currently connected observers.
func (s *Server) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// ReplayFrames decodes Frames from r until it errors or returns io.EOF,
// calling apply with each Frame's updates in arrival order. An io.EOF
// return from apply's source ends the replay cleanly; any other decode
// error is returned to the caller.
func ReplayFrames(r io.Reader, apply func(updates []vterm.CellUpdate) error) error {
	dec := gob.NewDecoder(bufio.NewReader(r))
	for {
		var f Frame
		if err := dec.Decode(&f); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if err := apply(f.Updates); err != nil {
			return err
		}
	}
}

// Close disconnects every observer.
func (s *Server) Close() {
	s.mu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		c.drop()
	}
}
