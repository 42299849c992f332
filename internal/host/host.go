// Package host forks a child process behind a PTY and drives a single
// *vterm.Emulator with its output, pacing redraws to a backend at a fixed
// frame rate or on PTY activity, whichever comes first.
package host

import (
	"io"
	"log"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/creack/pty"
	"github.com/google/uuid"

	"github.com/cliofy/govte"

	"github.com/vtcast/vtcast"
	"github.com/vtcast/vtcast/backend"
)

// debugEnabled gates verbose [DEBUG] logging the way vibetunnel gates on
// VIBETUNNEL_DEBUG, to keep the default run quiet.
func debugEnabled() bool { return os.Getenv("VTCAST_DEBUG") != "" }

// FrameRate is the redraw cadence used when no PTY read trips a redraw
// first: "60Hz or PTY read, whichever comes first".
const FrameRate = 60

// Session owns one PTY-backed child process and the single *vterm.Emulator
// driving its terminal state. Run's goroutine is the emulator's sole owner:
// readLoop only ever moves raw bytes off the PTY onto ptyBytes, and Run's
// select loop is the one place that calls parser.Advance or reads the grid
// and cursor to redraw — the single-owner event loop spec.md §5 requires,
// with the PTY-read/frame-timer preemption folded into one goroutine's
// select rather than split across two. Everything else touches the
// emulator only through Session's exported accessors, which take mu for
// the plain status fields.
type Session struct {
	mu sync.Mutex

	ID       uuid.UUID
	Status   string // "starting", "running", "exited"
	ExitCode int

	emulator *vterm.Emulator
	out      backend.Backend
	parser   *govte.Parser

	ptmx *os.File
	cmd  *exec.Cmd

	done     chan struct{}
	ptyBytes chan []byte
}

// New allocates a session over rect, rendering diffs to out.
func New(rect vterm.Rect, out backend.Backend) *Session {
	return &Session{
		ID:       uuid.New(),
		Status:   "starting",
		emulator: vterm.NewEmulator(rect),
		out:      out,
		parser:   govte.NewParser(),
		done:     make(chan struct{}),
		ptyBytes: make(chan []byte, 64),
	}
}

// Emulator returns the session's terminal state machine.
func (s *Session) Emulator() *vterm.Emulator { return s.emulator }

// Done returns a channel closed when the child process exits.
func (s *Session) Done() <-chan struct{} { return s.done }

// IsRunning reports whether the child process is still alive.
func (s *Session) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Status == "running"
}

// Start forks argv behind a PTY sized to the session's rect. If argv is
// empty the user's default shell is used.
func (s *Session) Start(argv []string, dir string, env []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(argv) == 0 {
		argv = []string{defaultShell()}
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	if dir != "" {
		cmd.Dir = dir
	}
	cmd.Env = append(os.Environ(), env...)
	cmd.Env = append(cmd.Env, "TERM=xterm-256color", "COLORTERM=truecolor")

	rect := s.emulator.Grid().Rect()
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rect.Height),
		Cols: uint16(rect.Width),
	})
	if err != nil {
		return err
	}

	s.ptmx = ptmx
	s.cmd = cmd
	s.Status = "running"

	if debugEnabled() {
		log.Printf("[DEBUG] session %s started: %v (%dx%d)", s.ID, argv, rect.Width, rect.Height)
	}

	go s.readLoop()
	go s.waitLoop()
	return nil
}

// readLoop only moves bytes off the PTY onto ptyBytes; it never touches the
// emulator itself (§5: the emulator has a single owner, Run's goroutine).
func (s *Session) readLoop() {
	buf := make([]byte, 4096)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case s.ptyBytes <- chunk:
			case <-s.done:
				return
			}
		}
		if err != nil {
			close(s.ptyBytes)
			return
		}
	}
}

// waitLoop reaps the child process and records its exit status.
func (s *Session) waitLoop() {
	err := s.cmd.Wait()
	s.mu.Lock()
	s.Status = "exited"
	if exitErr, ok := err.(*exec.ExitError); ok {
		s.ExitCode = exitErr.ExitCode()
	}
	s.mu.Unlock()
	if debugEnabled() {
		log.Printf("[DEBUG] session %s exited with code %d", s.ID, s.ExitCode)
	}
	close(s.done)
}

// Write forwards keystroke bytes from the operator into the child's PTY.
func (s *Session) Write(p []byte) (int, error) {
	return s.ptmx.Write(p)
}

// Resize changes the PTY window size only. The emulator's rect and cell grid
// are left as they are; callers that need a differently sized grid create a
// new Session.
func (s *Session) Resize(cols, rows int) error {
	return pty.Setsize(s.ptmx, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

// Close terminates the child process and releases the PTY.
func (s *Session) Close() error {
	if s.cmd != nil && s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	err := s.ptmx.Close()
	<-s.done
	return err
}

// Run pumps operator keystrokes from in into the PTY, feeds PTY output
// through the parser, and redraws out at FrameRate or on PTY activity,
// whichever comes first, until the session exits. It blocks until the
// session ends. Run's own goroutine is the emulator's sole owner: parsing
// (feedPTYBytes) and redrawing both happen here, never concurrently with
// each other or with anything else, so the only preemption the emulator
// ever sees is between a PTY-read batch and a frame-timer tick, exactly as
// spec.md §5 describes — not a genuine data race between two goroutines.
func (s *Session) Run(in io.Reader) error {
	stdinBytes := make(chan byte, 256)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := in.Read(buf)
			if n > 0 {
				select {
				case stdinBytes <- buf[0]:
				case <-s.done:
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()

	interval := time.Second / FrameRate
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := s.redraw(); err != nil {
		return err
	}
	lastDraw := time.Now()

	dirty := false
	for {
		select {
		case <-s.done:
			return s.redraw()
		case b := <-stdinBytes:
			if _, err := s.Write([]byte{b}); err != nil {
				return err
			}
		case chunk, ok := <-s.ptyBytes:
			if !ok {
				continue
			}
			s.feedPTYBytes(chunk)
			dirty = true
			if time.Since(lastDraw) < interval {
				continue
			}
			if err := s.redraw(); err != nil {
				return err
			}
			lastDraw, dirty = time.Now(), false
		case <-ticker.C:
			if !dirty {
				continue
			}
			if err := s.redraw(); err != nil {
				return err
			}
			lastDraw, dirty = time.Now(), false
		}
	}
}

// feedPTYBytes advances the parser over chunk, mutating the emulator. It is
// only ever called from Run's goroutine.
func (s *Session) feedPTYBytes(chunk []byte) {
	for _, b := range chunk {
		s.parser.Advance(s.emulator, b)
	}
}

// redraw implements the draw() contract (§4.3.7): hide cursor, draw the
// diff batch, move the cursor to its new position, show the cursor, flush.
func (s *Session) redraw() error {
	if err := s.out.HideCursor(); err != nil {
		return err
	}
	updates := s.emulator.Grid().Diff()
	if err := s.out.Draw(updates); err != nil {
		return err
	}
	cur := s.emulator.Cursor()
	if err := s.out.CursorGoto(cur.Row, cur.Col); err != nil {
		return err
	}
	if err := s.out.ShowCursor(); err != nil {
		return err
	}
	return s.out.Flush()
}

func defaultShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return "/bin/bash"
}
