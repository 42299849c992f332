package host

import (
	"errors"
	"testing"

	"github.com/vtcast/vtcast"
)

// fakeBackend records calls instead of writing real escapes, so redraw's
// contract (hide, draw, goto, show, flush, in that order) can be checked
// without a terminal.
type fakeBackend struct {
	calls      []string
	drawErr    error
	lastDiff   []vterm.CellUpdate
	lastCursor [2]int
}

func (f *fakeBackend) Draw(updates []vterm.CellUpdate) error {
	f.calls = append(f.calls, "draw")
	f.lastDiff = updates
	return f.drawErr
}
func (f *fakeBackend) Clear() error { f.calls = append(f.calls, "clear"); return nil }
func (f *fakeBackend) HideCursor() error {
	f.calls = append(f.calls, "hide")
	return nil
}
func (f *fakeBackend) ShowCursor() error {
	f.calls = append(f.calls, "show")
	return nil
}
func (f *fakeBackend) CursorGoto(row, col int) error {
	f.calls = append(f.calls, "goto")
	f.lastCursor = [2]int{row, col}
	return nil
}
func (f *fakeBackend) Flush() error { f.calls = append(f.calls, "flush"); return nil }

func TestRedrawCallOrder(t *testing.T) {
	fb := &fakeBackend{}
	s := New(vterm.NewRect(0, 0, 10, 5), fb)

	if err := s.redraw(); err != nil {
		t.Fatalf("redraw: %v", err)
	}
	want := []string{"hide", "draw", "goto", "show", "flush"}
	if len(fb.calls) != len(want) {
		t.Fatalf("got calls %v, want %v", fb.calls, want)
	}
	for i, c := range want {
		if fb.calls[i] != c {
			t.Errorf("call %d: got %q, want %q", i, fb.calls[i], c)
		}
	}
}

func TestRedrawReportsCursorPosition(t *testing.T) {
	fb := &fakeBackend{}
	s := New(vterm.NewRect(0, 0, 10, 5), fb)
	s.emulator.Print('a')
	s.emulator.Print('b')

	if err := s.redraw(); err != nil {
		t.Fatalf("redraw: %v", err)
	}
	if fb.lastCursor != [2]int{0, 2} {
		t.Errorf("cursor reported as %v, want {0,2}", fb.lastCursor)
	}
}

func TestRedrawPropagatesDrawError(t *testing.T) {
	fb := &fakeBackend{drawErr: errors.New("boom")}
	s := New(vterm.NewRect(0, 0, 10, 5), fb)
	if err := s.redraw(); err == nil {
		t.Fatal("expected redraw to propagate Draw's error")
	}
}

func TestFeedPTYBytesMutatesEmulator(t *testing.T) {
	fb := &fakeBackend{}
	s := New(vterm.NewRect(0, 0, 10, 5), fb)

	s.feedPTYBytes([]byte("hi"))

	if err := s.redraw(); err != nil {
		t.Fatalf("redraw: %v", err)
	}
	if fb.lastCursor != [2]int{0, 2} {
		t.Errorf("cursor after feedPTYBytes = %v, want {0,2}", fb.lastCursor)
	}
}

func TestNewSessionHasUniqueID(t *testing.T) {
	fb := &fakeBackend{}
	a := New(vterm.NewRect(0, 0, 5, 5), fb)
	b := New(vterm.NewRect(0, 0, 5, 5), fb)
	if a.ID == b.ID {
		t.Error("expected distinct session IDs")
	}
	if a.Status != "starting" {
		t.Errorf("initial status = %q, want %q", a.Status, "starting")
	}
}
