// Package vterm implements the core of a terminal multiplexer/broadcaster:
// a VT100/ANSI-driven cell grid with a diff-based renderer.
//
// # Architecture
//
//   - [Style], [Color], [Modifier]: value types for character styling.
//   - [Cell]: one styled grid position.
//   - [Grid]: the double-buffered cell array and its differ.
//   - [Emulator]: the state machine that turns parser events into grid
//     mutations, implementing [github.com/cliofy/govte.Performer].
//
// # Quick start
//
//	e := vterm.NewEmulator(vterm.NewRect(0, 0, 80, 24))
//	p := govte.NewParser()
//	for _, b := range []byte("Hello\r\n") {
//	    p.Advance(e, b)
//	}
//	updates := e.Grid().Diff()
//
// Emulator owns its grid, cursor, current style, and scroll region for the
// lifetime of a session; callers drive it one byte at a time and call
// Grid().Diff() on their own schedule (see the backend package for turning
// a diff batch into an ANSI write, and internal/host for the frame-paced
// event loop that ties a PTY to an Emulator and backend together).
package vterm
