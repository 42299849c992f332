// Package backend turns a grid diff into escape sequences on a writer.
package backend

import "github.com/vtcast/vtcast"

// Backend is the capability a render sink must provide to drive an
// [vterm.Emulator]'s output. Implementations write to an underlying byte
// sink and MUST NOT buffer across Flush calls.
type Backend interface {
	// Draw writes the given cell updates and flushes.
	Draw(updates []vterm.CellUpdate) error

	// Clear erases the whole visible screen.
	Clear() error

	// HideCursor and ShowCursor toggle cursor visibility.
	HideCursor() error
	ShowCursor() error

	// CursorGoto moves the cursor to 0-based (row, col).
	CursorGoto(row, col int) error

	// Flush forces any buffered output to the underlying writer.
	Flush() error
}
