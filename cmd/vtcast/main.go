// Command vtcast hosts or observes a terminal session.
package main

import (
	"fmt"
	"log"
	"net"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vtcast/vtcast"
	"github.com/vtcast/vtcast/backend"
	"github.com/vtcast/vtcast/internal/broadcast"
	"github.com/vtcast/vtcast/internal/config"
	"github.com/vtcast/vtcast/internal/host"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool
	root := &cobra.Command{
		Use:   "vtcast",
		Short: "Host or observe a broadcast terminal session",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				os.Setenv("VTCAST_DEBUG", "1")
			}
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose [DEBUG] logging")
	root.AddCommand(newCastCmd(), newWatchCmd())
	return root
}

func newCastCmd() *cobra.Command {
	var cols, rows int
	var listen, dir, shell string

	cmd := &cobra.Command{
		Use:   "cast [command...]",
		Short: "Spawn a shell (or the given command) behind a PTY and broadcast its screen",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCast(args, cols, rows, listen, dir, shell)
		},
	}
	cfg := config.Load()
	cmd.Flags().IntVar(&cols, "cols", cfg.Cols, "terminal width in columns")
	cmd.Flags().IntVar(&rows, "rows", cfg.Rows, "terminal height in rows")
	cmd.Flags().StringVar(&listen, "listen", cfg.Listen, "broadcast listen address")
	cmd.Flags().StringVar(&dir, "dir", cfg.Dir, "working directory for the spawned command")
	cmd.Flags().StringVar(&shell, "shell", cfg.Shell, "shell to spawn when no command is given")
	return cmd
}

func runCast(argv []string, cols, rows int, listen, dir, shell string) error {
	rect := vterm.NewRect(0, 0, cols, rows)

	if len(argv) == 0 && shell != "" {
		argv = []string{shell}
	}

	stdoutFd := int(os.Stdout.Fd())
	oldState, err := term.MakeRaw(stdoutFd)
	if err != nil {
		return fmt.Errorf("put terminal in raw mode: %w", err)
	}
	defer term.Restore(stdoutFd, oldState)

	out := backend.NewANSIBackend(os.Stdout)
	if err := out.Clear(); err != nil {
		return err
	}

	bc := broadcast.NewServer()
	ln, err := net.Listen("tcp", listen)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listen, err)
	}
	defer ln.Close()
	go func() {
		if err := bc.Serve(ln); err != nil {
			log.Printf("cast: broadcast server stopped: %v", err)
		}
	}()

	sess := host.New(rect, &broadcastingBackend{inner: out, bc: bc})
	if err := sess.Start(argv, dir, nil); err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	log.Printf("cast: session %s listening on %s", sess.ID, listen)

	return sess.Run(os.Stdin)
}

// broadcastingBackend wraps a local backend so the host's own redraw also
// publishes the same diff batch to connected observers.
type broadcastingBackend struct {
	inner backend.Backend
	bc    *broadcast.Server
}

func (b *broadcastingBackend) Draw(updates []vterm.CellUpdate) error {
	b.bc.Publish(updates)
	return b.inner.Draw(updates)
}
func (b *broadcastingBackend) Clear() error      { return b.inner.Clear() }
func (b *broadcastingBackend) HideCursor() error { return b.inner.HideCursor() }
func (b *broadcastingBackend) ShowCursor() error { return b.inner.ShowCursor() }
func (b *broadcastingBackend) CursorGoto(row, col int) error {
	return b.inner.CursorGoto(row, col)
}
func (b *broadcastingBackend) Flush() error                      { return b.inner.Flush() }

func newWatchCmd() *cobra.Command {
	var cols, rows int

	cmd := &cobra.Command{
		Use:   "watch <host:port>",
		Short: "Connect to a running cast session as a read-only observer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(args[0], cols, rows)
		},
	}
	cfg := config.Load()
	cmd.Flags().IntVar(&cols, "cols", cfg.Cols, "terminal width in columns")
	cmd.Flags().IntVar(&rows, "rows", cfg.Rows, "terminal height in rows")
	return cmd
}

func runWatch(addr string, cols, rows int) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	grid := vterm.NewGrid(vterm.NewRect(0, 0, cols, rows))
	out := backend.NewANSIBackend(os.Stdout)
	if err := out.Clear(); err != nil {
		return err
	}

	return broadcast.ReplayFrames(conn, func(updates []vterm.CellUpdate) error {
		// A cast host may be sized differently than this watcher's --cols/--rows;
		// grid.At is the bounds check, so only updates that land inside this
		// watcher's own viewport are kept and applied.
		inBounds := updates[:0]
		for _, u := range updates {
			if grid.At(u.Y, u.X) == nil {
				continue
			}
			grid.Set(u.Y, u.X, u.Cell)
			inBounds = append(inBounds, u)
		}
		return out.Draw(inBounds)
	})
}
