// Package canvas renders 2D primitives into a terminal by packing dots
// into braille code points. Each character cell is a 2x4 dot tile, giving
// a virtual canvas of cols*2 by rows*4 dots. Frames are double-buffered
// offscreen; SwapBuffers diffs them and writes the minimal escape-sequence
// stream that realizes the new frame.
package canvas

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"vtrender/raster"
)

var (
	// ErrNotTerminal is returned by Create when the sink is not a terminal.
	ErrNotTerminal = errors.New("sink is not a terminal")

	// ErrOutOfRange is returned by PrintText for a start cell outside the
	// canvas.
	ErrOutOfRange = errors.New("cell out of range")
)

const (
	seqEnterAltScreen = "\x1b[?1049h"
	seqLeaveAltScreen = "\x1b[?1049l"
	seqHideCursor     = "\x1b[?25l"
	seqShowCursor     = "\x1b[?25h"
	seqClearScreen    = "\x1b[2J"
	seqResetSGR       = "\x1b[0m"
	seqDefaultFg      = "\x1b[39m"
)

// Canvas owns a terminal sink and a double-buffered braille stencil.
// All methods must be called from a single thread; the one exception is
// SetResizePending, which may be called from an asynchronous notifier.
type Canvas struct {
	tty  *os.File // nil when the canvas drives a plain writer
	out  io.Writer
	orig *unix.Termios // attribute snapshot taken at Create

	rows, cols   int
	xdots, ydots int

	// Double-buffered stencil: sb[cur] is the back buffer accepting
	// rasterization, sb[1-cur] reflects the last presented frame.
	sb  [2]*raster.Buffer
	cur int

	// Reusable escape-sequence stream, rebuilt every frame.
	seq []byte

	resizePending atomic.Bool
}

// Create builds a canvas over the given terminal, sized to its current
// dimensions, and snapshots its attributes so Close can restore them.
func Create(tty *os.File) (*Canvas, error) {
	if !term.IsTerminal(int(tty.Fd())) {
		return nil, ErrNotTerminal
	}
	attrs, err := getAttrs(tty)
	if err != nil {
		return nil, err
	}
	rows, cols, err := termSize(tty)
	if err != nil {
		return nil, err
	}

	c := newCanvas(tty, rows, cols)
	c.tty = tty
	c.orig = attrs
	return c, nil
}

// newCanvas builds a canvas over a plain writer with fixed dimensions.
// Terminal attribute handling and size queries are skipped for such a
// canvas; everything else behaves identically.
func newCanvas(out io.Writer, rows, cols int) *Canvas {
	return &Canvas{
		out:   out,
		rows:  rows,
		cols:  cols,
		xdots: cols * raster.CellXDots,
		ydots: rows * raster.CellYDots,
		sb:    [2]*raster.Buffer{raster.NewBuffer(rows, cols), raster.NewBuffer(rows, cols)},
		seq:   make([]byte, 0, seqCap(rows, cols)),
	}
}

// seqCap is the initial sequence-stream capacity: enough for a braille
// glyph per cell plus a cursor move and change.
func seqCap(rows, cols int) int {
	return ((rows+1)*cols + 1) * 3
}

// back returns the stencil buffer currently accepting rasterization.
func (c *Canvas) back() *raster.Buffer { return c.sb[c.cur] }

// XDots returns the canvas width in dots.
func (c *Canvas) XDots() int { return c.xdots }

// YDots returns the canvas height in dots.
func (c *Canvas) YDots() int { return c.ydots }

// Reset places the terminal into raw output mode, switches to the
// alternate screen buffer, hides the cursor, and clears the screen.
func (c *Canvas) Reset() error {
	if c.tty != nil {
		if err := enterRawMode(c.tty); err != nil {
			return err
		}
	}
	return c.writeString(seqEnterAltScreen + seqHideCursor + seqClearScreen + seqResetSGR)
}

// Close restores the attribute snapshot taken at Create, releases the
// owned buffers, and switches the terminal back to the main screen with
// the cursor shown. Restoration is best-effort: Close succeeds on every
// exit path, including after a partially-failed Reset.
func (c *Canvas) Close() {
	if c.tty != nil && c.orig != nil {
		restoreAttrs(c.tty, c.orig)
	}
	c.sb[0], c.sb[1] = nil, nil
	c.seq = nil
	c.writeString(seqLeaveAltScreen + seqShowCursor)
}

// ClearScreen clears the terminal screen.
func (c *Canvas) ClearScreen() error {
	return c.writeString(seqClearScreen)
}

// SetResizePending marks the canvas dimensions stale. Safe to call from a
// signal notifier; the next Resize call from the frame loop reconciles.
func (c *Canvas) SetResizePending() {
	c.resizePending.Store(true)
}

// IsResizePending reports whether a resize notification is outstanding.
func (c *Canvas) IsResizePending() bool {
	return c.resizePending.Load()
}

// Resize reconciles a pending resize: it re-queries the terminal
// dimensions, replaces both stencil buffers and the sequence stream, and
// clears the screen. Previous pixels are discarded since they are invalid
// in the new geometry. If the size query fails the canvas keeps its prior
// dimensions and the pending flag stays set so the host can retry next
// frame. A failed clear-screen write is returned after the new geometry is
// already in place and the flag cleared.
func (c *Canvas) Resize() error {
	if !c.resizePending.Load() {
		return nil
	}

	rows, cols := c.rows, c.cols
	if c.tty != nil {
		var err error
		rows, cols, err = termSize(c.tty)
		if err != nil {
			return err
		}
	}

	c.rows, c.cols = rows, cols
	c.xdots = cols * raster.CellXDots
	c.ydots = rows * raster.CellYDots
	c.sb[0] = raster.NewBuffer(rows, cols)
	c.sb[1] = raster.NewBuffer(rows, cols)
	c.cur = 0
	c.seq = make([]byte, 0, seqCap(rows, cols))
	c.resizePending.Store(false)

	return c.ClearScreen()
}

// RenderDot plots one dot with the default foreground. Out-of-canvas
// coordinates are discarded silently.
func (c *Canvas) RenderDot(x, y int) {
	raster.Dot(c.back(), x, y, raster.Default)
}

// RenderDotColor plots one dot with the given foreground color.
func (c *Canvas) RenderDotColor(x, y int, fg raster.Color) {
	raster.Dot(c.back(), x, y, fg)
}

// ScanLine rasterizes a line segment with the default foreground. The
// segment is clipped to the canvas.
func (c *Canvas) ScanLine(x0, y0, x1, y1 int) {
	raster.Line(c.back(), x0, y0, x1, y1, raster.Default)
}

// ScanLineColor rasterizes a clipped line segment with the given color.
func (c *Canvas) ScanLineColor(x0, y0, x1, y1 int, fg raster.Color) {
	raster.Line(c.back(), x0, y0, x1, y1, fg)
}

// TracePoly traces and fills a convex polygon with the default
// foreground. The last vertex connects back to the first.
func (c *Canvas) TracePoly(verts []raster.Vertex) error {
	return raster.Poly(c.back(), verts, raster.Default)
}

// TracePolyColor traces and fills a convex polygon with the given color.
func (c *Canvas) TracePolyColor(verts []raster.Vertex, fg raster.Color) error {
	return raster.Poly(c.back(), verts, fg)
}

// PrintText writes an ASCII text overlay starting at the given cell,
// advancing one cell per byte and stopping at the end of the row. Overlaid
// cells mask the graphics layer until the overlay is cleared. Row and
// column are cell coordinates, not dots.
func (c *Canvas) PrintText(row, col int, text string) error {
	if row < 0 || row >= c.rows || col < 0 || col >= c.cols {
		return ErrOutOfRange
	}
	c.back().SetText(row, col, text)
	return nil
}

func (c *Canvas) writeString(s string) error {
	n, err := io.WriteString(c.out, s)
	if err != nil {
		return fmt.Errorf("write sequence: %w", err)
	}
	if n != len(s) {
		return io.ErrShortWrite
	}
	return nil
}
