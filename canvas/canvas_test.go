package canvas

import (
	"bytes"
	"errors"
	"testing"

	"vtrender/raster"
)

func newTestCanvas(t *testing.T, rows, cols int) (*Canvas, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return newCanvas(&buf, rows, cols), &buf
}

func TestDotDimensions(t *testing.T) {
	c, _ := newTestCanvas(t, 40, 80)
	if c.XDots() != 160 || c.YDots() != 160 {
		t.Fatalf("expected 160x160 dots, got %dx%d", c.XDots(), c.YDots())
	}
}

func TestSwapSingleDot(t *testing.T) {
	c, out := newTestCanvas(t, 4, 4)
	c.RenderDot(0, 0)
	if err := c.SwapBuffers(); err != nil {
		t.Fatalf("swap failed: %v", err)
	}
	want := "\x1b[39m\x1b[1;1H\xe2\xa0\x81"
	if got := out.String(); got != want {
		t.Fatalf("frame stream = %q, want %q", got, want)
	}
}

func TestSwapColoredDot(t *testing.T) {
	c, out := newTestCanvas(t, 4, 4)
	c.RenderDotColor(0, 0, raster.Red)
	if err := c.SwapBuffers(); err != nil {
		t.Fatalf("swap failed: %v", err)
	}
	want := "\x1b[39m\x1b[1;1H\x1b[31m\xe2\xa0\x81"
	if got := out.String(); got != want {
		t.Fatalf("frame stream = %q, want %q", got, want)
	}
}

func TestSwapPacksCellDots(t *testing.T) {
	c, out := newTestCanvas(t, 4, 4)
	c.RenderDot(1, 0)
	c.RenderDot(0, 1)
	if err := c.SwapBuffers(); err != nil {
		t.Fatalf("swap failed: %v", err)
	}
	// Internal mask 0x12 converts to braille 0x0a (dots 2 and 4).
	want := "\x1b[39m\x1b[1;1H\xe2\xa0\x8a"
	if got := out.String(); got != want {
		t.Fatalf("frame stream = %q, want %q", got, want)
	}
}

func TestSwapErasesStaleDot(t *testing.T) {
	c, out := newTestCanvas(t, 4, 4)
	c.RenderDot(0, 0)
	if err := c.SwapBuffers(); err != nil {
		t.Fatalf("first swap failed: %v", err)
	}
	out.Reset()

	if err := c.SwapBuffers(); err != nil {
		t.Fatalf("second swap failed: %v", err)
	}
	want := "\x1b[39m\x1b[1;1H\xe2\xa0\x80"
	if got := out.String(); got != want {
		t.Fatalf("frame stream = %q, want %q", got, want)
	}
}

func TestSwapIdempotentWhenNothingChanged(t *testing.T) {
	c, out := newTestCanvas(t, 4, 4)
	c.RenderDot(0, 0)
	if err := c.SwapBuffers(); err != nil {
		t.Fatalf("first swap failed: %v", err)
	}
	if err := c.SwapBuffers(); err != nil {
		t.Fatalf("second swap failed: %v", err)
	}
	out.Reset()

	// Third frame: the displayed frame is already empty and nothing was
	// rasterized, so only the stream prefix goes out.
	if err := c.SwapBuffers(); err != nil {
		t.Fatalf("third swap failed: %v", err)
	}
	if got := out.String(); got != "\x1b[39m" {
		t.Fatalf("expected bare prefix, got %q", got)
	}
}

func TestOverlayWinsOverGraphics(t *testing.T) {
	c, out := newTestCanvas(t, 4, 4)
	if err := c.PrintText(0, 0, "A"); err != nil {
		t.Fatalf("print failed: %v", err)
	}
	c.RenderDot(0, 0)
	if err := c.SwapBuffers(); err != nil {
		t.Fatalf("swap failed: %v", err)
	}
	want := "\x1b[39m\x1b[1;1HA"
	if got := out.String(); got != want {
		t.Fatalf("frame stream = %q, want %q", got, want)
	}
}

func TestOverlayMasksGraphicsChanges(t *testing.T) {
	c, out := newTestCanvas(t, 4, 4)

	// Frame 1: overlay plus a dot underneath.
	c.PrintText(0, 0, "A")
	c.RenderDot(0, 0)
	if err := c.SwapBuffers(); err != nil {
		t.Fatalf("frame 1 failed: %v", err)
	}

	// Frame 2: same overlay, different graphics underneath; the cell must
	// be skipped entirely.
	out.Reset()
	c.PrintText(0, 0, "A")
	c.RenderDot(1, 1)
	if err := c.SwapBuffers(); err != nil {
		t.Fatalf("frame 2 failed: %v", err)
	}
	if got := out.String(); got != "\x1b[39m" {
		t.Fatalf("expected masked cell to be skipped, got %q", got)
	}

	// Frame 3: overlay gone; the graphics layer resurfaces.
	out.Reset()
	c.RenderDot(0, 0)
	if err := c.SwapBuffers(); err != nil {
		t.Fatalf("frame 3 failed: %v", err)
	}
	want := "\x1b[39m\x1b[1;1H\xe2\xa0\x81"
	if got := out.String(); got != want {
		t.Fatalf("frame stream = %q, want %q", got, want)
	}
}

func TestOverlayForcesDefaultForeground(t *testing.T) {
	c, out := newTestCanvas(t, 4, 4)
	c.RenderDotColor(0, 0, raster.Red)
	c.PrintText(0, 1, "B")
	if err := c.SwapBuffers(); err != nil {
		t.Fatalf("swap failed: %v", err)
	}
	want := "\x1b[39m\x1b[1;1H\x1b[31m\xe2\xa0\x81\x1b[39mB"
	if got := out.String(); got != want {
		t.Fatalf("frame stream = %q, want %q", got, want)
	}
}

func TestSwapSuppressesRedundantColorChanges(t *testing.T) {
	c, out := newTestCanvas(t, 4, 4)
	c.RenderDotColor(0, 0, raster.Green)
	c.RenderDotColor(2, 0, raster.Green)
	if err := c.SwapBuffers(); err != nil {
		t.Fatalf("swap failed: %v", err)
	}
	want := "\x1b[39m\x1b[1;1H\x1b[32m\xe2\xa0\x81\xe2\xa0\x81"
	if got := out.String(); got != want {
		t.Fatalf("frame stream = %q, want %q", got, want)
	}
}

func TestSwapMovesCursorAfterSkippedCells(t *testing.T) {
	c, out := newTestCanvas(t, 4, 4)
	c.RenderDot(0, 0)
	c.RenderDot(4, 0) // cell (0,2); cell (0,1) stays untouched
	if err := c.SwapBuffers(); err != nil {
		t.Fatalf("swap failed: %v", err)
	}
	want := "\x1b[39m\x1b[1;1H\xe2\xa0\x81\x1b[1;3H\xe2\xa0\x81"
	if got := out.String(); got != want {
		t.Fatalf("frame stream = %q, want %q", got, want)
	}
}

func TestPrintTextRange(t *testing.T) {
	c, _ := newTestCanvas(t, 4, 4)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 4}} {
		if err := c.PrintText(p[0], p[1], "x"); !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("start cell (%d,%d): expected ErrOutOfRange, got %v", p[0], p[1], err)
		}
	}
	if err := c.PrintText(3, 3, "x"); err != nil {
		t.Fatalf("in-range cell rejected: %v", err)
	}
}

type flakyWriter struct {
	fail bool
	buf  bytes.Buffer
}

func (w *flakyWriter) Write(p []byte) (int, error) {
	if w.fail {
		return 0, errors.New("sink closed")
	}
	return w.buf.Write(p)
}

func TestFailedWriteDoesNotSwap(t *testing.T) {
	w := &flakyWriter{fail: true}
	c := newCanvas(w, 4, 4)

	c.RenderDot(0, 0)
	if err := c.SwapBuffers(); err == nil {
		t.Fatalf("expected write failure")
	}

	// The delta was not presented, so a retry emits it in full.
	w.fail = false
	if err := c.SwapBuffers(); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	want := "\x1b[39m\x1b[1;1H\xe2\xa0\x81"
	if got := w.buf.String(); got != want {
		t.Fatalf("retried frame stream = %q, want %q", got, want)
	}
}

func TestResizePendingFlag(t *testing.T) {
	c, out := newTestCanvas(t, 4, 4)
	if c.IsResizePending() {
		t.Fatalf("fresh canvas has resize pending")
	}
	if err := c.Resize(); err != nil {
		t.Fatalf("no-op resize failed: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("no-op resize wrote %q", out.String())
	}

	c.RenderDot(0, 0)
	c.SetResizePending()
	if !c.IsResizePending() {
		t.Fatalf("expected resize pending after notification")
	}
	if err := c.Resize(); err != nil {
		t.Fatalf("resize failed: %v", err)
	}
	if c.IsResizePending() {
		t.Fatalf("resize left the pending flag set")
	}
	if got := out.String(); got != "\x1b[2J" {
		t.Fatalf("expected clear screen, got %q", got)
	}
	for i := range c.sb {
		for row := 0; row < 4; row++ {
			for col := 0; col < 4; col++ {
				mask, fg, text := c.sb[i].Cell(row, col)
				if mask != 0 || fg != raster.Default || text != 0 {
					t.Fatalf("buffer %d cell (%d,%d) survived resize", i, row, col)
				}
			}
		}
	}
}
