package canvas

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

func openPTY(t *testing.T, rows, cols uint16) (ptmx, tts *os.File) {
	t.Helper()
	ptmx, tts, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	t.Cleanup(func() {
		ptmx.Close()
		tts.Close()
	})
	if err := pty.Setsize(tts, &pty.Winsize{Rows: rows, Cols: cols}); err != nil {
		t.Fatalf("set pty size: %v", err)
	}
	return ptmx, tts
}

// expectOut reads exactly the expected bytes from the pty master.
func expectOut(t *testing.T, ptmx *os.File, want string) {
	t.Helper()
	if err := ptmx.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("set read deadline: %v", err)
	}
	buf := make([]byte, len(want))
	if _, err := io.ReadFull(ptmx, buf); err != nil {
		t.Fatalf("read pty: %v", err)
	}
	if string(buf) != want {
		t.Fatalf("terminal received %q, want %q", buf, want)
	}
}

func TestCreateSizesFromTerminal(t *testing.T) {
	_, tts := openPTY(t, 10, 20)

	c, err := Create(tts)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	defer c.Close()

	if c.XDots() != 40 || c.YDots() != 40 {
		t.Fatalf("expected 40x40 dots for a 10x20 terminal, got %dx%d", c.XDots(), c.YDots())
	}
}

func TestCreateRejectsNonTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "sink")
	if err != nil {
		t.Fatalf("temp file: %v", err)
	}
	defer f.Close()

	if _, err := Create(f); err == nil {
		t.Fatalf("expected non-terminal sink to be rejected")
	}
}

func TestResetEntersRawMode(t *testing.T) {
	ptmx, tts := openPTY(t, 10, 20)

	c, err := Create(tts)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	defer c.Close()

	if err := c.Reset(); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	attrs, err := unix.IoctlGetTermios(int(tts.Fd()), ioctlReadTermios)
	if err != nil {
		t.Fatalf("get termios: %v", err)
	}
	if attrs.Oflag&unix.OPOST != 0 {
		t.Fatalf("expected OPOST cleared, oflag=%#x", attrs.Oflag)
	}
	if attrs.Cflag&unix.CREAD != 0 {
		t.Fatalf("expected CREAD cleared, cflag=%#x", attrs.Cflag)
	}
	if attrs.Lflag&(unix.ICANON|unix.ECHO|unix.IEXTEN) != 0 {
		t.Fatalf("expected ICANON/ECHO/IEXTEN cleared, lflag=%#x", attrs.Lflag)
	}

	expectOut(t, ptmx, "\x1b[?1049h\x1b[?25l\x1b[2J\x1b[0m")
}

func TestCloseRestoresTerminal(t *testing.T) {
	ptmx, tts := openPTY(t, 10, 20)

	orig, err := unix.IoctlGetTermios(int(tts.Fd()), ioctlReadTermios)
	if err != nil {
		t.Fatalf("get termios: %v", err)
	}

	c, err := Create(tts)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := c.Reset(); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	expectOut(t, ptmx, "\x1b[?1049h\x1b[?25l\x1b[2J\x1b[0m")

	c.Close()

	attrs, err := unix.IoctlGetTermios(int(tts.Fd()), ioctlReadTermios)
	if err != nil {
		t.Fatalf("get termios: %v", err)
	}
	if attrs.Oflag != orig.Oflag || attrs.Cflag != orig.Cflag || attrs.Lflag != orig.Lflag {
		t.Fatalf("attributes not restored: oflag=%#x cflag=%#x lflag=%#x", attrs.Oflag, attrs.Cflag, attrs.Lflag)
	}

	expectOut(t, ptmx, "\x1b[?1049l\x1b[?25h")
}

func TestResizeReallocatesAndDiscards(t *testing.T) {
	ptmx, tts := openPTY(t, 10, 20)

	c, err := Create(tts)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	defer c.Close()

	c.RenderDot(3, 3)
	c.SetResizePending()
	if err := pty.Setsize(tts, &pty.Winsize{Rows: 12, Cols: 30}); err != nil {
		t.Fatalf("set pty size: %v", err)
	}

	if err := c.Resize(); err != nil {
		t.Fatalf("resize failed: %v", err)
	}
	if c.IsResizePending() {
		t.Fatalf("resize left the pending flag set")
	}
	if c.XDots() != 60 || c.YDots() != 48 {
		t.Fatalf("expected 60x48 dots after resize, got %dx%d", c.XDots(), c.YDots())
	}
	for i := range c.sb {
		if c.sb[i].Rows() != 12 || c.sb[i].Cols() != 30 {
			t.Fatalf("buffer %d not reallocated: %dx%d", i, c.sb[i].Rows(), c.sb[i].Cols())
		}
		for row := 0; row < 12; row++ {
			for col := 0; col < 30; col++ {
				mask, _, text := c.sb[i].Cell(row, col)
				if mask != 0 || text != 0 {
					t.Fatalf("buffer %d cell (%d,%d) survived resize", i, row, col)
				}
			}
		}
	}

	expectOut(t, ptmx, "\x1b[2J")
}
