package canvas

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// termSize queries the terminal dimensions in character cells.
func termSize(f *os.File) (rows, cols int, err error) {
	ws, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, fmt.Errorf("query window size: %w", err)
	}
	return int(ws.Row), int(ws.Col), nil
}

// getAttrs snapshots the terminal attributes for later restoration.
func getAttrs(f *os.File) (*unix.Termios, error) {
	attrs, err := unix.IoctlGetTermios(int(f.Fd()), ioctlReadTermios)
	if err != nil {
		return nil, fmt.Errorf("get terminal attributes: %w", err)
	}
	return attrs, nil
}

// enterRawMode disables output post-processing, input echo, canonical line
// mode, extended input processing, and the receiver enable, so every byte
// written reaches the terminal unchanged.
func enterRawMode(f *os.File) error {
	attrs, err := unix.IoctlGetTermios(int(f.Fd()), ioctlReadTermios)
	if err != nil {
		return fmt.Errorf("get terminal attributes: %w", err)
	}

	attrs.Oflag &^= unix.OPOST
	attrs.Cflag &^= unix.CREAD
	attrs.Lflag &^= unix.ICANON | unix.ECHO | unix.IEXTEN

	if err := unix.IoctlSetTermios(int(f.Fd()), ioctlWriteTermios, attrs); err != nil {
		return fmt.Errorf("set terminal attributes: %w", err)
	}
	return nil
}

// restoreAttrs reapplies a saved attribute snapshot.
func restoreAttrs(f *os.File, attrs *unix.Termios) error {
	return unix.IoctlSetTermios(int(f.Fd()), ioctlWriteTermios, attrs)
}
