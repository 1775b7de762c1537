// Package sigloop wires process signals to a canvas the way the demos
// need it: SIGWINCH marks the canvas resize-pending, interrupt and
// termination signals restore the terminal before exiting. The canvas
// itself installs no handlers.
package sigloop

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"

	"vtrender/canvas"
)

// Notify installs the demo signal handlers for vt.
func Notify(vt *canvas.Canvas) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, unix.SIGWINCH, unix.SIGINT, unix.SIGTERM)
	go func() {
		for sig := range ch {
			if sig == unix.SIGWINCH {
				vt.SetResizePending()
				continue
			}
			vt.Close()
			os.Exit(1)
		}
	}()
}
