// Convex polygon demo: fills a nine-vertex polygon every frame.
package main

import (
	"fmt"
	"os"
	"time"

	"vtrender/canvas"
	"vtrender/cmd/internal/sigloop"
	"vtrender/raster"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	vt, err := canvas.Create(os.Stdout)
	if err != nil {
		return err
	}
	defer vt.Close()
	sigloop.Notify(vt)

	if err := vt.Reset(); err != nil {
		return err
	}

	vlist := []raster.Vertex{
		{X: 80, Y: 38},
		{X: 72, Y: 56},
		{X: 51, Y: 66},
		{X: 28, Y: 62},
		{X: 12, Y: 48},
		{X: 12, Y: 28},
		{X: 28, Y: 14},
		{X: 51, Y: 10},
		{X: 72, Y: 20},
	}

	tick := time.NewTicker(time.Second / 60)
	defer tick.Stop()
	for range tick.C {
		if err := vt.Resize(); err != nil {
			return err
		}
		if err := vt.TracePoly(vlist); err != nil {
			return err
		}
		if err := vt.SwapBuffers(); err != nil {
			return err
		}
	}
	return nil
}
