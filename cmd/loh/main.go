// Bouncing line-art demo: three letterforms drawn with colored segments
// inside a box that drifts around the screen.
package main

import (
	"fmt"
	"os"
	"time"

	"vtrender/canvas"
	"vtrender/cmd/internal/sigloop"
	"vtrender/raster"
)

const (
	wbox   = 150
	hbox   = 80
	margin = 4
	charw  = wbox / 3
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

	x, y := 0, 0
	xdir, ydir := 1, 1

	tick := time.NewTicker(time.Second / 60)
	defer tick.Stop()
	for range tick.C {
		if err := vt.Resize(); err != nil {
			return err
		}

		vt.ScanLineColor(x+margin, y+hbox-margin, x+charw/2, y+margin, raster.Red)
		vt.ScanLineColor(x+charw/2, y+margin, x+charw-margin, y+hbox-margin, raster.Green)

		vt.ScanLineColor(x+charw+margin, y+margin, x+charw*2-margin, y+margin, raster.Yellow)
		vt.ScanLineColor(x+charw+margin, y+margin, x+charw+margin, y+hbox-margin, raster.Blue)
		vt.ScanLineColor(x+charw+margin, y+hbox-margin, x+charw*2-margin, y+hbox-margin, raster.Magenta)
		vt.ScanLineColor(x+charw*2-margin, y+hbox-margin, x+charw*2-margin, y+margin, raster.Cyan)

		vt.ScanLineColor(x+charw*2+margin, y+margin, x+charw*3-margin, y+hbox-margin, raster.White)
		vt.ScanLineColor(x+charw*3-margin, y+margin, x+charw*2+margin, y+hbox-margin, raster.Default)

		if err := vt.SwapBuffers(); err != nil {
			return err
		}

		x += xdir
		y += ydir
		if x <= 0 {
			xdir = 1
		} else if x+wbox >= vt.XDots() {
			xdir = -1
		}
		if y <= 0 {
			ydir = 1
		} else if y+hbox >= vt.YDots() {
			ydir = -1
		}
	}
	return nil
}
