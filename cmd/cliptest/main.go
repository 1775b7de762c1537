// Clipping test harness: sweeps dots, triangles, and lines across every
// canvas edge to eyeball the clippers.
package main

import (
	"fmt"
	"os"
	"time"

	"vtrender/canvas"
	"vtrender/cmd/internal/sigloop"
	"vtrender/raster"
)

const frame = time.Second / 60

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

	// Dots entirely off-canvas draw nothing.
	vt.RenderDot(-1, -1)
	vt.RenderDot(1<<16, 1<<16)
	if err := present(vt); err != nil {
		return err
	}

	// Move a triangle across the screen.
	for y := 0; y < vt.YDots()+10; y++ {
		err := vt.TracePoly([]raster.Vertex{
			{X: 50, Y: y - 10},
			{X: 45, Y: y},
			{X: 55, Y: y},
		})
		if err != nil {
			return err
		}
		if err := present(vt); err != nil {
			return err
		}
	}
	for x := 0; x < vt.XDots()+10; x++ {
		err := vt.TracePoly([]raster.Vertex{
			{X: x - 10, Y: 50},
			{X: x, Y: 45},
			{X: x, Y: 55},
		})
		if err != nil {
			return err
		}
		if err := present(vt); err != nil {
			return err
		}
	}

	// Move a vertical line across the canvas and clip it.
	for x := -1; x <= vt.XDots(); x++ {
		vt.ScanLine(x, -1, x, vt.YDots())
		if err := present(vt); err != nil {
			return err
		}
	}

	// Same horizontally.
	for y := -1; y <= vt.YDots(); y++ {
		vt.ScanLine(-1, y, vt.XDots(), y)
		if err := present(vt); err != nil {
			return err
		}
	}

	// Sloped line moving horizontally, then vertically.
	for x := -50; x <= vt.XDots(); x++ {
		vt.ScanLine(x, -1, x+50, vt.YDots())
		if err := present(vt); err != nil {
			return err
		}
	}
	for y := -50; y <= vt.YDots(); y++ {
		vt.ScanLine(-1, y, vt.XDots(), y+50)
		if err := present(vt); err != nil {
			return err
		}
	}

	// Half-segment moving across the screen.
	for x := 0; x < vt.XDots(); x += vt.XDots() / 4 {
		for y := 0; y < vt.YDots(); y++ {
			vt.ScanLine(x, y-vt.YDots()/4, x+vt.XDots()/2, y+vt.YDots()/4)
			if err := present(vt); err != nil {
				return err
			}
		}
	}

	return nil
}

func present(vt *canvas.Canvas) error {
	if err := vt.Resize(); err != nil {
		return err
	}
	if err := vt.SwapBuffers(); err != nil {
		return err
	}
	time.Sleep(frame)
	return nil
}
