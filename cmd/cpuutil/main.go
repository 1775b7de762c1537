// CPU utilization histogram: one braille column per dot of canvas width,
// newest sample at the left edge, older samples scrolling to the right.
package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"

	"vtrender/canvas"
	"vtrender/cmd/internal/sigloop"
)

const tickHz = 100

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type sampler struct {
	busy, total float64
	avg         float64
	decay       float64
}

func newSampler() *sampler {
	return &sampler{decay: math.Exp(-1.0 / tickHz)}
}

// sample returns the exponentially-smoothed CPU utilization in [0, 1].
func (s *sampler) sample() (float64, error) {
	times, err := cpu.Times(false)
	if err != nil {
		return s.avg, err
	}
	t := times[0]

	busy := t.User + t.Nice + t.System
	total := busy + t.Idle + t.Iowait

	dbusy := busy - s.busy
	dtotal := total - s.total
	s.busy, s.total = busy, total
	if dtotal <= 0 {
		return s.avg, nil
	}

	s.avg = s.avg*s.decay + (dbusy/dtotal)*(1.0-s.decay)
	return s.avg, nil
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

	s := newSampler()
	history := make([]float64, vt.XDots())
	pos := 0

	tick := time.NewTicker(time.Second / tickHz)
	defer tick.Stop()
	for range tick.C {
		if err := vt.Resize(); err != nil {
			return err
		}
		if len(history) != vt.XDots() {
			history = make([]float64, vt.XDots())
			pos = 0
		}

		u, err := s.sample()
		if err != nil {
			return err
		}
		history[pos] = u
		pos = (pos + 1) % len(history)

		for i := range history {
			u := history[(pos+i)%len(history)]
			x := vt.XDots() - i - 1
			h := int(float64(vt.YDots()) * u)
			if h > 0 {
				vt.ScanLine(x, vt.YDots()-h-1, x, vt.YDots()-1)
			} else {
				vt.RenderDot(x, vt.YDots()-1)
			}
		}

		if err := vt.SwapBuffers(); err != nil {
			return err
		}
	}
	return nil
}
