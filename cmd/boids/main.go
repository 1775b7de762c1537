// Boids flocking demo rendered as braille dots.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"vtrender/canvas"
	"vtrender/cmd/internal/sigloop"
)

const simHz = 60

func main() {
	var (
		nboids int
		colors bool
		trails bool
		debug  bool
	)

	root := &cobra.Command{
		Use:           "boids",
		Short:         "Flocking simulation rendered as braille dots",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if nboids <= 0 {
				return errors.New("boid count must be positive")
			}
			return run(nboids, colors, trails, debug)
		},
	}
	root.Flags().IntVarP(&nboids, "boids", "n", 64, "number of boids")
	root.Flags().BoolVarP(&colors, "colors", "c", false, "color boids from a fixed four-color palette")
	root.Flags().BoolVarP(&trails, "trails", "t", false, "draw dashed trails")
	root.Flags().BoolVarP(&debug, "debug", "d", false, "draw the debug overlay")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(nboids int, colors, trails, debug bool) error {
	vt, err := canvas.Create(os.Stdout)
	if err != nil {
		return err
	}
	defer vt.Close()
	sigloop.Notify(vt)

	if err := vt.Reset(); err != nil {
		return err
	}

	f := newFlock(vt, nboids, colors, trails, debug)

	tprev := time.Now()
	tick := time.NewTicker(time.Second / simHz)
	defer tick.Stop()
	for range tick.C {
		if err := vt.Resize(); err != nil {
			return err
		}

		tcur := time.Now()
		dtime := int(tcur.Sub(tprev) / time.Millisecond)
		tprev = tcur

		f.update(vt, dtime)
		if err := f.draw(vt); err != nil {
			return err
		}

		if err := vt.SwapBuffers(); err != nil {
			return err
		}
	}
	return nil
}
