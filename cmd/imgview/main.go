// Image viewer: downsamples an image to the dot grid and plots the dots
// whose luminance clears a threshold.
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"vtrender/canvas"
	"vtrender/cmd/internal/sigloop"
	"vtrender/raster"
)

var (
	threshold = flag.Int("threshold", 128, "luminance cutoff for plotting a dot")
	invert    = flag.Bool("invert", false, "plot dark pixels instead of bright ones")
	colors    = flag.Bool("colors", false, "map pixels to the eight ANSI colors")
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: imgview [flags] <image>")
		os.Exit(2)
	}
	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	vt, err := canvas.Create(os.Stdout)
	if err != nil {
		return err
	}
	defer vt.Close()
	sigloop.Notify(vt)

	if err := vt.Reset(); err != nil {
		return err
	}

	// Redraw at a low rate so resizes reflow the image.
	tick := time.NewTicker(time.Second / 10)
	defer tick.Stop()
	for range tick.C {
		if err := vt.Resize(); err != nil {
			return err
		}
		draw(vt, img)
		if err := vt.SwapBuffers(); err != nil {
			return err
		}
	}
	return nil
}

func draw(vt *canvas.Canvas, img image.Image) {
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW < 1 || srcH < 1 {
		return
	}

	for y := 0; y < vt.YDots(); y++ {
		for x := 0; x < vt.XDots(); x++ {
			srcX := bounds.Min.X + x*srcW/vt.XDots()
			srcY := bounds.Min.Y + y*srcH/vt.YDots()

			r, g, b, a := img.At(srcX, srcY).RGBA()
			if a == 0 {
				continue
			}

			lum := (r>>8*299 + g>>8*587 + b>>8*114) / 1000
			if (int(lum) >= *threshold) == *invert {
				continue
			}

			fg := raster.Default
			if *colors {
				fg = ansiColor(r, g, b)
			}
			vt.RenderDotColor(x, y, fg)
		}
	}
}

// ansiColor buckets a pixel into the eight basic ANSI colors by
// thresholding each channel.
func ansiColor(r, g, b uint32) raster.Color {
	palette := [8]raster.Color{
		raster.Black, raster.Red, raster.Green, raster.Yellow,
		raster.Blue, raster.Magenta, raster.Cyan, raster.White,
	}
	idx := 0
	if r >= 0x8000 {
		idx |= 1
	}
	if g >= 0x8000 {
		idx |= 2
	}
	if b >= 0x8000 {
		idx |= 4
	}
	return palette[idx]
}
