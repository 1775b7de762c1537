package main

import (
	"fmt"
	"math"
	"math/rand"

	"vtrender/canvas"
	"vtrender/raster"
)

// Boid dimensions in dots.
const (
	boidWidth  = 6
	boidLength = 9
)

// Linear speed in dots per second.
const boidSpeed = 50

// Roll angle for banking, in degrees. Larger angles produce sharper turns
// but must stay under 90.
const bankAngle = 80

// Wandering configuration.
const (
	avgHeadingDelayMS       = 2000
	headingDelayVariationMS = 500
	headingChangeLimitDeg   = 30
)

// Sensing ranges, in dots.
const (
	viewRange             = 80
	viewRangeSquared      = viewRange * viewRange
	repulsionRange        = 20
	repulsionRangeSquared = repulsionRange * repulsionRange
)

const trailSize = 20

type boid struct {
	// Position, velocity, and normal; the latter two are unit vectors.
	p, v, n vec2

	// Heading angles, in radians.
	heading        float64
	desiredHeading float64

	// Wandering state.
	headingChangeDelay int
	curHeadingTime     int

	color raster.Color

	// Trail history ring.
	trail    [trailSize]vec2
	trailIdx int
	trailLen int
}

type flock struct {
	boids []boid

	// Approximated radial force generated by the fixed banking angle.
	radialForce float64

	debug  bool
	trails bool

	totalTime int // milliseconds
}

var boidColors = []raster.Color{raster.Yellow, raster.Blue, raster.Green, raster.Red}

func newFlock(vt *canvas.Canvas, n int, colors, trails, debug bool) *flock {
	f := &flock{
		boids:       make([]boid, n),
		radialForce: 9.81 * math.Tan(grad2rad(bankAngle)) / boidSpeed,
		debug:       debug,
		trails:      trails,
	}
	for i := range f.boids {
		b := &f.boids[i]
		b.p = vec2{
			x: float64(rand.Intn(vt.XDots())),
			y: float64(rand.Intn(vt.YDots())),
		}
		b.heading = grad2rad(float64(rand.Intn(360)))
		b.desiredHeading = b.heading
		b.v = headingVec(b.heading)
		b.n = b.v.normal()
		if colors {
			b.color = boidColors[i%len(boidColors)]
		}
	}
	return f
}

func randSpread(base, spread int) int {
	return base + rand.Intn(spread*2) - spread
}

// wander applies a small random heading change after keeping the current
// heading for a while.
func (b *boid) wander(dtime int) {
	b.curHeadingTime += dtime
	if b.curHeadingTime < b.headingChangeDelay {
		return
	}
	b.curHeadingTime = 0
	b.headingChangeDelay = randSpread(avgHeadingDelayMS, headingDelayVariationMS)
	b.desiredHeading = b.heading + grad2rad(float64(randSpread(0, headingChangeLimitDeg)))
}

// update advances the simulation by dtime milliseconds.
//
// The neighbor search makes the whole update quadratic. That is fine for
// the boid counts this demo runs at; a spatial partition would be the fix
// if it ever isn't.
func (f *flock) update(vt *canvas.Canvas, dtime int) {
	if f.debug {
		f.totalTime += dtime
		vt.PrintText(0, 0, fmt.Sprintf("t(s) = %.02f", float64(f.totalTime)/1000))
	}

	for i := range f.boids {
		b := &f.boids[i]

		totalNeighbors := 0
		var alignment, cohesion, separation vec2
		for j := range f.boids {
			if j == i {
				continue
			}
			other := &f.boids[j]
			d2 := b.p.distSquared(other.p)
			if d2 > viewRangeSquared {
				continue
			}
			totalNeighbors++
			alignment = alignment.add(other.v)
			cohesion = cohesion.add(other.p)

			if d2 <= repulsionRangeSquared {
				// A distance that rounds to zero still needs to repel.
				if d2 == 0 {
					d2 = 0.001
				}
				separation = separation.add(b.p.sub(other.p).mul(1 / d2))
			}
		}

		if totalNeighbors == 0 {
			b.wander(dtime)
		} else {
			alignment = alignment.unit()

			cohesion = cohesion.add(b.p).mul(1 / float64(totalNeighbors+1))
			cohesion = cohesion.sub(b.p).unit()

			separation = separation.unit()

			b.desiredHeading = headingAngle(alignment.add(cohesion).add(separation))
		}

		// Move the heading toward the desired heading over dt.
		dheading := f.radialForce * float64(dtime) / 1000
		switch {
		case math.Abs(b.heading-b.desiredHeading) <= dheading:
			b.heading = b.desiredHeading
		case b.desiredHeading > b.heading:
			b.heading += dheading
		default:
			b.heading -= dheading
		}

		b.p.x += boidSpeed * math.Cos(b.heading) * float64(dtime) / 1000
		b.p.y += boidSpeed * math.Sin(b.heading) * float64(dtime) / 1000
		b.v = headingVec(b.heading)
		b.n = b.v.normal()

		// Wrap over screen edges.
		if b.p.x < 0 {
			b.p.x += float64(vt.XDots())
		} else if b.p.x >= float64(vt.XDots()) {
			b.p.x -= float64(vt.XDots())
		}
		if b.p.y < 0 {
			b.p.y += float64(vt.YDots())
		} else if b.p.y >= float64(vt.YDots()) {
			b.p.y -= float64(vt.YDots())
		}

		b.trail[b.trailIdx] = b.p
		b.trailIdx = (b.trailIdx + 1) % trailSize
		if b.trailLen < trailSize {
			b.trailLen++
		}
	}
}

func (f *flock) draw(vt *canvas.Canvas) error {
	for i := range f.boids {
		b := &f.boids[i]

		verts := []raster.Vertex{
			project(b.p.mulAdd(b.n, -boidWidth/2)),
			project(b.p.mulAdd(b.n, boidWidth/2)),
			project(b.p.mulAdd(b.v, boidLength)),
		}
		if err := vt.TracePolyColor(verts, b.color); err != nil {
			return err
		}

		if f.trails {
			// Every other trail dot, so the trail reads as a dashed curve.
			for idx := 1; idx < b.trailLen; idx += 2 {
				var pos vec2
				if b.trailIdx > idx {
					pos = b.trail[b.trailIdx-idx-1]
				} else {
					pos = b.trail[b.trailLen+b.trailIdx-idx-1]
				}
				d := project(pos)
				vt.RenderDotColor(d.X, d.Y, b.color)
			}
		}

		if f.debug {
			start := project(b.p)
			end := project(b.p.mulAdd(b.v, viewRange/4))
			vt.ScanLineColor(start.X, start.Y, end.X, end.Y, raster.Cyan)
		}
	}
	return nil
}
