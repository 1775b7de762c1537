package raster

import (
	"errors"
	"math"
)

// ErrNotConvex is returned by Poly when the vertex list does not describe a
// convex polygon.
var ErrNotConvex = errors.New("polygon is not convex")

// Dot plots a single dot, silently discarding out-of-canvas coordinates.
func Dot(b *Buffer, x, y int, fg Color) {
	if x < 0 || x >= b.xdots || y < 0 || y >= b.ydots {
		return
	}
	b.Plot(x, y, fg)
}

// roundNearest rounds to the nearest integer with ties going up.
func roundNearest(f float64) int {
	return int(math.Floor(f + 0.5))
}

// slope returns the line slope, +Inf when undefined (vertical).
func slope(x0, y0, x1, y1 int) float64 {
	if x1 == x0 {
		return math.Inf(1)
	}
	return float64(y1-y0) / float64(x1-x0)
}

// clipSegment clips a segment to [0, xmax] x [0, ymax] with Liang-Barsky.
// Returns false when the segment lies fully outside.
func clipSegment(x0, y0, x1, y1, xmax, ymax int) (int, int, int, int, bool) {
	dx := x1 - x0
	dy := y1 - y0
	p := [4]int{-dx, dx, -dy, dy}
	q := [4]int{x0, xmax - x0, y0, ymax - y0}

	tentry, texit := 0.0, 1.0
	for i := range p {
		if p[i] == 0 {
			// Parallel to this edge; outside it means outside the canvas.
			if q[i] < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := float64(q[i]) / float64(p[i])
		if p[i] < 0 {
			if t > tentry {
				tentry = t
			}
		} else if t < texit {
			texit = t
		}
	}
	if tentry > texit {
		return 0, 0, 0, 0, false
	}

	nx0 := roundNearest(float64(x0) + tentry*float64(dx))
	ny0 := roundNearest(float64(y0) + tentry*float64(dy))
	nx1 := roundNearest(float64(x0) + texit*float64(dx))
	ny1 := roundNearest(float64(y0) + texit*float64(dy))
	return nx0, ny0, nx1, ny1, true
}

// Line scans a line segment between two dot coordinates, clipping it to
// the canvas rectangle first.
func Line(b *Buffer, x0, y0, x1, y1 int, fg Color) {
	x0, y0, x1, y1, ok := clipSegment(x0, y0, x1, y1, b.xdots-1, b.ydots-1)
	if !ok {
		return
	}
	scan(b, x0, y0, x1, y1, fg)
}

// scan rasterizes a segment whose endpoints are already inside the canvas.
//
// Horizontal, vertical and 45-degree lines are exact integer marches. The
// generic case walks the major axis and solves the line equation for the
// minor coordinate, rounding to the nearest dot. A minor coordinate that
// lands exactly halfway between two dots puts the fragment in both: plot
// both dots so thin lines stay connected.
func scan(b *Buffer, x0, y0, x1, y1 int, fg Color) {
	m := slope(x0, y0, x1, y1)
	hdir, vdir := 1, 1
	if x0 >= x1 {
		hdir = -1
	}
	if y0 >= y1 {
		vdir = -1
	}

	switch {
	case m == 0:
		for x := x0; ; x += hdir {
			b.Plot(x, y0, fg)
			if x == x1 {
				return
			}
		}
	case math.IsInf(m, 1):
		for y := y0; ; y += vdir {
			b.Plot(x0, y, fg)
			if y == y1 {
				return
			}
		}
	case m == 1 || m == -1:
		for x, y := x0, y0; ; x, y = x+hdir, y+vdir {
			b.Plot(x, y, fg)
			if x == x1 {
				return
			}
		}
	case m > -1 && m < 1:
		for x, y := x0, y0; ; {
			b.Plot(x, y, fg)
			x += hdir
			if x == x1+hdir {
				return
			}
			yf := m*float64(x-x1) + float64(y1)
			y = roundNearest(yf)
			if yf-float64(y) == -0.5 {
				Dot(b, x, y-1, fg)
			}
		}
	default:
		for x, y := x0, y0; ; {
			b.Plot(x, y, fg)
			y += vdir
			if y == y1+vdir {
				return
			}
			xf := float64(y-y1)/m + float64(x1)
			x = roundNearest(xf)
			if xf-float64(x) == -0.5 {
				Dot(b, x-1, y, fg)
			}
		}
	}
}

// convex reports whether consecutive vertex triples all turn the same way.
// Collinear triples (zero cross product) are tolerated.
func convex(verts []Vertex) bool {
	sign := 0
	n := len(verts)
	for i := 0; i < n; i++ {
		a, b, c := verts[i], verts[(i+1)%n], verts[(i+2)%n]
		cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
		switch {
		case cross == 0:
		case sign == 0:
			sign = 1
			if cross < 0 {
				sign = -1
			}
		case (cross > 0) != (sign > 0):
			return false
		}
	}
	return true
}

// Poly traces the closed polygon described by verts and fills it. The last
// vertex connects back to the first. Vertex lists of zero, one, or two
// entries degrade to a no-op, a dot, and a line. Longer lists must be
// convex; ErrNotConvex is returned (and nothing plotted) otherwise.
func Poly(b *Buffer, verts []Vertex, fg Color) error {
	switch len(verts) {
	case 0:
		return nil
	case 1:
		Dot(b, verts[0].X, verts[0].Y, fg)
		return nil
	case 2:
		Line(b, verts[0].X, verts[0].Y, verts[1].X, verts[1].Y, fg)
		return nil
	}

	if !convex(verts) {
		return ErrNotConvex
	}

	ymin, ymax := verts[0].Y, verts[0].Y
	for _, v := range verts[1:] {
		ymin = min(ymin, v.Y)
		ymax = max(ymax, v.Y)
	}
	if ymax < 0 || ymin >= b.ydots {
		return nil
	}

	var xcepts []int
	for y := max(ymin, 0); y <= min(ymax, b.ydots-1); y++ {
		xcepts = xcepts[:0]
		for i := range verts {
			a := verts[i]
			c := verts[(i+1)%len(verts)]

			switch {
			case y == a.Y && y == c.Y:
				// The edge itself lies on the scan line.
				Line(b, a.X, a.Y, c.X, c.Y, fg)
			case (y == a.Y || y == c.Y) && (y == ymin || y == ymax):
				// Local extremum vertex: a single dot, no intercept.
				x := c.X
				if y == a.Y {
					x = a.X
				}
				Dot(b, x, y, fg)
			case (y >= a.Y && y <= c.Y) || (y >= c.Y && y <= a.Y):
				x := roundNearest(float64(a.X-c.X)*float64(y-c.Y)/float64(a.Y-c.Y) + float64(c.X))
				xcepts = addIntercept(b, xcepts, x, y, y != a.Y && y != c.Y, fg)
			}
		}

		switch {
		case len(xcepts) == 1:
			Dot(b, xcepts[0], y, fg)
		case len(xcepts) >= 2:
			Line(b, xcepts[0], y, xcepts[1], y, fg)
		}
	}

	return nil
}

// addIntercept records an x-intercept for the current scan line. Two edges
// sharing a vertex produce the same x; only one entry is kept. A repeated
// strictly-interior intercept means the polygon pinches to a point there:
// plot the dot and cancel the pair.
func addIntercept(b *Buffer, xcepts []int, x, y int, interior bool, fg Color) []int {
	for i, prev := range xcepts {
		if prev != x {
			continue
		}
		if interior {
			Dot(b, x, y, fg)
			return append(xcepts[:i], xcepts[i+1:]...)
		}
		return xcepts
	}
	return append(xcepts, x)
}
