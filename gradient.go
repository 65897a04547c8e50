package theme

import (
	"image/color"
	"math"
)

// gradientOffset returns the vector from the center of r to the end of a
// gradient axis at angle degrees, measured clockwise from vertical. The
// vector's y component is the half-height; if that would push x past the
// half-width, x is clamped to the half-width and y follows from the angle.
// Angles at which the axis is exactly horizontal (90°, 270°) use the
// half-width directly.
func gradientOffset(r Rect, angle float64) (dx, dy float64) {
	halfW := math.Abs(r.X2-r.X1) / 2
	halfH := math.Abs(r.Y2-r.Y1) / 2
	a := mod360(angle)
	rad := a * math.Pi / 180

	switch a {
	case 90:
		return halfW, 0
	case 270:
		return -halfW, 0
	}

	if mod360(a+90) < 180 {
		dy = halfH
	} else {
		dy = -halfH
	}
	dx = dy * math.Tan(rad)
	if math.Abs(dx) > halfW {
		if a < 180 {
			dx = halfW
		} else {
			dx = -halfW
		}
		dy = dx / math.Tan(rad)
	}
	return dx, dy
}

func mod360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// gradientStop is a resolved stop of a linear gradient.
type gradientStop struct {
	pos   float64
	color color.NRGBA
}

// linearGradient is a gg.Pattern that interpolates its stops in the order
// they were declared. Points before the start or past the end of the axis
// take the first or last stop color.
type linearGradient struct {
	x0, y0, x1, y1 float64
	stops          []gradientStop
}

func (g *linearGradient) ColorAt(x, y int) color.Color {
	if len(g.stops) == 0 {
		return color.Transparent
	}
	return g.at(g.project(float64(x)+0.5, float64(y)+0.5))
}

// project returns the position of x, y along the gradient axis, 0 at the
// start point and 1 at the end point.
func (g *linearGradient) project(x, y float64) float64 {
	dx, dy := g.x1-g.x0, g.y1-g.y0
	den := dx*dx + dy*dy
	if den == 0 {
		return 0
	}
	return ((x-g.x0)*dx + (y-g.y0)*dy) / den
}

// at returns the color at axis position t. Consecutive stop pairs are
// searched in declaration order, so out-of-order stops are honored as written.
func (g *linearGradient) at(t float64) color.NRGBA {
	first := g.stops[0]
	if t <= first.pos {
		return first.color
	}
	for i := 1; i < len(g.stops); i++ {
		a, b := g.stops[i-1], g.stops[i]
		lo, hi := min(a.pos, b.pos), max(a.pos, b.pos)
		if t < lo || t > hi {
			continue
		}
		if hi == lo {
			return b.color
		}
		return lerpColor(a.color, b.color, (t-a.pos)/(b.pos-a.pos))
	}
	return g.stops[len(g.stops)-1].color
}

func lerpColor(a, b color.NRGBA, t float64) color.NRGBA {
	l := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.NRGBA{R: l(a.R, b.R), G: l(a.G, b.G), B: l(a.B, b.B), A: l(a.A, b.A)}
}
