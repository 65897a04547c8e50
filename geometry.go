package theme

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBounds is returned when canvas bounds are not given as 2 or 4 numbers.
	ErrInvalidBounds = errors.New("bounds must have 2 or 4 elements")
	// ErrEmptyRegion is returned when a content region collapses after its margin is applied.
	ErrEmptyRegion = errors.New("region is empty after margin")
)

// Rect is an axis-aligned rectangle given by its two corners.
//
// Theme and slide descriptions use relative rectangles, where every
// component is a fraction (0.0 - 1.0) of some enclosing rectangle. Rendering
// converts them into absolute pixel rectangles against the canvas bounds.
// The zero Rect is treated as "unset" and resolves to FullRect.
type Rect struct {
	X1, Y1, X2, Y2 float64
}

// FullRect covers the whole enclosing area.
var FullRect = Rect{X1: 0, Y1: 0, X2: 1, Y2: 1}

// NewBounds builds absolute canvas bounds. Two values are a width and a
// height with the origin at 0,0; four values are x0, y0, x1, y1.
func NewBounds(b ...float64) (Rect, error) {
	switch len(b) {
	case 2:
		return Rect{X1: 0, Y1: 0, X2: b[0], Y2: b[1]}, nil
	case 4:
		return Rect{X1: b[0], Y1: b[1], X2: b[2], Y2: b[3]}, nil
	default:
		return Rect{}, fmt.Errorf("%w: got %d", ErrInvalidBounds, len(b))
	}
}

// IsZero reports whether r is the zero Rect.
func (r Rect) IsZero() bool {
	return r == Rect{}
}

// orFull returns FullRect for an unset rectangle.
func (r Rect) orFull() Rect {
	if r.IsZero() {
		return FullRect
	}
	return r
}

func (r Rect) Width() float64  { return r.X2 - r.X1 }
func (r Rect) Height() float64 { return r.Y2 - r.Y1 }

// Center returns the midpoint of r.
func (r Rect) Center() (float64, float64) {
	return r.X1/2 + r.X2/2, r.Y1/2 + r.Y2/2
}

// Abs converts the relative rectangle r into absolute coordinates inside bounds.
func (r Rect) Abs(bounds Rect) Rect {
	w, h := bounds.Width(), bounds.Height()
	return Rect{
		X1: bounds.X1 + r.X1*w,
		Y1: bounds.Y1 + r.Y1*h,
		X2: bounds.X1 + r.X2*w,
		Y2: bounds.Y1 + r.Y2*h,
	}
}

// Rel is the inverse of Abs: it expresses the absolute rectangle r as
// fractions of bounds. Degenerate bounds yield the zero Rect.
func (r Rect) Rel(bounds Rect) Rect {
	w, h := bounds.Width(), bounds.Height()
	if w == 0 || h == 0 {
		return Rect{}
	}
	return Rect{
		X1: (r.X1 - bounds.X1) / w,
		Y1: (r.Y1 - bounds.Y1) / h,
		X2: (r.X2 - bounds.X1) / w,
		Y2: (r.Y2 - bounds.Y1) / h,
	}
}

// Within re-expresses r, given relative to section, as a rectangle relative
// to the section's own enclosing area.
func (r Rect) Within(section Rect) Rect {
	w, h := section.Width(), section.Height()
	return Rect{
		X1: section.X1 + w*r.X1,
		Y1: section.Y1 + h*r.Y1,
		X2: section.X2 - w*(1-r.X2),
		Y2: section.Y2 - h*(1-r.Y2),
	}
}

// Inset shrinks r by margin pixels on every side.
func (r Rect) Inset(margin float64) Rect {
	return Rect{X1: r.X1 + margin, Y1: r.Y1 + margin, X2: r.X2 - margin, Y2: r.Y2 - margin}
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.X1 >= r.X2 || r.Y1 >= r.Y2
}

// InUnit reports whether every component lies in [0,1].
func (r Rect) InUnit() bool {
	for _, v := range [...]float64{r.X1, r.Y1, r.X2, r.Y2} {
		if v < 0 || v > 1 {
			return false
		}
	}
	return true
}

func (r Rect) String() string {
	return fmt.Sprintf("[%g,%g,%g,%g]", r.X1, r.Y1, r.X2, r.Y2)
}
