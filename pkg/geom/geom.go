// Package geom provides the small amount of plane geometry the inference
// engine needs: axis-aligned rectangles and closed vertical spans.
//
// Coordinates follow the editor convention: x grows to the right and y grows
// downward, so a smaller Y means "higher" on the canvas.
package geom

import (
	"fmt"
	"math"
)

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// R is shorthand for constructing a Rect.
func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, Width: w, Height: h} }

// Bottom returns Y + Height.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Right returns X + Width.
func (r Rect) Right() float64 { return r.X + r.Width }

// Vertical returns the closed vertical extent [Y, Y+Height].
func (r Rect) Vertical() Span { return Span{Min: r.Y, Max: r.Bottom()} }

// Below returns a rectangle of the same size placed gap units under r.
func (r Rect) Below(gap float64) Rect {
	return Rect{X: r.X, Y: r.Bottom() + gap, Width: r.Width, Height: r.Height}
}

// Beside returns a rectangle of the same size shifted dx units to the right.
func (r Rect) Beside(dx float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y, Width: r.Width, Height: r.Height}
}

// Finite reports whether every coordinate and dimension is a finite number.
func (r Rect) Finite() bool {
	for _, v := range [...]float64{r.X, r.Y, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g %gx%g)", r.X, r.Y, r.Width, r.Height)
}

// Span is a closed interval [Min, Max] on one axis.
type Span struct {
	Min, Max float64
}

// Overlaps reports whether the two closed intervals share at least one point.
// Touching endpoints count as overlap.
func (s Span) Overlaps(o Span) bool {
	return s.Min <= o.Max && o.Min <= s.Max
}

// Union returns the smallest span covering both s and o.
func (s Span) Union(o Span) Span {
	return Span{Min: min(s.Min, o.Min), Max: max(s.Max, o.Max)}
}

// Before reports whether s ends strictly above o begins.
func (s Span) Before(o Span) bool { return s.Max < o.Min }
