package core

import "math"

// Viewport maps document space to screen space: screen = doc*Scale + Offset.
// Zooming only changes the viewport, never the stored note positions,
// so repeated gestures do not accumulate rounding error in the document.
type Viewport struct {
	Scale  float64 `json:"scale"`
	Offset Point   `json:"offset"`
}

// IdentityViewport is the viewport at 100% with no pan.
func IdentityViewport() Viewport {
	return Viewport{Scale: 1}
}

// Zoom scales the view by factor about pivot (a screen point), which stays stationary.
func (v Viewport) Zoom(factor float64, pivot Point) (Viewport, error) {
	if factor <= 0 || !isFinite(factor) {
		return v, ErrInvalidZoom
	}
	next := Viewport{
		Scale:  v.Scale * factor,
		Offset: pivot.Add(v.Offset.Sub(pivot).Scale(factor)),
	}
	if next.Scale <= 0 || !isFinite(next.Scale) {
		return v, ErrInvalidZoom
	}
	return next, nil
}

// ToScreen converts a document point to screen space.
func (v Viewport) ToScreen(p Point) Point {
	return p.Scale(v.Scale).Add(v.Offset)
}

// ToDocument converts a screen point to document space.
func (v Viewport) ToDocument(p Point) Point {
	return p.Sub(v.Offset).Scale(1 / v.Scale)
}

// ScreenRect is the on-screen rectangle of a document rectangle.
func (v Viewport) ScreenRect(r Rect) Rect {
	return Rect{
		Min:  v.ToScreen(r.Min),
		Size: Size{Width: r.Size.Width * v.Scale, Height: r.Size.Height * v.Scale},
	}
}

// Percent is the scale rounded to a whole percentage, as shown by a zoom control.
func (v Viewport) Percent() int {
	return int(math.Round(v.Scale * 100))
}
