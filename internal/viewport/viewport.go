// Package viewport converts between world and screen coordinates.  The
// transform is screen = world*zoom + pan, with zoom kept inside
// [MinZoom, MaxZoom].
package viewport

import (
	"math"

	"github.com/iliyamo/seatmap-studio/internal/geometry"
)

const (
	MinZoom     = 0.5
	MaxZoom     = 3.0
	DefaultZoom = 1.0
	// ZoomStep is the change applied by ZoomIn and ZoomOut.
	ZoomStep = 0.25
	// WheelStep is the change applied per wheel notch.
	WheelStep = 0.1
)

// Viewport holds the zoom and pan of one editing session.
type Viewport struct {
	zoom float64
	pan  geometry.Point

	panning  bool
	panStart geometry.Point
}

// New returns a viewport at zoom 1 with no pan.
func New() *Viewport {
	return &Viewport{zoom: DefaultZoom}
}

// Zoom returns the current zoom factor.
func (v *Viewport) Zoom() float64 { return v.zoom }

// Pan returns the current screen-space offset.
func (v *Viewport) Pan() geometry.Point { return v.pan }

// Panning reports whether a pan gesture is in progress.
func (v *Viewport) Panning() bool { return v.panning }

// SetZoom sets the zoom, clamped to the allowed range.
func (v *Viewport) SetZoom(z float64) {
	if math.IsNaN(z) {
		return
	}
	v.zoom = geometry.Clamp(z, MinZoom, MaxZoom)
}

// SetPan sets the screen-space offset.
func (v *Viewport) SetPan(p geometry.Point) {
	if p.Finite() {
		v.pan = p
	}
}

// ScreenToWorld maps a screen point to world coordinates.
func (v *Viewport) ScreenToWorld(p geometry.Point) geometry.Point {
	return p.Sub(v.pan).Div(v.zoom)
}

// WorldToScreen maps a world point to screen coordinates.
func (v *Viewport) WorldToScreen(p geometry.Point) geometry.Point {
	return p.Scale(v.zoom).Add(v.pan)
}

// ZoomIn increases zoom by ZoomStep.
func (v *Viewport) ZoomIn() { v.SetZoom(v.zoom + ZoomStep) }

// ZoomOut decreases zoom by ZoomStep.
func (v *Viewport) ZoomOut() { v.SetZoom(v.zoom - ZoomStep) }

// Reset restores zoom 1 and no pan.
func (v *Viewport) Reset() {
	v.zoom = DefaultZoom
	v.pan = geometry.Point{}
	v.panning = false
}

// Wheel applies a wheel gesture.  Only a gesture with the zoom modifier held
// changes anything; each notch moves zoom by WheelStep, scrolling up
// (negative delta) zooms in.
func (v *Viewport) Wheel(deltaY float64, modifier bool) bool {
	if !modifier || deltaY == 0 {
		return false
	}
	if deltaY < 0 {
		v.SetZoom(v.zoom + WheelStep)
	} else {
		v.SetZoom(v.zoom - WheelStep)
	}
	return true
}

// BeginPan starts a pan gesture at the given screen point.
func (v *Viewport) BeginPan(screen geometry.Point) {
	v.panning = true
	v.panStart = screen.Sub(v.pan)
}

// PanTo follows the pointer while a pan gesture is active.  It reports
// whether the pan changed.
func (v *Viewport) PanTo(screen geometry.Point) bool {
	if !v.panning {
		return false
	}
	v.pan = screen.Sub(v.panStart)
	return true
}

// EndPan finishes the pan gesture.
func (v *Viewport) EndPan() { v.panning = false }

// Fit chooses a zoom that shows content inside a view of the given size and
// resets pan to the origin.  Zoom never goes above 1 from fitting, and never
// below MinZoom.
func (v *Viewport) Fit(content geometry.Rect, viewWidth, viewHeight float64) {
	z := 1.0
	if content.Height > 0 && viewHeight > 0 {
		z = math.Min(z, viewHeight/content.Height)
	}
	if content.Width > 0 && viewWidth > 0 {
		z = math.Min(z, viewWidth/content.Width)
	}
	v.SetZoom(math.Max(z, MinZoom))
	v.pan = geometry.Point{}
	v.panning = false
}

// VisibleWorld returns the world rectangle covered by a screen of the given
// size.
func (v *Viewport) VisibleWorld(width, height float64) geometry.Rect {
	return geometry.RectFromCorners(
		v.ScreenToWorld(geometry.Point{}),
		v.ScreenToWorld(geometry.Point{X: width, Y: height}),
	)
}
