package viewport

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/seatmap-studio/internal/geometry"
)

func TestRoundTripIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	v := New()
	for i := 0; i < 500; i++ {
		v.SetZoom(MinZoom + rng.Float64()*(MaxZoom-MinZoom))
		v.SetPan(geometry.Pt(rng.Float64()*2000-1000, rng.Float64()*2000-1000))
		p := geometry.Pt(rng.Float64()*4000-2000, rng.Float64()*4000-2000)

		back := v.WorldToScreen(v.ScreenToWorld(p))
		assert.InDelta(t, p.X, back.X, 1e-9)
		assert.InDelta(t, p.Y, back.Y, 1e-9)

		fwd := v.ScreenToWorld(v.WorldToScreen(p))
		assert.InDelta(t, p.X, fwd.X, 1e-9)
		assert.InDelta(t, p.Y, fwd.Y, 1e-9)
	}
}

func TestZoomSteps(t *testing.T) {
	v := New()
	v.ZoomIn()
	v.ZoomIn()
	v.ZoomIn()
	assert.Equal(t, 1.75, v.Zoom())
	v.ZoomOut()
	assert.Equal(t, 1.5, v.Zoom())
}

func TestZoomStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	v := New()
	for i := 0; i < 1000; i++ {
		switch rng.Intn(4) {
		case 0:
			v.ZoomIn()
		case 1:
			v.ZoomOut()
		case 2:
			v.Wheel(float64(rng.Intn(3)-1), true)
		case 3:
			v.SetZoom(rng.Float64()*10 - 5)
		}
		assert.GreaterOrEqual(t, v.Zoom(), MinZoom)
		assert.LessOrEqual(t, v.Zoom(), MaxZoom)
	}
}

func TestWheelNeedsModifier(t *testing.T) {
	v := New()
	assert.False(t, v.Wheel(-1, false))
	assert.Equal(t, 1.0, v.Zoom())
	assert.True(t, v.Wheel(-1, true))
	assert.InDelta(t, 1.1, v.Zoom(), 1e-12)
	assert.True(t, v.Wheel(3, true))
	assert.InDelta(t, 1.0, v.Zoom(), 1e-12)
}

func TestPanGesture(t *testing.T) {
	v := New()
	assert.False(t, v.PanTo(geometry.Pt(50, 50)), "no effect when inactive")
	assert.Equal(t, geometry.Point{}, v.Pan())

	v.BeginPan(geometry.Pt(100, 100))
	v.PanTo(geometry.Pt(130, 90))
	assert.Equal(t, geometry.Pt(30, -10), v.Pan())
	v.EndPan()

	v.BeginPan(geometry.Pt(0, 0))
	v.PanTo(geometry.Pt(10, 10))
	assert.Equal(t, geometry.Pt(40, 0), v.Pan(), "second gesture continues from the current pan")
	v.EndPan()
	assert.False(t, v.PanTo(geometry.Pt(999, 999)))
}

func TestResetView(t *testing.T) {
	v := New()
	v.ZoomIn()
	v.SetPan(geometry.Pt(5, 5))
	v.Reset()
	assert.Equal(t, 1.0, v.Zoom())
	assert.Equal(t, geometry.Point{}, v.Pan())
}

func TestFit(t *testing.T) {
	v := New()
	v.SetPan(geometry.Pt(10, 10))

	v.Fit(geometry.Rect{Width: 1600, Height: 600}, 800, 600)
	assert.Equal(t, 0.5, v.Zoom())
	assert.Equal(t, geometry.Point{}, v.Pan())

	v.Fit(geometry.Rect{Width: 400, Height: 300}, 800, 600)
	assert.Equal(t, 1.0, v.Zoom(), "fitting never zooms past 1")

	v.Fit(geometry.Rect{Width: 4000, Height: 4000}, 800, 600)
	assert.Equal(t, MinZoom, v.Zoom())

	v.Fit(geometry.Rect{Width: 1000, Height: 700}, 800, 600)
	assert.InDelta(t, 0.8, v.Zoom(), 1e-12)
}

func TestVisibleWorld(t *testing.T) {
	v := New()
	v.SetZoom(2)
	v.SetPan(geometry.Pt(100, 50))
	r := v.VisibleWorld(800, 600)
	assert.Equal(t, geometry.Rect{X: -50, Y: -25, Width: 400, Height: 300}, r)
}
