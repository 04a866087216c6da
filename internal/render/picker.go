package render

import (
	"github.com/iliyamo/seatmap-studio/internal/geometry"
	"github.com/iliyamo/seatmap-studio/internal/layout"
	"github.com/iliyamo/seatmap-studio/internal/model"
	"github.com/iliyamo/seatmap-studio/internal/viewport"
)

// legendHeight is the screen strip reserved below the map for the legend.
const legendHeight = 50.0

// PickerView is the guest seat picker: the published layout, the seats the
// guest holds and the canvas size.
type PickerView struct {
	Layout     *layout.Layout
	Picked     map[string]bool
	Width      float64
	Height     float64
	PixelRatio float64
}

type legendItem struct {
	label string
	color string
}

var pickerLegend = []legendItem{
	{"Available", model.SeatStandard.Color()},
	{"Selected", PickedColor},
	{"Occupied", OccupiedColor},
	{"Premium", model.SeatPremium.Color()},
	{"VIP", model.SeatVIP.Color()},
}

// PickerTransform returns the zoom and pan RenderPicker uses for a layout,
// so hosts can map pointer positions back to world coordinates.
func PickerTransform(l *layout.Layout, width, height float64) (zoom float64, pan geometry.Point) {
	vp := viewport.New()
	if r, ok := l.ContentBounds(); ok {
		vp.Fit(geometry.Rect{Width: r.MaxX() + 40, Height: r.MaxY() + 40}, width, height-legendHeight)
	}
	return vp.Zoom(), vp.Pan()
}

// RenderPicker draws the guest view.  Occupied seats are grey, held seats are
// green with a white ring and everything else uses its seat type colour.  A
// legend row is drawn along the bottom.
func RenderPicker(v PickerView) Frame {
	if v.Layout == nil {
		v.Layout = layout.New("")
	}
	if v.Width <= 0 {
		v.Width = v.Layout.Settings.CanvasSize.Width
	}
	if v.Height <= 0 {
		v.Height = v.Layout.Settings.CanvasSize.Height
	}
	if v.PixelRatio <= 0 {
		v.PixelRatio = 1
	}
	zoom, pan := PickerTransform(v.Layout, v.Width, v.Height)
	t := transform{zoom: zoom, pan: pan, ratio: v.PixelRatio}
	f := Frame{Width: t.px(v.Width), Height: t.px(v.Height), Ratio: v.PixelRatio}

	f.add(Op{Kind: OpRect, Layer: LayerBackground, W: f.Width, H: f.Height, Fill: BackgroundColor})
	drawElements(&f, t, v.Layout.Elements())

	for _, seat := range v.Layout.Seats() {
		fill := seat.Type.Color()
		picked := v.Picked[seat.ID] && !seat.Occupied
		switch {
		case seat.Occupied:
			fill = OccupiedColor
		case picked:
			fill = PickedColor
		}
		drawSeat(&f, t, seat, fill, false)
		if picked {
			p := t.point(seat.Position())
			f.add(Op{Kind: OpCircle, Layer: LayerSeats, X: p.X, Y: p.Y, R: t.px(layout.SeatRadius + 4), Stroke: "#ffffff", StrokeWidth: t.px(3), SeatID: seat.ID})
		}
	}

	y := v.Height - legendHeight/2
	for i, item := range pickerLegend {
		x := 20 + float64(i)*100
		f.add(Op{Kind: OpCircle, Layer: LayerLegend, X: t.px(x), Y: t.px(y), R: t.px(8), Fill: item.color})
		f.add(Op{Kind: OpText, Layer: LayerLegend, X: t.px(x + 15), Y: t.px(y + 4), Text: item.label, FontSize: t.px(12), Fill: TextColor})
	}
	return f
}
