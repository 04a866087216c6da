// Package render draws a seat map into a display list.  Rendering is a pure
// function of its input: the same View always produces the same Frame, and
// nothing is cached between calls.
package render

import (
	"fmt"
	"math"

	"github.com/iliyamo/seatmap-studio/internal/editor"
	"github.com/iliyamo/seatmap-studio/internal/geometry"
	"github.com/iliyamo/seatmap-studio/internal/layout"
	"github.com/iliyamo/seatmap-studio/internal/model"
)

const (
	BackgroundColor        = "#ffffff"
	PreviewBackgroundColor = "#f9fafb"
	GridColor              = "#e5e7eb"
	OccupiedColor          = "#9ca3af"
	PickedColor            = "#22c55e"
	SeatStrokeColor        = "#374151"
	SelectedStrokeColor    = "#2563eb"
	SelectedHaloColor      = "rgba(37,99,235,0.25)"
	BoxFillColor           = "rgba(59,130,246,0.1)"
	BoxStrokeColor         = "#3b82f6"
	EntranceColor          = "#10b981"
	StageColor             = "#1f2937"
	AisleColor             = "#f3f4f6"
	TextColor              = "#374151"
)

// maxGridLines bounds the lines drawn per axis; the spacing doubles until
// the visible area fits.
const maxGridLines = 400

// View is everything a redraw depends on.
type View struct {
	Layout     *layout.Layout
	Zoom       float64
	Pan        geometry.Point
	Width      float64 // CSS pixels
	Height     float64 // CSS pixels
	PixelRatio float64
	Selected   map[string]bool
	Box        *geometry.Rect // in-progress selection box, world coordinates
	Preview    bool
}

// SessionView captures the state of an editing session for rendering.
func SessionView(s *editor.Session, width, height, ratio float64) View {
	v := View{
		Layout:     s.Layout(),
		Zoom:       s.Viewport().Zoom(),
		Pan:        s.Viewport().Pan(),
		Width:      width,
		Height:     height,
		PixelRatio: ratio,
		Preview:    s.Preview(),
		Selected:   map[string]bool{},
	}
	for _, id := range s.Selection() {
		v.Selected[id] = true
	}
	if box, ok := s.Box(); ok {
		v.Box = &box
	}
	return v
}

func (v View) normalized() View {
	if v.Layout == nil {
		v.Layout = layout.New("")
	}
	if v.Zoom <= 0 || math.IsNaN(v.Zoom) {
		v.Zoom = 1
	}
	if v.Width <= 0 {
		v.Width = v.Layout.Settings.CanvasSize.Width
	}
	if v.Height <= 0 {
		v.Height = v.Layout.Settings.CanvasSize.Height
	}
	if v.PixelRatio <= 0 || math.IsNaN(v.PixelRatio) {
		v.PixelRatio = 1
	}
	return v
}

// transform maps world coordinates to device pixels.
type transform struct {
	zoom  float64
	pan   geometry.Point
	ratio float64
}

func (t transform) point(p geometry.Point) geometry.Point {
	return p.Scale(t.zoom).Add(t.pan).Scale(t.ratio)
}

// world scales a world length to device pixels.
func (t transform) world(l float64) float64 { return l * t.zoom * t.ratio }

// px scales a screen length, such as a stroke width, to device pixels.  Screen
// lengths do not change with zoom.
func (t transform) px(l float64) float64 { return l * t.ratio }

func (t transform) toWorld(screen geometry.Point) geometry.Point {
	return screen.Sub(t.pan).Div(t.zoom)
}

// Render draws the editor canvas: background, grid, venue elements,
// entrance marker, seats, selection box and the zoom readout, in that order.
func Render(v View) Frame {
	v = v.normalized()
	t := transform{zoom: v.Zoom, pan: v.Pan, ratio: v.PixelRatio}
	f := Frame{Width: t.px(v.Width), Height: t.px(v.Height), Ratio: v.PixelRatio}
	l := v.Layout

	bg := BackgroundColor
	if v.Preview {
		bg = PreviewBackgroundColor
	}
	f.add(Op{Kind: OpRect, Layer: LayerBackground, W: f.Width, H: f.Height, Fill: bg})

	if !v.Preview && l.Settings.ShowGrid {
		drawGrid(&f, t, v.Width, v.Height, l.Settings.GridSize)
	}
	drawElements(&f, t, l.Elements())
	if l.Settings.ShowEntrance {
		drawEntrance(&f, t, l)
	}

	colors := sectionColors(l.Sections())
	for _, seat := range l.Seats() {
		fill := seatColor(seat, colors, v.Preview)
		drawSeat(&f, t, seat, fill, !v.Preview && v.Selected[seat.ID])
	}

	if v.Box != nil && !v.Preview {
		p := t.point(geometry.Pt(v.Box.X, v.Box.Y))
		f.add(Op{
			Kind: OpRect, Layer: LayerBox,
			X: p.X, Y: p.Y, W: t.world(v.Box.Width), H: t.world(v.Box.Height),
			Fill: BoxFillColor, Stroke: BoxStrokeColor, StrokeWidth: t.px(1),
			Dash: []float64{t.px(4), t.px(4)},
		})
	}

	drawZoomReadout(&f, t, v.Width, v.Height)
	return f
}

func drawGrid(f *Frame, t transform, width, height, grid float64) {
	if grid <= 0 {
		return
	}
	vis := geometry.RectFromCorners(t.toWorld(geometry.Point{}), t.toWorld(geometry.Pt(width, height)))
	for math.Max(vis.Width, vis.Height)/grid > maxGridLines {
		grid *= 2
	}
	for i := math.Floor(vis.MinX() / grid); i*grid <= vis.MaxX(); i++ {
		a := t.point(geometry.Pt(i*grid, vis.MinY()))
		b := t.point(geometry.Pt(i*grid, vis.MaxY()))
		f.add(Op{Kind: OpLine, Layer: LayerGrid, X: a.X, Y: a.Y, X2: b.X, Y2: b.Y, Stroke: GridColor, StrokeWidth: t.px(1)})
	}
	for i := math.Floor(vis.MinY() / grid); i*grid <= vis.MaxY(); i++ {
		a := t.point(geometry.Pt(vis.MinX(), i*grid))
		b := t.point(geometry.Pt(vis.MaxX(), i*grid))
		f.add(Op{Kind: OpLine, Layer: LayerGrid, X: a.X, Y: a.Y, X2: b.X, Y2: b.Y, Stroke: GridColor, StrokeWidth: t.px(1)})
	}
}

func drawElements(f *Frame, t transform, elements []model.VenueElement) {
	for _, e := range elements {
		p := t.point(geometry.Pt(e.X, e.Y))
		w, h := t.world(e.Width), t.world(e.Height)
		c := t.point(e.Bounds().Center())
		switch e.Kind {
		case model.ElementStage:
			f.add(Op{Kind: OpRect, Layer: LayerElements, X: p.X, Y: p.Y, W: w, H: h, RX: t.world(8), Rotate: e.Rotation, Fill: orDefault(e.Color, StageColor)})
			if e.Label != "" {
				f.add(Op{Kind: OpText, Layer: LayerElements, X: c.X, Y: c.Y + t.world(5), Text: e.Label, FontSize: t.world(16), Anchor: "middle", Fill: "#ffffff", Rotate: e.Rotation})
			}
		case model.ElementAisle:
			f.add(Op{Kind: OpRect, Layer: LayerElements, X: p.X, Y: p.Y, W: w, H: h, Rotate: e.Rotation, Fill: orDefault(e.Color, AisleColor)})
		case model.ElementLabel:
			f.add(Op{Kind: OpText, Layer: LayerElements, X: c.X, Y: c.Y + t.world(5), Text: e.Label, FontSize: t.world(14), Anchor: "middle", Fill: orDefault(e.Color, TextColor), Rotate: e.Rotation})
		default:
			f.add(Op{Kind: OpRect, Layer: LayerElements, X: p.X, Y: p.Y, W: w, H: h, Rotate: e.Rotation, Stroke: orDefault(e.Color, "#6b7280"), StrokeWidth: t.px(2)})
			if e.Label != "" {
				f.add(Op{Kind: OpText, Layer: LayerElements, X: c.X, Y: c.Y + t.world(4), Text: e.Label, FontSize: t.world(12), Anchor: "middle", Fill: TextColor, Rotate: e.Rotation})
			}
		}
	}
}

// EntranceMarker returns the world rectangle of the entrance marker: one row
// spacing below the lowest seat, centred over the seats.
func EntranceMarker(l *layout.Layout) (geometry.Rect, bool) {
	b, ok := l.SeatBounds()
	if !ok {
		return geometry.Rect{}, false
	}
	const w, h = 120.0, 28.0
	cx, cy := b.Center().X, b.MaxY()+layout.DefaultRowSpacing
	return geometry.Rect{X: cx - w/2, Y: cy - h/2, Width: w, Height: h}, true
}

func drawEntrance(f *Frame, t transform, l *layout.Layout) {
	r, ok := EntranceMarker(l)
	if !ok {
		return
	}
	p := t.point(geometry.Pt(r.X, r.Y))
	c := t.point(r.Center())
	f.add(Op{Kind: OpRect, Layer: LayerEntrance, X: p.X, Y: p.Y, W: t.world(r.Width), H: t.world(r.Height), RX: t.world(6), Fill: EntranceColor})
	f.add(Op{Kind: OpText, Layer: LayerEntrance, X: c.X, Y: c.Y + t.world(4), Text: "ENTRANCE", FontSize: t.world(12), Anchor: "middle", Fill: "#ffffff"})
}

func sectionColors(sections []model.Section) map[string]string {
	m := make(map[string]string, len(sections))
	for _, s := range sections {
		m[s.ID] = s.Color
	}
	return m
}

// seatColor picks the fill: occupancy in preview, then the section colour,
// then the seat type colour.
func seatColor(seat model.Seat, sectionColors map[string]string, preview bool) string {
	if preview && seat.Occupied {
		return OccupiedColor
	}
	if c := sectionColors[seat.SectionID]; c != "" {
		return c
	}
	return seat.Type.Color()
}

// drawSeat draws a seat at a constant on-screen size so it matches the
// hit-test tolerance at every zoom.
func drawSeat(f *Frame, t transform, seat model.Seat, fill string, selected bool) {
	p := t.point(seat.Position())
	r := t.px(layout.SeatRadius)
	stroke, width := SeatStrokeColor, t.px(2)
	if selected {
		f.add(Op{Kind: OpCircle, Layer: LayerSeats, X: p.X, Y: p.Y, R: r + t.px(6), Fill: SelectedHaloColor, SeatID: seat.ID})
		stroke, width = SelectedStrokeColor, t.px(3)
	}
	f.add(Op{Kind: OpCircle, Layer: LayerSeats, X: p.X, Y: p.Y, R: r, Fill: fill, Stroke: stroke, StrokeWidth: width, SeatID: seat.ID})
	f.add(Op{Kind: OpText, Layer: LayerSeats, X: p.X, Y: p.Y + t.px(3), Text: seat.Label(), FontSize: t.px(10), Anchor: "middle", Fill: "#ffffff"})
}

// drawZoomReadout draws the zoom percentage in screen space, unaffected by
// pan and zoom.
func drawZoomReadout(f *Frame, t transform, width, height float64) {
	label := fmt.Sprintf("%d%%", int(math.Round(t.zoom*100)))
	f.add(Op{Kind: OpRect, Layer: LayerOverlay, X: t.px(width - 62), Y: t.px(height - 30), W: t.px(54), H: t.px(22), RX: t.px(4), Fill: "rgba(255,255,255,0.85)", Stroke: GridColor, StrokeWidth: t.px(1)})
	f.add(Op{Kind: OpText, Layer: LayerOverlay, X: t.px(width - 35), Y: t.px(height - 15), Text: label, FontSize: t.px(12), Anchor: "middle", Fill: TextColor})
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
