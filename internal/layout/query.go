package layout

import (
	"sort"
	"strings"

	"github.com/iliyamo/seatmap-studio/internal/geometry"
	"github.com/iliyamo/seatmap-studio/internal/model"
)

// SeatAt returns the seat under world point p.  The tolerance is SeatRadius
// divided by zoom so the clickable target keeps its on-screen size at every
// zoom level.  The nearest seat wins; on a tie the later-drawn seat does.
func (l *Layout) SeatAt(p geometry.Point, zoom float64) (model.Seat, bool) {
	if zoom <= 0 {
		zoom = 1
	}
	tol := SeatRadius / zoom
	best := -1
	bestDist := 0.0
	for i, s := range l.seats {
		d := geometry.Distance(p, s.Position())
		if d > tol {
			continue
		}
		if best < 0 || d <= bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return model.Seat{}, false
	}
	return l.seats[best], true
}

// SeatsInBox returns the ids of seats inside the rectangle spanned by the
// two corners a and b, given in any order.  Edges are inclusive.
func (l *Layout) SeatsInBox(a, b geometry.Point) []string {
	r := geometry.RectFromCorners(a, b)
	var ids []string
	for _, s := range l.seats {
		if r.Contains(s.Position()) {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// SeatBounds returns the bounding box of seat centres.
func (l *Layout) SeatBounds() (geometry.Rect, bool) {
	pts := make([]geometry.Point, len(l.seats))
	for i, s := range l.seats {
		pts[i] = s.Position()
	}
	return geometry.Bounds(pts)
}

// ContentBounds covers seats (with their radius) and venue elements.
func (l *Layout) ContentBounds() (geometry.Rect, bool) {
	r, ok := l.SeatBounds()
	if ok {
		r = geometry.Rect{X: r.X - SeatRadius, Y: r.Y - SeatRadius, Width: r.Width + 2*SeatRadius, Height: r.Height + 2*SeatRadius}
	}
	for _, e := range l.elements {
		if !ok {
			r, ok = e.Bounds(), true
			continue
		}
		r = r.Union(e.Bounds())
	}
	return r, ok
}

// Stats computes the metadata counts for the current seats.  Section counts
// follow section order and include empty sections; type counts follow
// model.SeatTypes.
func (l *Layout) Stats() model.Metadata {
	bySection := map[string]int{}
	byType := map[model.SeatType]int{}
	for _, s := range l.seats {
		bySection[s.SectionID]++
		byType[s.Type]++
	}
	md := model.Metadata{Name: l.Name, TotalSeats: len(l.seats)}
	for _, sec := range l.sections {
		md.SectionCounts = append(md.SectionCounts, model.SectionCount{SectionID: sec.ID, Name: sec.Name, Count: bySection[sec.ID]})
	}
	for _, t := range model.SeatTypes {
		md.SeatTypeCounts = append(md.SeatTypeCounts, model.TypeCount{Type: t, Count: byType[t]})
	}
	return md
}

// Row is one row of the seat grid with its seat numbers in ascending order.
type Row struct {
	Label   string   `json:"row_label"`
	Numbers []string `json:"numbers"`
}

// Rows groups seats by row label.  Rows are ordered A, B, ... Z, AA and
// numbers ascend numerically.
func (l *Layout) Rows() []Row {
	byRow := map[string][]string{}
	for _, s := range l.seats {
		lbl := strings.ToUpper(strings.TrimSpace(s.Row))
		byRow[lbl] = append(byRow[lbl], s.Number)
	}
	order := make([]string, 0, len(byRow))
	for lbl := range byRow {
		order = append(order, lbl)
	}
	sort.Slice(order, func(i, j int) bool { return compareRowLabels(order[i], order[j]) < 0 })
	rows := make([]Row, 0, len(order))
	for _, lbl := range order {
		nums := byRow[lbl]
		sort.SliceStable(nums, func(i, j int) bool { return seatNumber(nums[i]) < seatNumber(nums[j]) })
		rows = append(rows, Row{Label: lbl, Numbers: nums})
	}
	return rows
}
