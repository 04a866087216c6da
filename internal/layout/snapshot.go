package layout

import (
	"math"
	"slices"

	"github.com/iliyamo/seatmap-studio/internal/model"
)

// Snapshot captures the layout in its persisted shape with fresh counts.
func (l *Layout) Snapshot() model.Snapshot {
	return model.Snapshot{
		Seats:         l.Seats(),
		Sections:      l.Sections(),
		VenueElements: l.Elements(),
		CanvasSize:    l.Settings.CanvasSize,
		ShowEntrance:  l.Settings.ShowEntrance,
		ShowGrid:      l.Settings.ShowGrid,
		GridSize:      l.Settings.GridSize,
		Metadata:      l.Stats(),
	}
}

// FromSnapshot rebuilds a layout from a stored snapshot.  Bad values degrade
// to defaults instead of failing: non-finite coordinates become zero,
// unknown seat types become standard and dangling section references move
// to the default section.  Snap-to-grid is not persisted and starts on.
func FromSnapshot(snap model.Snapshot) *Layout {
	l := New(snap.Metadata.Name)
	l.Settings.ShowEntrance = snap.ShowEntrance
	l.Settings.ShowGrid = snap.ShowGrid
	if snap.GridSize > 0 && !math.IsInf(snap.GridSize, 0) {
		l.Settings.GridSize = snap.GridSize
	}
	if snap.CanvasSize.Width > 0 && snap.CanvasSize.Height > 0 {
		l.Settings.CanvasSize = snap.CanvasSize
	}
	seats := make([]model.Seat, 0, len(snap.Seats))
	for _, s := range snap.Seats {
		s.X = finiteOrZero(s.X)
		s.Y = finiteOrZero(s.Y)
		seats = append(seats, s)
	}
	elements := make([]model.VenueElement, 0, len(snap.VenueElements))
	for _, e := range snap.VenueElements {
		e.X, e.Y = finiteOrZero(e.X), finiteOrZero(e.Y)
		e.Width, e.Height = math.Abs(finiteOrZero(e.Width)), math.Abs(finiteOrZero(e.Height))
		e.Rotation = finiteOrZero(e.Rotation)
		elements = append(elements, e)
	}
	l.Replace(snap.Sections, seats, elements)
	return l
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// State is an immutable copy of the layout contents used for undo and redo.
type State struct {
	seats    []model.Seat
	sections []model.Section
	elements []model.VenueElement
}

// Capture copies the current contents.
func (l *Layout) Capture() State {
	return State{
		seats:    slices.Clone(l.seats),
		sections: slices.Clone(l.sections),
		elements: slices.Clone(l.elements),
	}
}

// Restore replaces the contents with a captured state.
func (l *Layout) Restore(s State) {
	l.seats = slices.Clone(s.seats)
	l.sections = slices.Clone(s.sections)
	l.elements = slices.Clone(s.elements)
}
