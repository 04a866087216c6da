package editor

import (
	"errors"
	"math"

	"github.com/iliyamo/seatmap-studio/internal/geometry"
	"github.com/iliyamo/seatmap-studio/internal/layout"
	"github.com/iliyamo/seatmap-studio/internal/model"
	"github.com/iliyamo/seatmap-studio/internal/template"
)

// ErrInvalidGridSize is returned for a grid size that is not a positive
// finite number.
var ErrInvalidGridSize = errors.New("grid size must be positive")

// fitMargin is the world-space padding kept right of and below the content
// when fitting the view.
const fitMargin = 40.0

// DeleteSelected removes every selected seat.
func (s *Session) DeleteSelected() (int, error) {
	if s.preview {
		return 0, ErrPreviewMode
	}
	s.finishGesture()
	if len(s.selection) == 0 {
		return 0, ErrEmptySelection
	}
	before := s.layout.Capture()
	n := s.layout.DeleteSeats(s.selectedIDs())
	clear(s.selection)
	s.commit(before)
	return n, nil
}

// AssignSelection moves every selected seat into sectionID.
func (s *Session) AssignSelection(sectionID string) (int, error) {
	if s.preview {
		return 0, ErrPreviewMode
	}
	s.finishGesture()
	if len(s.selection) == 0 {
		return 0, ErrEmptySelection
	}
	before := s.layout.Capture()
	n, err := s.layout.AssignSection(s.selectedIDs(), sectionID)
	if err != nil {
		return 0, err
	}
	s.commit(before)
	return n, nil
}

// SetSelectionType changes the type of every selected seat.
func (s *Session) SetSelectionType(t model.SeatType) (int, error) {
	if s.preview {
		return 0, ErrPreviewMode
	}
	s.finishGesture()
	if len(s.selection) == 0 {
		return 0, ErrEmptySelection
	}
	before := s.layout.Capture()
	n, err := s.layout.SetSeatType(s.selectedIDs(), t)
	if err != nil {
		return 0, err
	}
	s.commit(before)
	return n, nil
}

// ClearAll removes every seat.  Sections and venue elements stay.
func (s *Session) ClearAll() (int, error) {
	if s.preview {
		return 0, ErrPreviewMode
	}
	s.finishGesture()
	if s.layout.SeatCount() == 0 {
		return 0, nil
	}
	before := s.layout.Capture()
	n := s.layout.ClearSeats()
	clear(s.selection)
	s.commit(before)
	return n, nil
}

// AddRow places count seats on row label using the active section and type.
// An empty label uses the active row and a non-positive count uses the
// configured seats per row.
func (s *Session) AddRow(label string, count int) ([]model.Seat, error) {
	if s.preview {
		return nil, ErrPreviewMode
	}
	s.finishGesture()
	before := s.layout.Capture()
	seats, err := s.addRow(label, count)
	if err != nil {
		return nil, err
	}
	s.commit(before)
	return seats, nil
}

// AddRows places rows consecutive rows starting at the active row, advancing
// the active row after each.  The whole batch is one undo step.
func (s *Session) AddRows(rows, perRow int) ([]model.Seat, error) {
	if s.preview {
		return nil, ErrPreviewMode
	}
	if rows < 1 {
		return nil, layout.ErrInvalidRow
	}
	s.finishGesture()
	before := s.layout.Capture()
	var added []model.Seat
	for i := 0; i < rows; i++ {
		seats, err := s.addRow("", perRow)
		if err != nil {
			s.layout.Restore(before)
			return nil, err
		}
		added = append(added, seats...)
		s.NextRow()
	}
	s.commit(before)
	return added, nil
}

func (s *Session) addRow(label string, count int) ([]model.Seat, error) {
	if label == "" {
		label = s.activeRow
	}
	if count <= 0 {
		count = s.opts.SeatsPerRow
	}
	return s.layout.AddRow(layout.RowSpec{
		Label:       label,
		Count:       count,
		SectionID:   s.activeSection,
		Type:        s.activeType,
		RowSpacing:  s.opts.RowSpacing,
		SeatSpacing: s.opts.SeatSpacing,
	})
}

// AddSection creates a section.
func (s *Session) AddSection(sec model.Section) (model.Section, error) {
	if s.preview {
		return model.Section{}, ErrPreviewMode
	}
	s.finishGesture()
	before := s.layout.Capture()
	sec, err := s.layout.AddSection(sec)
	if err != nil {
		return model.Section{}, err
	}
	s.commit(before)
	return sec, nil
}

// UpdateSection renames, recolours or re-prices a section.
func (s *Session) UpdateSection(id string, p layout.SectionPatch) (model.Section, error) {
	if s.preview {
		return model.Section{}, ErrPreviewMode
	}
	s.finishGesture()
	before := s.layout.Capture()
	sec, err := s.layout.UpdateSection(id, p)
	if err != nil {
		return model.Section{}, err
	}
	s.commit(before)
	return sec, nil
}

// DeleteSection removes a section; its seats move to the default section.
func (s *Session) DeleteSection(id string) (int, error) {
	if s.preview {
		return 0, ErrPreviewMode
	}
	s.finishGesture()
	before := s.layout.Capture()
	n, err := s.layout.DeleteSection(id)
	if err != nil {
		return 0, err
	}
	if s.activeSection == id {
		s.activeSection = model.DefaultSectionID
	}
	s.commit(before)
	return n, nil
}

// ApplyTemplate replaces sections, seats and venue elements with the
// template's and fits the view to the result.
func (s *Session) ApplyTemplate(id template.ID) (template.Blueprint, error) {
	if s.preview {
		return template.Blueprint{}, ErrPreviewMode
	}
	bp, err := template.Generate(id)
	if err != nil {
		return template.Blueprint{}, err
	}
	s.finishGesture()
	before := s.layout.Capture()
	s.layout.Replace(bp.Sections, bp.LayoutSeats(), bp.Elements)
	clear(s.selection)
	s.activeSection = model.DefaultSectionID
	if rows := s.layout.Rows(); len(rows) > 0 {
		s.activeRow = layout.NextRowLabel(rows[len(rows)-1].Label)
	}
	s.commit(before)
	s.FitView()
	return bp, nil
}

// FitView zooms so that the content, measured from the world origin, fits
// the configured view size, and resets pan.
func (s *Session) FitView() {
	r, ok := s.layout.ContentBounds()
	if !ok {
		s.ResetView()
		return
	}
	extent := geometry.Rect{Width: r.MaxX() + fitMargin, Height: r.MaxY() + fitMargin}
	s.view.Fit(extent, s.opts.ViewWidth, s.opts.ViewHeight)
	s.revision++
}

// SetViewSize records the host canvas size used for fitting.
func (s *Session) SetViewSize(width, height float64) {
	if width > 0 {
		s.opts.ViewWidth = width
	}
	if height > 0 {
		s.opts.ViewHeight = height
	}
}

// ZoomIn steps the zoom up.
func (s *Session) ZoomIn() {
	s.view.ZoomIn()
	s.revision++
}

// ZoomOut steps the zoom down.
func (s *Session) ZoomOut() {
	s.view.ZoomOut()
	s.revision++
}

// ResetView restores zoom 1 and no pan.
func (s *Session) ResetView() {
	s.view.Reset()
	s.revision++
}

// SettingsPatch lists the layout settings to change; nil fields are kept.
type SettingsPatch struct {
	Name         *string  `json:"name"`
	GridSize     *float64 `json:"gridSize"`
	ShowGrid     *bool    `json:"showGrid"`
	ShowEntrance *bool    `json:"showEntrance"`
	SnapToGrid   *bool    `json:"snapToGrid"`
}

// UpdateSettings applies view settings.  Settings are not part of the undo
// history.
func (s *Session) UpdateSettings(p SettingsPatch) error {
	if p.GridSize != nil {
		g := *p.GridSize
		if g <= 0 || math.IsNaN(g) || math.IsInf(g, 0) {
			return ErrInvalidGridSize
		}
	}
	if p.Name != nil && *p.Name != "" {
		s.layout.Name = *p.Name
	}
	if p.GridSize != nil {
		s.layout.Settings.GridSize = *p.GridSize
	}
	if p.ShowGrid != nil {
		s.layout.Settings.ShowGrid = *p.ShowGrid
	}
	if p.ShowEntrance != nil {
		s.layout.Settings.ShowEntrance = *p.ShowEntrance
	}
	if p.SnapToGrid != nil {
		s.layout.Settings.SnapToGrid = *p.SnapToGrid
	}
	s.revision++
	return nil
}
