package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/seatmap-studio/internal/geometry"
	"github.com/iliyamo/seatmap-studio/internal/layout"
	"github.com/iliyamo/seatmap-studio/internal/model"
	"github.com/iliyamo/seatmap-studio/internal/template"
)

// rowSession returns a session holding seats A1..A5 at y=200, x=200..360.
func rowSession(t *testing.T) *Session {
	t.Helper()
	l := layout.New("")
	_, err := l.AddRow(layout.RowSpec{Label: "A", Count: 5})
	require.NoError(t, err)
	return New(l, Options{})
}

func seatByLabel(t *testing.T, s *Session, label string) model.Seat {
	t.Helper()
	for _, seat := range s.Layout().Seats() {
		if seat.Label() == label {
			return seat
		}
	}
	t.Fatalf("no seat %s", label)
	return model.Seat{}
}

func click(t *testing.T, s *Session, x, y float64, shift bool) {
	t.Helper()
	require.NoError(t, s.Handle(Event{Type: EventDown, X: x, Y: y, Shift: shift}))
	require.NoError(t, s.Handle(Event{Type: EventUp, X: x, Y: y, Shift: shift}))
}

func drag(t *testing.T, s *Session, from, to geometry.Point) {
	t.Helper()
	require.NoError(t, s.HandleAll([]Event{
		{Type: EventDown, X: from.X, Y: from.Y},
		{Type: EventMove, X: (from.X + to.X) / 2, Y: (from.Y + to.Y) / 2},
		{Type: EventMove, X: to.X, Y: to.Y},
		{Type: EventUp, X: to.X, Y: to.Y},
	}))
}

func TestShiftClickThenAssign(t *testing.T) {
	s := rowSession(t)
	sec, err := s.AddSection(model.Section{ID: "x", Name: "X"})
	require.NoError(t, err)

	click(t, s, 200, 200, true) // A1
	click(t, s, 280, 200, true) // A3
	require.Equal(t, 2, s.SelectionCount())

	n, err := s.AssignSelection(sec.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	want := map[string]string{"A1": "x", "A2": "default", "A3": "x", "A4": "default", "A5": "default"}
	for label, section := range want {
		assert.Equal(t, section, seatByLabel(t, s, label).SectionID, label)
	}
}

func TestSeatToolSnapsPlacement(t *testing.T) {
	s := New(nil, Options{})
	require.NoError(t, s.SetTool(ToolSeat))
	click(t, s, 207, 133, false)

	seats := s.Layout().Seats()
	require.Len(t, seats, 1)
	assert.Equal(t, 200.0, seats[0].X)
	assert.Equal(t, 140.0, seats[0].Y)
	assert.Equal(t, "A", seats[0].Row)
	assert.Equal(t, "1", seats[0].Number)
	assert.Equal(t, model.DefaultSectionID, seats[0].SectionID)

	click(t, s, 300, 133, false)
	assert.Equal(t, "2", s.Layout().Seats()[1].Number)

	// clicking an existing seat does not stack another on it
	click(t, s, 202, 141, false)
	assert.Equal(t, 2, s.Layout().SeatCount())
}

func TestSeatToolWithoutSnap(t *testing.T) {
	s := New(nil, Options{})
	off := false
	require.NoError(t, s.UpdateSettings(SettingsPatch{SnapToGrid: &off}))
	require.NoError(t, s.SetTool(ToolSeat))
	click(t, s, 207, 133, false)
	seat := s.Layout().Seats()[0]
	assert.Equal(t, geometry.Pt(207, 133), seat.Position())
}

func TestSeatToolHonoursZoomAndPan(t *testing.T) {
	s := New(nil, Options{})
	s.Viewport().SetZoom(2)
	s.Viewport().SetPan(geometry.Pt(100, 50))
	require.NoError(t, s.SetTool(ToolSeat))
	click(t, s, 514, 330, false) // world (207, 140)
	assert.Equal(t, geometry.Pt(200, 140), s.Layout().Seats()[0].Position())
}

func TestPlainClickSelection(t *testing.T) {
	s := rowSession(t)
	a1 := seatByLabel(t, s, "A1")
	a2 := seatByLabel(t, s, "A2")

	click(t, s, 200, 200, false)
	assert.Equal(t, []string{a1.ID}, s.Selection())

	click(t, s, 240, 200, false)
	assert.Equal(t, []string{a2.ID}, s.Selection(), "plain click replaces")

	click(t, s, 240, 200, false)
	assert.Empty(t, s.Selection(), "clicking the sole selected seat toggles it off")

	click(t, s, 200, 200, true)
	click(t, s, 240, 200, true)
	click(t, s, 240, 200, false)
	assert.Equal(t, []string{a2.ID}, s.Selection(), "not the sole member, so it becomes the only one")

	click(t, s, 240, 200, true)
	assert.Empty(t, s.Selection(), "shift toggles membership off")

	click(t, s, 200, 200, false)
	click(t, s, 700, 500, false)
	assert.Empty(t, s.Selection(), "clicking empty space clears")
}

func TestBoxSelection(t *testing.T) {
	s := rowSession(t)
	// corners given bottom-right to top-left
	require.NoError(t, s.HandleAll([]Event{
		{Type: EventDown, X: 290, Y: 230},
		{Type: EventMove, X: 250, Y: 210},
	}))
	box, ok := s.Box()
	require.True(t, ok)
	assert.Equal(t, geometry.Rect{X: 250, Y: 210, Width: 40, Height: 20}, box)

	require.NoError(t, s.Handle(Event{Type: EventMove, X: 230, Y: 180}))
	require.NoError(t, s.Handle(Event{Type: EventUp, X: 230, Y: 180}))

	_, ok = s.Box()
	assert.False(t, ok)
	assert.Equal(t, []string{seatByLabel(t, s, "A2").ID, seatByLabel(t, s, "A3").ID}, s.Selection())

	// a box over nothing empties the selection
	drag(t, s, geometry.Pt(600, 500), geometry.Pt(700, 560))
	assert.Empty(t, s.Selection())
}

func TestDragMovesWholeSelection(t *testing.T) {
	s := rowSession(t)
	click(t, s, 200, 200, true)
	click(t, s, 240, 200, true)

	drag(t, s, geometry.Pt(200, 200), geometry.Pt(225, 213))

	assert.Equal(t, geometry.Pt(220, 220), seatByLabel(t, s, "A1").Position())
	assert.Equal(t, geometry.Pt(260, 220), seatByLabel(t, s, "A2").Position())
	assert.Equal(t, geometry.Pt(280, 200), seatByLabel(t, s, "A3").Position(), "unselected seats stay")
	assert.Equal(t, 2, s.SelectionCount())

	require.NoError(t, s.Undo())
	assert.Equal(t, geometry.Pt(200, 200), seatByLabel(t, s, "A1").Position())
	assert.Equal(t, geometry.Pt(240, 200), seatByLabel(t, s, "A2").Position())
	require.NoError(t, s.Redo())
	assert.Equal(t, geometry.Pt(220, 220), seatByLabel(t, s, "A1").Position())
}

func TestDragUnselectedSeatNarrowsSelection(t *testing.T) {
	s := rowSession(t)
	click(t, s, 200, 200, true)
	click(t, s, 240, 200, true)

	drag(t, s, geometry.Pt(360, 200), geometry.Pt(360, 260))

	a5 := seatByLabel(t, s, "A5")
	assert.Equal(t, geometry.Pt(360, 260), a5.Position())
	assert.Equal(t, []string{a5.ID}, s.Selection())
	assert.Equal(t, geometry.Pt(200, 200), seatByLabel(t, s, "A1").Position())
}

func TestSmallMovementIsStillAClick(t *testing.T) {
	s := rowSession(t)
	require.NoError(t, s.HandleAll([]Event{
		{Type: EventDown, X: 200, Y: 200},
		{Type: EventMove, X: 201, Y: 201},
		{Type: EventUp, X: 201, Y: 201},
	}))
	assert.Equal(t, 1, s.SelectionCount())
	assert.Equal(t, geometry.Pt(200, 200), seatByLabel(t, s, "A1").Position())
	assert.False(t, s.CanUndo())
}

func TestPreviewDisablesEditing(t *testing.T) {
	s := rowSession(t)
	click(t, s, 200, 200, false)
	s.SetPreview(true)
	assert.Zero(t, s.SelectionCount())

	click(t, s, 240, 200, false)
	assert.Zero(t, s.SelectionCount())
	require.NoError(t, s.SetTool(ToolSeat))
	click(t, s, 600, 500, false)
	assert.Equal(t, 5, s.Layout().SeatCount())

	_, err := s.DeleteSelected()
	assert.ErrorIs(t, err, ErrPreviewMode)
	_, err = s.AddRow("B", 3)
	assert.ErrorIs(t, err, ErrPreviewMode)
	_, err = s.ApplyTemplate(template.Theater)
	assert.ErrorIs(t, err, ErrPreviewMode)

	// viewing still works
	require.NoError(t, s.Handle(Event{Type: EventWheel, DeltaY: -1, Ctrl: true}))
	assert.InDelta(t, 1.1, s.Viewport().Zoom(), 1e-12)
}

func TestPanWithMoveToolAndMiddleButton(t *testing.T) {
	s := rowSession(t)
	require.NoError(t, s.SetTool(ToolMove))
	drag(t, s, geometry.Pt(100, 100), geometry.Pt(150, 80))
	assert.Equal(t, geometry.Pt(50, -20), s.Viewport().Pan())
	assert.False(t, s.Viewport().Panning())

	require.NoError(t, s.SetTool(ToolPointer))
	require.NoError(t, s.HandleAll([]Event{
		{Type: EventDown, X: 0, Y: 0, Button: ButtonMiddle},
		{Type: EventMove, X: 10, Y: 10, Button: ButtonMiddle},
		{Type: EventUp, X: 10, Y: 10, Button: ButtonMiddle},
	}))
	assert.Equal(t, geometry.Pt(60, -10), s.Viewport().Pan())
	assert.Equal(t, 5, s.Layout().SeatCount())
	assert.Zero(t, s.SelectionCount())
}

func TestWheelNeedsModifier(t *testing.T) {
	s := New(nil, Options{})
	rev := s.Revision()
	require.NoError(t, s.Handle(Event{Type: EventWheel, DeltaY: -1}))
	assert.Equal(t, 1.0, s.Viewport().Zoom())
	assert.Equal(t, rev, s.Revision())
	require.NoError(t, s.Handle(Event{Type: EventWheel, DeltaY: -1, Meta: true}))
	assert.InDelta(t, 1.1, s.Viewport().Zoom(), 1e-12)
	assert.Greater(t, s.Revision(), rev)
}

func TestKeyboardShortcuts(t *testing.T) {
	s := rowSession(t)
	click(t, s, 200, 200, false)
	require.NoError(t, s.Handle(Event{Type: EventKey, Key: "Delete"}))
	assert.Equal(t, 4, s.Layout().SeatCount())

	// delete with nothing selected is ignored
	require.NoError(t, s.Handle(Event{Type: EventKey, Key: "Backspace"}))
	assert.Equal(t, 4, s.Layout().SeatCount())

	require.NoError(t, s.Handle(Event{Type: EventKey, Key: "z", Ctrl: true}))
	assert.Equal(t, 5, s.Layout().SeatCount())
	require.NoError(t, s.Handle(Event{Type: EventKey, Key: "z", Meta: true, Shift: true}))
	assert.Equal(t, 4, s.Layout().SeatCount())
	require.NoError(t, s.Handle(Event{Type: EventKey, Key: "z", Ctrl: true}))
	require.NoError(t, s.Handle(Event{Type: EventKey, Key: "y", Ctrl: true}))
	assert.Equal(t, 4, s.Layout().SeatCount())

	click(t, s, 240, 200, false)
	require.NoError(t, s.Handle(Event{Type: EventKey, Key: "Escape"}))
	assert.Zero(t, s.SelectionCount())

	for _, k := range []string{"+", "+", "-"} {
		require.NoError(t, s.Handle(Event{Type: EventKey, Key: k}))
	}
	assert.Equal(t, 1.25, s.Viewport().Zoom())
	require.NoError(t, s.Handle(Event{Type: EventKey, Key: "0"}))
	assert.Equal(t, 1.0, s.Viewport().Zoom())

	require.NoError(t, s.Handle(Event{Type: EventKey, Key: "s"}))
	assert.Equal(t, ToolSeat, s.Tool())
	require.NoError(t, s.Handle(Event{Type: EventKey, Key: "M"}))
	assert.Equal(t, ToolMove, s.Tool())
	require.NoError(t, s.Handle(Event{Type: EventKey, Key: "s", Ctrl: true}))
	assert.Equal(t, ToolMove, s.Tool(), "modified keys are not tool shortcuts")
}

func TestUnknownEvent(t *testing.T) {
	s := New(nil, Options{})
	err := s.HandleAll([]Event{{Type: EventWheel}, {Type: "tap"}})
	assert.ErrorIs(t, err, ErrUnknownEvent)
	assert.Contains(t, err.Error(), "event 1")
}

func TestBulkOperationsNeedSelection(t *testing.T) {
	s := rowSession(t)
	_, err := s.AssignSelection(model.DefaultSectionID)
	assert.ErrorIs(t, err, ErrEmptySelection)
	_, err = s.SetSelectionType(model.SeatVIP)
	assert.ErrorIs(t, err, ErrEmptySelection)
	_, err = s.DeleteSelected()
	assert.ErrorIs(t, err, ErrEmptySelection)

	click(t, s, 200, 200, false)
	_, err = s.AssignSelection("missing")
	assert.ErrorIs(t, err, layout.ErrSectionNotFound)
	assert.False(t, s.CanUndo(), "refused operations leave no history")

	n, err := s.SetSelectionType(model.SeatVIP)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, model.SeatVIP, seatByLabel(t, s, "A1").Type)
}

func TestSections(t *testing.T) {
	s := rowSession(t)
	_, err := s.DeleteSection(model.DefaultSectionID)
	assert.ErrorIs(t, err, layout.ErrDefaultSection)

	sec, err := s.AddSection(model.Section{Name: "Balcony", Color: "#123456"})
	require.NoError(t, err)
	require.NoError(t, s.SetActiveSection(sec.ID))
	_, err = s.AddRow("B", 3)
	require.NoError(t, err)

	name := "Upper Balcony"
	updated, err := s.UpdateSection(sec.ID, layout.SectionPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)

	n, err := s.DeleteSection(sec.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, model.DefaultSectionID, s.ActiveSection())
	for _, seat := range s.Layout().Seats() {
		assert.Equal(t, model.DefaultSectionID, seat.SectionID)
	}

	require.NoError(t, s.Undo())
	assert.Equal(t, sec.ID, seatByLabel(t, s, "B1").SectionID)
}

func TestAddRowPlacement(t *testing.T) {
	s := New(nil, Options{})
	a, err := s.AddRow("", 0)
	require.NoError(t, err)
	require.Len(t, a, 10)
	assert.Equal(t, geometry.Pt(200, 200), a[0].Position())
	assert.Equal(t, geometry.Pt(560, 200), a[9].Position())

	s.NextRow()
	b, err := s.AddRow("", 4)
	require.NoError(t, err)
	assert.Equal(t, "B", b[0].Row)
	assert.Equal(t, 240.0, b[0].Y)

	again, err := s.AddRow("A", 2)
	require.NoError(t, err)
	assert.Equal(t, 200.0, again[0].Y, "existing row label reuses its y")
}

func TestAddRowsIsOneUndoStep(t *testing.T) {
	s := New(nil, Options{})
	seats, err := s.AddRows(3, 4)
	require.NoError(t, err)
	assert.Len(t, seats, 12)
	assert.Equal(t, "D", s.ActiveRow())
	assert.Equal(t, []string{"A", "B", "C"}, []string{seats[0].Row, seats[4].Row, seats[8].Row})

	require.NoError(t, s.Undo())
	assert.Zero(t, s.Layout().SeatCount())
	assert.ErrorIs(t, s.Undo(), ErrNothingToUndo)
}

func TestApplyTemplate(t *testing.T) {
	s := rowSession(t)
	click(t, s, 200, 200, false)
	s.Viewport().SetPan(geometry.Pt(30, 30))

	bp, err := s.ApplyTemplate(template.Classroom)
	require.NoError(t, err)
	assert.Equal(t, template.Classroom, bp.ID)

	l := s.Layout()
	assert.Equal(t, 120, l.SeatCount(), "template replaces existing seats")
	assert.Len(t, l.Sections(), 4)
	_, ok := l.Section(model.DefaultSectionID)
	assert.True(t, ok)
	assert.Zero(t, s.SelectionCount())
	assert.Equal(t, geometry.Point{}, s.Viewport().Pan())
	assert.GreaterOrEqual(t, s.Viewport().Zoom(), 0.5)
	assert.LessOrEqual(t, s.Viewport().Zoom(), 1.0)
	assert.Equal(t, "K", s.ActiveRow())

	require.NoError(t, s.Undo())
	assert.Equal(t, 5, s.Layout().SeatCount())

	_, err = s.ApplyTemplate("circus")
	assert.ErrorIs(t, err, template.ErrUnknownTemplate)
}

func TestHistoryDepth(t *testing.T) {
	s := New(nil, Options{HistoryDepth: 3})
	require.NoError(t, s.SetTool(ToolSeat))
	for i := 0; i < 5; i++ {
		click(t, s, float64(100+i*60), 100, false)
	}
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Undo())
	}
	assert.Equal(t, 2, s.Layout().SeatCount())
	assert.ErrorIs(t, s.Undo(), ErrNothingToUndo)

	require.NoError(t, s.Redo())
	click(t, s, 500, 500, false)
	assert.False(t, s.CanRedo(), "a new change drops the redo branch")
	assert.ErrorIs(t, s.Redo(), ErrNothingToRedo)
}

func TestUndoPrunesSelection(t *testing.T) {
	s := New(nil, Options{})
	require.NoError(t, s.SetTool(ToolSeat))
	click(t, s, 100, 100, false)
	require.NoError(t, s.SetTool(ToolPointer))
	click(t, s, 100, 100, false)
	require.Equal(t, 1, s.SelectionCount())
	require.NoError(t, s.Undo())
	assert.Zero(t, s.SelectionCount())
}

func TestClearAll(t *testing.T) {
	s := rowSession(t)
	click(t, s, 200, 200, false)
	n, err := s.ClearAll()
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Zero(t, s.SelectionCount())
	assert.Len(t, s.Layout().Sections(), 1)
}

func TestSettings(t *testing.T) {
	s := New(nil, Options{})
	bad := 0.0
	assert.ErrorIs(t, s.UpdateSettings(SettingsPatch{GridSize: &bad}), ErrInvalidGridSize)

	g, name, show := 25.0, "Hall B", false
	require.NoError(t, s.UpdateSettings(SettingsPatch{GridSize: &g, Name: &name, ShowGrid: &show}))
	assert.Equal(t, 25.0, s.Layout().Settings.GridSize)
	assert.Equal(t, "Hall B", s.Layout().Name)
	assert.False(t, s.Layout().Settings.ShowGrid)
}

func TestActiveAttributes(t *testing.T) {
	s := New(nil, Options{})
	assert.ErrorIs(t, s.SetActiveSection("nope"), layout.ErrSectionNotFound)
	assert.ErrorIs(t, s.SetActiveType("gold"), layout.ErrInvalidSeatType)
	assert.ErrorIs(t, s.SetActiveRow("12"), layout.ErrInvalidRow)
	require.NoError(t, s.SetActiveRow("c"))
	assert.Equal(t, "C", s.ActiveRow())
	assert.Equal(t, "D", s.NextRow())

	_, err := ParseTool("lasso")
	assert.ErrorIs(t, err, ErrUnknownTool)
	tool, err := ParseTool(" Seat ")
	require.NoError(t, err)
	assert.Equal(t, ToolSeat, tool)
}

func TestAssignDuringDragIsItsOwnUndoStep(t *testing.T) {
	s := rowSession(t)
	_, err := s.AddSection(model.Section{ID: "x", Name: "X"})
	require.NoError(t, err)

	require.NoError(t, s.HandleAll([]Event{
		{Type: EventDown, X: 200, Y: 200},
		{Type: EventMove, X: 230, Y: 250},
		{Type: EventMove, X: 260, Y: 300},
	}))
	n, err := s.AssignSelection("x")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, s.Handle(Event{Type: EventUp, X: 260, Y: 300}))

	a1 := seatByLabel(t, s, "A1")
	assert.Equal(t, geometry.Pt(260, 300), a1.Position())
	assert.Equal(t, "x", a1.SectionID)

	require.NoError(t, s.Undo())
	a1 = seatByLabel(t, s, "A1")
	assert.Equal(t, geometry.Pt(260, 300), a1.Position(), "first undo reverts only the assignment")
	assert.Equal(t, model.DefaultSectionID, a1.SectionID)

	require.NoError(t, s.Undo())
	assert.Equal(t, geometry.Pt(200, 200), seatByLabel(t, s, "A1").Position())
}

func TestSectionEditsFinishTheDrag(t *testing.T) {
	s := rowSession(t)
	require.NoError(t, s.HandleAll([]Event{
		{Type: EventDown, X: 200, Y: 200},
		{Type: EventMove, X: 200, Y: 260},
	}))
	_, err := s.AddSection(model.Section{ID: "y", Name: "Y"})
	require.NoError(t, err)
	assert.False(t, s.Dragging())

	require.NoError(t, s.Undo())
	_, ok := s.Layout().Section("y")
	assert.False(t, ok)
	assert.Equal(t, geometry.Pt(200, 260), seatByLabel(t, s, "A1").Position())
}

func TestSnappedDragKeepsGroupShape(t *testing.T) {
	l := layout.New("")
	var ids []string
	for i, p := range []geometry.Point{{X: 203, Y: 207}, {X: 231, Y: 219}, {X: 262, Y: 241}} {
		seat, err := l.AddSeat(model.Seat{X: p.X, Y: p.Y, Row: "A", Number: string(rune('1' + i)), SectionID: model.DefaultSectionID})
		require.NoError(t, err)
		ids = append(ids, seat.ID)
	}
	s := New(l, Options{})
	s.Select(ids)
	require.True(t, s.Layout().Settings.SnapToGrid)

	drag(t, s, geometry.Pt(203, 207), geometry.Pt(233, 227))

	a1, a2, a3 := seatByLabel(t, s, "A1"), seatByLabel(t, s, "A2"), seatByLabel(t, s, "A3")
	assert.Equal(t, geometry.Pt(240, 220), a1.Position(), "the pressed seat lands on the grid")
	assert.Equal(t, geometry.Pt(28, 12), a2.Position().Sub(a1.Position()))
	assert.Equal(t, geometry.Pt(59, 34), a3.Position().Sub(a1.Position()))
}

func TestDeleteFinishesBoxBeforeCheckingSelection(t *testing.T) {
	s := rowSession(t)
	require.NoError(t, s.HandleAll([]Event{
		{Type: EventDown, X: 190, Y: 190},
		{Type: EventMove, X: 250, Y: 210},
	}))
	require.Zero(t, s.SelectionCount())

	n, err := s.DeleteSelected()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 3, s.Layout().SeatCount())
}

func TestHandleAllRefusesUnknownEventsUpFront(t *testing.T) {
	s := rowSession(t)
	rev := s.Revision()
	err := s.HandleAll([]Event{
		{Type: EventDown, X: 200, Y: 200},
		{Type: EventUp, X: 200, Y: 200},
		{Type: "tap", X: 200, Y: 200},
	})
	assert.ErrorIs(t, err, ErrUnknownEvent)
	assert.Zero(t, s.SelectionCount())
	assert.Equal(t, rev, s.Revision())
}
