package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/seatmap-studio/internal/geometry"
	"github.com/iliyamo/seatmap-studio/internal/model"
)

// EventType identifies an input event.
type EventType string

const (
	EventDown  EventType = "down"
	EventMove  EventType = "move"
	EventUp    EventType = "up"
	EventWheel EventType = "wheel"
	EventKey   EventType = "key"
)

func (t EventType) valid() bool {
	switch t {
	case EventDown, EventMove, EventUp, EventWheel, EventKey:
		return true
	}
	return false
}

// Pointer buttons, numbered like DOM mouse events.
const (
	ButtonPrimary = 0
	ButtonMiddle  = 1
)

// ErrUnknownEvent is returned for an event type the session does not handle.
var ErrUnknownEvent = errors.New("unknown event type")

// Event is one input event forwarded by the host.  Pointer coordinates are
// in screen pixels relative to the canvas.
type Event struct {
	Type   EventType `json:"type"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Button int       `json:"button"`
	Shift  bool      `json:"shiftKey"`
	Ctrl   bool      `json:"ctrlKey"`
	Meta   bool      `json:"metaKey"`
	DeltaY float64   `json:"deltaY"`
	Key    string    `json:"key"`
}

func (e Event) screen() geometry.Point { return geometry.Pt(e.X, e.Y) }

// Handle applies one event.  Refused actions triggered from the keyboard
// are ignored; pointer actions never fail.
func (s *Session) Handle(ev Event) error {
	switch ev.Type {
	case EventDown:
		s.pointerDown(ev)
	case EventMove:
		s.pointerMove(ev)
	case EventUp:
		return s.pointerUp(ev)
	case EventWheel:
		if s.view.Wheel(ev.DeltaY, ev.Ctrl || ev.Meta) {
			s.revision++
		}
	case EventKey:
		s.key(ev)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
	return nil
}

// HandleAll applies events in order.  A batch holding an unknown event type
// is refused before any event is applied; an error raised while applying
// stops the batch and leaves the earlier events applied.
func (s *Session) HandleAll(events []Event) error {
	for i, ev := range events {
		if !ev.Type.valid() {
			return fmt.Errorf("event %d: %w: %q", i, ErrUnknownEvent, ev.Type)
		}
	}
	for i, ev := range events {
		if err := s.Handle(ev); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}
	return nil
}

func (s *Session) pointerDown(ev Event) {
	// a press without a matching release commits the previous gesture
	s.finishGesture()

	screen := ev.screen()
	if ev.Button == ButtonMiddle || s.tool == ToolMove {
		s.view.BeginPan(screen)
		s.gesture = gesturePan
		return
	}
	if ev.Button != ButtonPrimary || s.preview {
		return
	}

	world := s.view.ScreenToWorld(screen)
	s.pressScreen, s.pressWorld, s.boxEnd = screen, world, world
	s.pressSeat = ""
	s.moved = false

	switch s.tool {
	case ToolPointer:
		if seat, ok := s.layout.SeatAt(world, s.view.Zoom()); ok {
			s.pressSeat = seat.ID
			s.gesture = gesturePress
			return
		}
		s.gesture = gestureBox
		s.revision++
	case ToolSeat, ToolRow:
		s.gesture = gesturePress
	}
}

func (s *Session) pointerMove(ev Event) {
	screen := ev.screen()
	world := s.view.ScreenToWorld(screen)

	switch s.gesture {
	case gesturePan:
		if s.view.PanTo(screen) {
			s.revision++
		}
	case gestureBox:
		s.boxEnd = world
		s.revision++
	case gesturePress:
		if geometry.Distance(screen, s.pressScreen) < s.opts.DragThreshold {
			return
		}
		s.moved = true
		if s.tool == ToolPointer && s.pressSeat != "" {
			s.beginDrag()
			s.dragTo(world)
		}
	case gestureDrag:
		s.dragTo(world)
	}
}

func (s *Session) pointerUp(ev Event) error {
	world := s.view.ScreenToWorld(ev.screen())

	switch s.gesture {
	case gesturePan:
		s.view.EndPan()
		s.gesture = gestureNone
	case gestureBox:
		s.boxEnd = world
		s.endBox()
	case gestureDrag:
		s.dragTo(world)
		s.endDrag()
	case gesturePress:
		s.gesture = gestureNone
		if !s.moved {
			return s.click(s.pressWorld, ev.Shift)
		}
	}
	return nil
}

// finishGesture commits whatever gesture is in flight as if the pointer had
// been released where it last was.
func (s *Session) finishGesture() {
	switch s.gesture {
	case gesturePan:
		s.view.EndPan()
	case gestureBox:
		s.endBox()
	case gestureDrag:
		s.endDrag()
	}
	s.gesture = gestureNone
}

// endBox replaces the selection with the seats inside the box.
func (s *Session) endBox() {
	s.Select(s.layout.SeatsInBox(s.pressWorld, s.boxEnd))
	s.gesture = gestureNone
}

// beginDrag starts moving the selection as one group.  Pressing a seat that
// is not selected first makes it the only selected seat.
func (s *Session) beginDrag() {
	if !s.Selected(s.pressSeat) {
		clear(s.selection)
		s.selection[s.pressSeat] = struct{}{}
	}
	s.dragBefore = s.layout.Capture()
	s.dragOrigin = make(map[string]geometry.Point, len(s.selection))
	for id := range s.selection {
		if seat, ok := s.layout.Seat(id); ok {
			s.dragOrigin[id] = seat.Position()
		}
	}
	s.gesture = gestureDrag
}

func (s *Session) dragTo(world geometry.Point) {
	delta := world.Sub(s.pressWorld)
	for id, origin := range s.dragOrigin {
		_ = s.layout.SetSeatPosition(id, origin.Add(delta))
	}
	s.revision++
}

// endDrag records one history entry for the whole move.  With snapping on
// the pressed seat lands on the grid and the rest of the group follows by
// the same offset, so the group keeps its shape.
func (s *Session) endDrag() {
	if s.layout.Settings.SnapToGrid {
		if anchor, ok := s.layout.Seat(s.pressSeat); ok {
			p := anchor.Position()
			fix := geometry.SnapPoint(p, s.layout.Settings.GridSize).Sub(p)
			if fix != (geometry.Point{}) {
				ids := make([]string, 0, len(s.dragOrigin))
				for id := range s.dragOrigin {
					ids = append(ids, id)
				}
				s.layout.OffsetSeats(ids, fix)
			}
		}
	}
	moved := false
	for id, origin := range s.dragOrigin {
		if seat, ok := s.layout.Seat(id); ok && seat.Position() != origin {
			moved = true
			break
		}
	}
	if moved {
		s.commit(s.dragBefore)
	} else {
		s.revision++
	}
	s.dragOrigin = nil
	s.gesture = gestureNone
}

// click handles a press and release without movement.
func (s *Session) click(world geometry.Point, shift bool) error {
	switch s.tool {
	case ToolSeat:
		if _, hit := s.layout.SeatAt(world, s.view.Zoom()); hit {
			return nil
		}
		_, err := s.PlaceSeat(world)
		return err
	case ToolPointer:
		if s.pressSeat == "" {
			return nil
		}
		id := s.pressSeat
		switch {
		case shift && s.Selected(id):
			delete(s.selection, id)
		case shift:
			s.selection[id] = struct{}{}
		case len(s.selection) == 1 && s.Selected(id):
			clear(s.selection)
		default:
			clear(s.selection)
			s.selection[id] = struct{}{}
		}
		s.revision++
	}
	return nil
}

// PlaceSeat adds a seat at world point p with the active section, type and
// row, numbered after the highest number already in that row.  The point is
// snapped when snapping is on.
func (s *Session) PlaceSeat(p geometry.Point) (model.Seat, error) {
	if s.preview {
		return model.Seat{}, ErrPreviewMode
	}
	if s.layout.Settings.SnapToGrid {
		p = geometry.SnapPoint(p, s.layout.Settings.GridSize)
	}
	s.finishGesture()
	before := s.layout.Capture()
	seat, err := s.layout.AddSeat(model.Seat{
		X:         p.X,
		Y:         p.Y,
		Row:       s.activeRow,
		Number:    fmt.Sprint(s.layout.NextSeatNumber(s.activeRow)),
		Type:      s.activeType,
		SectionID: s.activeSection,
	})
	if err != nil {
		return model.Seat{}, err
	}
	s.commit(before)
	return seat, nil
}

// key handles keyboard shortcuts.  Shortcuts are best effort: a refused
// action (empty selection, nothing to undo, preview mode) does nothing.
func (s *Session) key(ev Event) {
	mod := ev.Ctrl || ev.Meta
	k := ev.Key
	switch {
	case mod && strings.EqualFold(k, "z") && ev.Shift:
		_ = s.Redo()
	case mod && strings.EqualFold(k, "z"):
		_ = s.Undo()
	case mod && strings.EqualFold(k, "y"):
		_ = s.Redo()
	case mod:
	case k == "Delete" || k == "Backspace":
		_, _ = s.DeleteSelected()
	case k == "Escape":
		s.ClearSelection()
	case k == "+" || k == "=":
		s.ZoomIn()
	case k == "-" || k == "_":
		s.ZoomOut()
	case k == "0":
		s.ResetView()
	case strings.EqualFold(k, "v"):
		_ = s.SetTool(ToolPointer)
	case strings.EqualFold(k, "s"):
		_ = s.SetTool(ToolSeat)
	case strings.EqualFold(k, "r"):
		_ = s.SetTool(ToolRow)
	case strings.EqualFold(k, "m"):
		_ = s.SetTool(ToolMove)
	}
}
