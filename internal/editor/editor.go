// Package editor implements an authoring session: the tool state machine
// that turns pointer, wheel and keyboard input into layout mutations.
//
// A Session is not safe for concurrent use.  Callers that share sessions
// between goroutines serialise access themselves (see internal/session).
package editor

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/iliyamo/seatmap-studio/internal/geometry"
	"github.com/iliyamo/seatmap-studio/internal/layout"
	"github.com/iliyamo/seatmap-studio/internal/model"
	"github.com/iliyamo/seatmap-studio/internal/viewport"
)

// Tool is the active canvas tool.  Tools are mutually exclusive.
type Tool string

const (
	ToolPointer Tool = "pointer" // select, drag and box-select
	ToolSeat    Tool = "seat"    // click to place a seat
	ToolRow     Tool = "row"     // rows are placed through AddRow
	ToolMove    Tool = "move"    // pan
)

var (
	ErrEmptySelection = errors.New("no seats selected")
	ErrPreviewMode    = errors.New("editing is disabled in preview mode")
	ErrUnknownTool    = errors.New("unknown tool")
	ErrNothingToUndo  = errors.New("nothing to undo")
	ErrNothingToRedo  = errors.New("nothing to redo")
)

// ParseTool validates a tool name.
func ParseTool(s string) (Tool, error) {
	switch t := Tool(strings.ToLower(strings.TrimSpace(s))); t {
	case ToolPointer, ToolSeat, ToolRow, ToolMove:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTool, s)
}

// Options are the editor defaults, normally loaded from configuration.
type Options struct {
	RowSpacing   float64 `yaml:"row_spacing"`
	SeatSpacing  float64 `yaml:"seat_spacing"`
	SeatsPerRow  int     `yaml:"seats_per_row"`
	HistoryDepth int     `yaml:"history_depth"`
	ViewWidth    float64 `yaml:"view_width"`
	ViewHeight   float64 `yaml:"view_height"`
	// DragThreshold is the screen distance a press must travel before it
	// becomes a drag or a box.
	DragThreshold float64 `yaml:"drag_threshold"`
}

// DefaultOptions returns the built-in defaults.
func DefaultOptions() Options {
	return Options{
		RowSpacing:    layout.DefaultRowSpacing,
		SeatSpacing:   layout.DefaultSeatSpacing,
		SeatsPerRow:   10,
		HistoryDepth:  50,
		ViewWidth:     layout.DefaultCanvasWidth,
		ViewHeight:    layout.DefaultCanvasHeight,
		DragThreshold: 3,
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.RowSpacing <= 0 {
		o.RowSpacing = d.RowSpacing
	}
	if o.SeatSpacing <= 0 {
		o.SeatSpacing = d.SeatSpacing
	}
	if o.SeatsPerRow <= 0 {
		o.SeatsPerRow = d.SeatsPerRow
	}
	if o.HistoryDepth <= 0 {
		o.HistoryDepth = d.HistoryDepth
	}
	if o.ViewWidth <= 0 {
		o.ViewWidth = d.ViewWidth
	}
	if o.ViewHeight <= 0 {
		o.ViewHeight = d.ViewHeight
	}
	if o.DragThreshold <= 0 {
		o.DragThreshold = d.DragThreshold
	}
	return o
}

// gesture is the in-flight pointer interaction.
type gesture int

const (
	gestureNone  gesture = iota
	gesturePress         // pressed, not yet moved past the threshold
	gestureDrag          // moving the selection
	gestureBox           // rubber-band selection
	gesturePan           // viewport pan
)

// Session is one operator's editing state: the layout being authored, the
// viewport, the active tool and the selection.
type Session struct {
	layout *layout.Layout
	view   *viewport.Viewport
	opts   Options

	tool    Tool
	preview bool

	// active authoring attributes for new seats
	activeSection string
	activeType    model.SeatType
	activeRow     string

	selection map[string]struct{}

	gesture     gesture
	pressScreen geometry.Point
	pressWorld  geometry.Point
	pressSeat   string
	moved       bool
	boxEnd      geometry.Point
	dragOrigin  map[string]geometry.Point
	dragBefore  layout.State

	history  *history
	revision uint64
}

// New starts a session on l.  A nil layout starts empty.
func New(l *layout.Layout, opts Options) *Session {
	if l == nil {
		l = layout.New("")
	}
	opts = opts.withDefaults()
	return &Session{
		layout:        l,
		view:          viewport.New(),
		opts:          opts,
		tool:          ToolPointer,
		activeSection: model.DefaultSectionID,
		activeType:    model.SeatStandard,
		activeRow:     "A",
		selection:     map[string]struct{}{},
		history:       newHistory(opts.HistoryDepth),
	}
}

// Layout returns the document being edited.  Callers must not mutate it
// directly; use the session operations so history stays consistent.
func (s *Session) Layout() *layout.Layout { return s.layout }

// Viewport returns the session's transform.
func (s *Session) Viewport() *viewport.Viewport { return s.view }

// Options returns the effective editor options.
func (s *Session) Options() Options { return s.opts }

// Tool returns the active tool.
func (s *Session) Tool() Tool { return s.tool }

// SetTool switches tools.  Any gesture in progress is committed first.
func (s *Session) SetTool(t Tool) error {
	if _, err := ParseTool(string(t)); err != nil {
		return err
	}
	s.finishGesture()
	s.tool = t
	s.revision++
	return nil
}

// Preview reports whether preview mode is on.
func (s *Session) Preview() bool { return s.preview }

// SetPreview turns preview mode on or off.  Entering preview clears the
// selection since selected seats cannot be edited there.
func (s *Session) SetPreview(on bool) {
	if s.preview == on {
		return
	}
	s.finishGesture()
	s.preview = on
	if on {
		clear(s.selection)
	}
	s.revision++
}

// Revision increases on every change that affects the rendered frame.
func (s *Session) Revision() uint64 { return s.revision }

// ActiveSection returns the section assigned to newly placed seats.
func (s *Session) ActiveSection() string { return s.activeSection }

// ActiveType returns the type given to newly placed seats.
func (s *Session) ActiveType() model.SeatType { return s.activeType }

// ActiveRow returns the row label given to newly placed seats.
func (s *Session) ActiveRow() string { return s.activeRow }

// SetActiveSection chooses the section for new seats.
func (s *Session) SetActiveSection(id string) error {
	if _, ok := s.layout.Section(id); !ok {
		return fmt.Errorf("%w: %s", layout.ErrSectionNotFound, id)
	}
	s.activeSection = id
	return nil
}

// SetActiveType chooses the type for new seats.
func (s *Session) SetActiveType(t model.SeatType) error {
	if !t.Valid() {
		return layout.ErrInvalidSeatType
	}
	s.activeType = t
	return nil
}

// SetActiveRow chooses the row label for new seats.
func (s *Session) SetActiveRow(label string) error {
	norm := layout.NormalizeRowLabel(label)
	if norm == "" {
		return layout.ErrInvalidRow
	}
	s.activeRow = norm
	return nil
}

// NextRow advances the active row label (A, B, ... Z, AA).
func (s *Session) NextRow() string {
	s.activeRow = layout.NextRowLabel(s.activeRow)
	return s.activeRow
}

// Selection returns the selected seat ids in draw order.
func (s *Session) Selection() []string {
	ids := make([]string, 0, len(s.selection))
	for _, seat := range s.layout.Seats() {
		if _, ok := s.selection[seat.ID]; ok {
			ids = append(ids, seat.ID)
		}
	}
	return ids
}

// Selected reports whether a seat is selected.
func (s *Session) Selected(id string) bool {
	_, ok := s.selection[id]
	return ok
}

// SelectionCount returns the number of selected seats.
func (s *Session) SelectionCount() int { return len(s.selection) }

// Select replaces the selection with ids.  Unknown ids are ignored.
func (s *Session) Select(ids []string) {
	clear(s.selection)
	for _, id := range ids {
		if _, ok := s.layout.Seat(id); ok {
			s.selection[id] = struct{}{}
		}
	}
	s.revision++
}

// ClearSelection empties the selection.
func (s *Session) ClearSelection() {
	if len(s.selection) == 0 {
		return
	}
	clear(s.selection)
	s.revision++
}

// Box returns the in-progress selection rectangle in world coordinates.
func (s *Session) Box() (geometry.Rect, bool) {
	if s.gesture != gestureBox {
		return geometry.Rect{}, false
	}
	return geometry.RectFromCorners(s.pressWorld, s.boxEnd), true
}

// Dragging reports whether seats are being dragged.
func (s *Session) Dragging() bool { return s.gesture == gestureDrag }

// pruneSelection drops ids that no longer name a seat.
func (s *Session) pruneSelection() {
	for id := range s.selection {
		if _, ok := s.layout.Seat(id); !ok {
			delete(s.selection, id)
		}
	}
}

// commit records the state taken before a mutation and bumps the revision.
func (s *Session) commit(before layout.State) {
	s.history.record(before)
	s.revision++
}

// selectedIDs returns the selection as a slice in no particular order.
func (s *Session) selectedIDs() []string {
	ids := make([]string, 0, len(s.selection))
	for id := range s.selection {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
