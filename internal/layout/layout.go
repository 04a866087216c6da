// Package layout implements the seat map document: seats, sections and venue
// elements together with the rules that keep them consistent.  Every seat's
// section reference is either empty or points at a section that exists, and
// the reserved default section is always present.
package layout

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/iliyamo/seatmap-studio/internal/geometry"
	"github.com/iliyamo/seatmap-studio/internal/model"
)

const (
	// SeatRadius is the on-screen radius of a seat in pixels.
	SeatRadius = 12.0

	DefaultGridSize    = 20.0
	DefaultRowSpacing  = 40.0
	DefaultSeatSpacing = 40.0
	// RowOriginX is the x of the first seat placed by AddRow.
	RowOriginX = 200.0
	// FirstRowBaseY is the y AddRow measures from when the layout is empty.
	FirstRowBaseY = 160.0

	DefaultCanvasWidth  = 800.0
	DefaultCanvasHeight = 600.0
	DefaultName         = "Main Seating Layout"
)

var (
	ErrDefaultSection  = errors.New("the default section cannot be deleted")
	ErrSectionNotFound = errors.New("section not found")
	ErrSectionExists   = errors.New("section already exists")
	ErrSeatNotFound    = errors.New("seat not found")
	ErrElementNotFound = errors.New("venue element not found")
	ErrInvalidSeatType = errors.New("invalid seat type")
	ErrInvalidRow      = errors.New("invalid row")
)

// Settings are the per-layout view settings persisted with the snapshot.
type Settings struct {
	GridSize     float64          `json:"gridSize"`
	ShowGrid     bool             `json:"showGrid"`
	ShowEntrance bool             `json:"showEntrance"`
	SnapToGrid   bool             `json:"snapToGrid"`
	CanvasSize   model.CanvasSize `json:"canvasSize"`
}

// DefaultSettings returns the settings of a fresh layout.
func DefaultSettings() Settings {
	return Settings{
		GridSize:     DefaultGridSize,
		ShowGrid:     true,
		ShowEntrance: true,
		SnapToGrid:   true,
		CanvasSize:   model.CanvasSize{Width: DefaultCanvasWidth, Height: DefaultCanvasHeight},
	}
}

// Layout is the authoring document.  It is not safe for concurrent use.
type Layout struct {
	Name     string
	Settings Settings

	seats    []model.Seat
	sections []model.Section
	elements []model.VenueElement
}

// New returns an empty layout holding only the default section.
func New(name string) *Layout {
	if name == "" {
		name = DefaultName
	}
	return &Layout{
		Name:     name,
		Settings: DefaultSettings(),
		sections: []model.Section{model.DefaultSection()},
	}
}

// Seats returns a copy of the seats in draw order.
func (l *Layout) Seats() []model.Seat { return slices.Clone(l.seats) }

// Sections returns a copy of the sections.  The default section is first.
func (l *Layout) Sections() []model.Section { return slices.Clone(l.sections) }

// Elements returns a copy of the venue elements in draw order.
func (l *Layout) Elements() []model.VenueElement { return slices.Clone(l.elements) }

// SeatCount returns the number of seats.
func (l *Layout) SeatCount() int { return len(l.seats) }

// Seat looks up a seat by id.
func (l *Layout) Seat(id string) (model.Seat, bool) {
	if i := l.seatIndex(id); i >= 0 {
		return l.seats[i], true
	}
	return model.Seat{}, false
}

// Section looks up a section by id.
func (l *Layout) Section(id string) (model.Section, bool) {
	if i := l.sectionIndex(id); i >= 0 {
		return l.sections[i], true
	}
	return model.Section{}, false
}

func (l *Layout) seatIndex(id string) int {
	return slices.IndexFunc(l.seats, func(s model.Seat) bool { return s.ID == id })
}

func (l *Layout) sectionIndex(id string) int {
	return slices.IndexFunc(l.sections, func(s model.Section) bool { return s.ID == id })
}

// checkSection validates a section reference for a seat.
func (l *Layout) checkSection(id string) error {
	if id == "" || l.sectionIndex(id) >= 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrSectionNotFound, id)
}

// AddSeat appends a seat.  An empty ID is generated, an empty type defaults
// to standard and the section must exist when set.
func (l *Layout) AddSeat(s model.Seat) (model.Seat, error) {
	if err := l.checkSection(s.SectionID); err != nil {
		return model.Seat{}, err
	}
	if s.Type == "" {
		s.Type = model.SeatStandard
	}
	if !s.Type.Valid() {
		return model.Seat{}, ErrInvalidSeatType
	}
	if s.ID == "" || l.seatIndex(s.ID) >= 0 {
		s.ID = uuid.NewString()
	}
	l.seats = append(l.seats, s)
	return s, nil
}

// NextSeatNumber returns one past the highest numeric seat number in row.
func (l *Layout) NextSeatNumber(row string) int {
	next := 1
	for _, s := range l.seats {
		if s.Row == row {
			if n := seatNumber(s.Number); n >= next {
				next = n + 1
			}
		}
	}
	return next
}

// RowSpec describes a bulk row placement.
type RowSpec struct {
	Label       string
	Count       int
	SectionID   string
	Type        model.SeatType
	RowSpacing  float64 // vertical distance to the previous lowest row
	SeatSpacing float64 // horizontal distance between seats
	OriginX     float64 // x of seat number 1
}

// RowY returns the y used for a row: the y of an existing seat with the same
// label, otherwise one row spacing below the lowest seat.
func (l *Layout) RowY(label string, rowSpacing float64) float64 {
	for _, s := range l.seats {
		if s.Row == label {
			return s.Y
		}
	}
	maxY := FirstRowBaseY
	if len(l.seats) > 0 {
		maxY = l.seats[0].Y
		for _, s := range l.seats[1:] {
			if s.Y > maxY {
				maxY = s.Y
			}
		}
	}
	return maxY + rowSpacing
}

// AddRow places rs.Count seats on one row, numbered from 1.
func (l *Layout) AddRow(rs RowSpec) ([]model.Seat, error) {
	if rs.Label == "" || rs.Count < 1 {
		return nil, ErrInvalidRow
	}
	if err := l.checkSection(rs.SectionID); err != nil {
		return nil, err
	}
	if rs.Type == "" {
		rs.Type = model.SeatStandard
	}
	if !rs.Type.Valid() {
		return nil, ErrInvalidSeatType
	}
	if rs.RowSpacing <= 0 {
		rs.RowSpacing = DefaultRowSpacing
	}
	if rs.SeatSpacing <= 0 {
		rs.SeatSpacing = DefaultSeatSpacing
	}
	if rs.OriginX == 0 {
		rs.OriginX = RowOriginX
	}
	y := l.RowY(rs.Label, rs.RowSpacing)
	added := make([]model.Seat, 0, rs.Count)
	for i := 0; i < rs.Count; i++ {
		s := model.Seat{
			ID:        uuid.NewString(),
			X:         rs.OriginX + float64(i)*rs.SeatSpacing,
			Y:         y,
			Row:       rs.Label,
			Number:    fmt.Sprint(i + 1),
			Type:      rs.Type,
			SectionID: rs.SectionID,
		}
		added = append(added, s)
	}
	l.seats = append(l.seats, added...)
	return added, nil
}

// SetSeatPosition moves one seat to p.
func (l *Layout) SetSeatPosition(id string, p geometry.Point) error {
	i := l.seatIndex(id)
	if i < 0 {
		return ErrSeatNotFound
	}
	l.seats[i].X, l.seats[i].Y = p.X, p.Y
	return nil
}

// OffsetSeats moves the given seats by d.
func (l *Layout) OffsetSeats(ids []string, d geometry.Point) {
	set := idSet(ids)
	for i := range l.seats {
		if _, ok := set[l.seats[i].ID]; ok {
			l.seats[i].X += d.X
			l.seats[i].Y += d.Y
		}
	}
}

// DeleteSeats removes the given seats and returns how many were removed.
func (l *Layout) DeleteSeats(ids []string) int {
	set := idSet(ids)
	before := len(l.seats)
	l.seats = slices.DeleteFunc(l.seats, func(s model.Seat) bool {
		_, ok := set[s.ID]
		return ok
	})
	return before - len(l.seats)
}

// ClearSeats removes every seat.  Sections and elements are kept.
func (l *Layout) ClearSeats() int {
	n := len(l.seats)
	l.seats = nil
	return n
}

// AssignSection moves the given seats into sectionID and returns the count.
func (l *Layout) AssignSection(ids []string, sectionID string) (int, error) {
	if sectionID == "" || l.sectionIndex(sectionID) < 0 {
		return 0, fmt.Errorf("%w: %s", ErrSectionNotFound, sectionID)
	}
	set := idSet(ids)
	n := 0
	for i := range l.seats {
		if _, ok := set[l.seats[i].ID]; ok {
			l.seats[i].SectionID = sectionID
			n++
		}
	}
	return n, nil
}

// SetSeatType changes the type of the given seats and returns the count.
func (l *Layout) SetSeatType(ids []string, t model.SeatType) (int, error) {
	if !t.Valid() {
		return 0, ErrInvalidSeatType
	}
	set := idSet(ids)
	n := 0
	for i := range l.seats {
		if _, ok := set[l.seats[i].ID]; ok {
			l.seats[i].Type = t
			n++
		}
	}
	return n, nil
}

// SetOccupied marks exactly the given seats as occupied.
func (l *Layout) SetOccupied(ids []string) {
	set := idSet(ids)
	for i := range l.seats {
		_, ok := set[l.seats[i].ID]
		l.seats[i].Occupied = ok
	}
}

// AddSection appends a section.  An empty ID is generated.
func (l *Layout) AddSection(sec model.Section) (model.Section, error) {
	if sec.ID == "" {
		sec.ID = uuid.NewString()
	}
	if l.sectionIndex(sec.ID) >= 0 {
		return model.Section{}, fmt.Errorf("%w: %s", ErrSectionExists, sec.ID)
	}
	if sec.Color == "" {
		sec.Color = model.DefaultSection().Color
	}
	l.sections = append(l.sections, sec)
	return sec, nil
}

// SectionPatch lists the section fields to change; nil fields are kept.
// ClearPrice drops the custom price.
type SectionPatch struct {
	Name             *string `json:"name"`
	Color            *string `json:"color"`
	TicketTypeID     *string `json:"ticketTypeId"`
	CustomPriceCents *int64  `json:"customPriceCents"`
	ClearPrice       bool    `json:"clearPrice"`
}

// UpdateSection applies p to the section with the given id.
func (l *Layout) UpdateSection(id string, p SectionPatch) (model.Section, error) {
	i := l.sectionIndex(id)
	if i < 0 {
		return model.Section{}, fmt.Errorf("%w: %s", ErrSectionNotFound, id)
	}
	sec := &l.sections[i]
	if p.Name != nil {
		sec.Name = *p.Name
	}
	if p.Color != nil {
		sec.Color = *p.Color
	}
	if p.TicketTypeID != nil {
		sec.TicketTypeID = *p.TicketTypeID
	}
	if p.CustomPriceCents != nil {
		v := *p.CustomPriceCents
		sec.CustomPriceCents = &v
	}
	if p.ClearPrice {
		sec.CustomPriceCents = nil
	}
	return *sec, nil
}

// DeleteSection removes a section and moves its seats to the default
// section.  It returns the number of reassigned seats.
func (l *Layout) DeleteSection(id string) (int, error) {
	if id == model.DefaultSectionID {
		return 0, ErrDefaultSection
	}
	i := l.sectionIndex(id)
	if i < 0 {
		return 0, fmt.Errorf("%w: %s", ErrSectionNotFound, id)
	}
	l.sections = slices.Delete(l.sections, i, i+1)
	n := 0
	for j := range l.seats {
		if l.seats[j].SectionID == id {
			l.seats[j].SectionID = model.DefaultSectionID
			n++
		}
	}
	return n, nil
}

// AddElement appends a venue element.  An empty ID is generated.
func (l *Layout) AddElement(e model.VenueElement) model.VenueElement {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if !e.Kind.Valid() {
		e.Kind = model.ElementShape
	}
	l.elements = append(l.elements, e)
	return e
}

// DeleteElement removes a venue element.
func (l *Layout) DeleteElement(id string) error {
	i := slices.IndexFunc(l.elements, func(e model.VenueElement) bool { return e.ID == id })
	if i < 0 {
		return ErrElementNotFound
	}
	l.elements = slices.Delete(l.elements, i, i+1)
	return nil
}

// Replace swaps sections, seats and elements wholesale.  The default section
// is added when missing and dangling section references fall back to it.
func (l *Layout) Replace(sections []model.Section, seats []model.Seat, elements []model.VenueElement) {
	l.sections = nil
	l.seats = nil
	l.elements = nil
	seen := map[string]bool{}
	for _, sec := range sections {
		if sec.ID == "" || seen[sec.ID] {
			continue
		}
		seen[sec.ID] = true
		l.sections = append(l.sections, sec)
	}
	if !seen[model.DefaultSectionID] {
		l.sections = append([]model.Section{model.DefaultSection()}, l.sections...)
	}
	seatIDs := map[string]bool{}
	for _, s := range seats {
		if s.SectionID != "" && !seen[s.SectionID] {
			s.SectionID = model.DefaultSectionID
		}
		if !s.Type.Valid() {
			s.Type = model.SeatStandard
		}
		if s.ID == "" || seatIDs[s.ID] {
			s.ID = uuid.NewString()
		}
		seatIDs[s.ID] = true
		l.seats = append(l.seats, s)
	}
	for _, e := range elements {
		l.AddElement(e)
	}
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
