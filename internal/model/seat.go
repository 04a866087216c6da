package model

import (
	"strings"

	"github.com/iliyamo/seatmap-studio/internal/geometry"
)

// SeatType classifies a seat.  The zero value is not valid; use
// ParseSeatType to normalise user input.
type SeatType string

const (
	SeatStandard   SeatType = "standard"
	SeatPremium    SeatType = "premium"
	SeatVIP        SeatType = "vip"
	SeatAccessible SeatType = "accessible"
)

// SeatTypes lists every seat type in display order.
var SeatTypes = []SeatType{SeatStandard, SeatPremium, SeatVIP, SeatAccessible}

// seatTypeColors are the fill colours used when a seat has no section colour.
var seatTypeColors = map[SeatType]string{
	SeatStandard:   "#3b82f6",
	SeatPremium:    "#f59e0b",
	SeatVIP:        "#ef4444",
	SeatAccessible: "#10b981",
}

// Color returns the default fill colour for the seat type.
func (t SeatType) Color() string {
	if c, ok := seatTypeColors[t]; ok {
		return c
	}
	return seatTypeColors[SeatStandard]
}

// Valid reports whether t is one of the known seat types.
func (t SeatType) Valid() bool {
	_, ok := seatTypeColors[t]
	return ok
}

// ParseSeatType normalises a seat type string.  Empty input maps to
// standard and the legacy value "disabled" maps to accessible.
func ParseSeatType(s string) (SeatType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard":
		return SeatStandard, true
	case "premium":
		return SeatPremium, true
	case "vip":
		return SeatVIP, true
	case "accessible", "disabled":
		return SeatAccessible, true
	}
	return "", false
}

// Seat is a single placeable seat on the map.
//
// Fields:
//
//	ID        – unique identifier.
//	X, Y      – world position of the seat centre.
//	Row       – row label (A, B, ... AA).
//	Number    – seat number label within the row.
//	Type      – seat classification.
//	SectionID – owning section; empty means unassigned.
//	Occupied  – view-only flag used by preview rendering.
type Seat struct {
	ID        string   `json:"id"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	Row       string   `json:"row"`
	Number    string   `json:"number"`
	Type      SeatType `json:"type"`
	SectionID string   `json:"sectionId,omitempty"`
	Occupied  bool     `json:"isOccupied"`
}

// Position returns the seat centre as a point.
func (s Seat) Position() geometry.Point { return geometry.Point{X: s.X, Y: s.Y} }

// Label returns the printed seat label, e.g. "A12".
func (s Seat) Label() string { return s.Row + s.Number }
