// Package template generates complete starter layouts for common venue
// shapes.  Generators are pure: the same ID always yields the same
// blueprint and nothing outside the returned value is touched.
package template

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/iliyamo/seatmap-studio/internal/geometry"
	"github.com/iliyamo/seatmap-studio/internal/layout"
	"github.com/iliyamo/seatmap-studio/internal/model"
)

// ID names a built-in template.
type ID string

const (
	Theater     ID = "theater"
	Stadium     ID = "stadium"
	Classroom   ID = "classroom"
	ConcertHall ID = "concert_hall"
)

// ErrUnknownTemplate is returned for an ID that has no generator.
var ErrUnknownTemplate = errors.New("unknown template")

// SeatBlueprint is a seat without identity.  IDs are assigned when the
// blueprint is applied to a layout.
type SeatBlueprint struct {
	X         float64        `json:"x"`
	Y         float64        `json:"y"`
	Row       string         `json:"row"`
	Number    string         `json:"number"`
	Type      model.SeatType `json:"type"`
	SectionID string         `json:"sectionId"`
}

// Blueprint is the full output of a generator.
type Blueprint struct {
	ID       ID                   `json:"id"`
	Name     string               `json:"name"`
	Sections []model.Section      `json:"sections"`
	Elements []model.VenueElement `json:"venueElements"`
	Seats    []SeatBlueprint      `json:"seats"`
}

// Info describes a template for listings.
type Info struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Seats int    `json:"seats"`
}

type generator struct {
	name string
	fn   func() Blueprint
}

var generators = map[ID]generator{
	Theater:     {name: "Theater", fn: theater},
	Stadium:     {name: "Stadium / Arena", fn: stadium},
	Classroom:   {name: "Classroom / Conference", fn: classroom},
	ConcertHall: {name: "Concert Hall", fn: concertHall},
}

// IDs lists the template IDs in display order.
var IDs = []ID{Theater, Stadium, Classroom, ConcertHall}

// Parse normalises a template name such as "Concert Hall" or "concert-hall".
func Parse(s string) (ID, error) {
	norm := strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch norm {
	case "arena":
		norm = string(Stadium)
	case "conference":
		norm = string(Classroom)
	}
	if _, ok := generators[ID(norm)]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, s)
	}
	return ID(norm), nil
}

// Generate builds the blueprint for id.
func Generate(id ID) (Blueprint, error) {
	g, ok := generators[id]
	if !ok {
		return Blueprint{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, id)
	}
	bp := g.fn()
	bp.ID = id
	bp.Name = g.name
	return bp, nil
}

// List returns every template with its seat count.
func List() []Info {
	out := make([]Info, 0, len(IDs))
	for _, id := range IDs {
		bp, _ := Generate(id)
		out = append(out, Info{ID: id, Name: bp.Name, Seats: len(bp.Seats)})
	}
	return out
}

// Bounds returns the area covered by seats (with their radius) and elements.
func (b Blueprint) Bounds() geometry.Rect {
	var r geometry.Rect
	have := false
	for _, s := range b.Seats {
		sr := geometry.Rect{X: s.X - layout.SeatRadius, Y: s.Y - layout.SeatRadius, Width: 2 * layout.SeatRadius, Height: 2 * layout.SeatRadius}
		if !have {
			r, have = sr, true
			continue
		}
		r = r.Union(sr)
	}
	for _, e := range b.Elements {
		if !have {
			r, have = e.Bounds(), true
			continue
		}
		r = r.Union(e.Bounds())
	}
	return r
}

// LayoutSeats converts the blueprints into seats without IDs.
func (b Blueprint) LayoutSeats() []model.Seat {
	seats := make([]model.Seat, len(b.Seats))
	for i, s := range b.Seats {
		seats[i] = model.Seat{X: s.X, Y: s.Y, Row: s.Row, Number: s.Number, Type: s.Type, SectionID: s.SectionID}
	}
	return seats
}

// centerX is the vertical axis the straight-row templates are centred on.
const centerX = 600.0

func stage(cx, y, width, height float64, label string) model.VenueElement {
	return model.VenueElement{
		ID:     "stage",
		Kind:   model.ElementStage,
		X:      cx - width/2,
		Y:      y,
		Width:  width,
		Height: height,
		Label:  label,
		Color:  "#1f2937",
	}
}

// straightBlock describes a rectangular grid of seats.
type straightBlock struct {
	sectionID   string
	firstRow    int // row index of the first row; labels continue across blocks
	rows        int
	perRow      int
	top         float64
	rowSpacing  float64
	seatSpacing float64
	seatType    model.SeatType
}

// seats lays the block out centred on centerX.
func (b straightBlock) seats() []SeatBlueprint {
	out := make([]SeatBlueprint, 0, b.rows*b.perRow)
	width := float64(b.perRow-1) * b.seatSpacing
	left := centerX - width/2
	for r := 0; r < b.rows; r++ {
		label := layout.IndexToRowLabel(b.firstRow + r)
		y := b.top + float64(r)*b.rowSpacing
		for c := 0; c < b.perRow; c++ {
			out = append(out, SeatBlueprint{
				X:         left + float64(c)*b.seatSpacing,
				Y:         y,
				Row:       label,
				Number:    fmt.Sprint(c + 1),
				Type:      b.seatType,
				SectionID: b.sectionID,
			})
		}
	}
	return out
}

// curvedBlock describes a tier of a bowl: rows on concentric arcs whose seat
// count grows by growth seats per row.
type curvedBlock struct {
	sectionID  string
	firstRow   int
	rows       int
	baseSeats  int
	growth     int
	center     geometry.Point
	baseRadius float64
	rowSpacing float64 // radius increment per row
	lift       float64 // extra vertical offset per row index
	minAngle   float64 // radians
	maxAngle   float64 // radians
	bowl       float64 // curvature pull applied to the row ends
	seatType   model.SeatType
}

func (b curvedBlock) seats() []SeatBlueprint {
	var out []SeatBlueprint
	for r := 0; r < b.rows; r++ {
		n := b.baseSeats + r*b.growth
		label := layout.IndexToRowLabel(b.firstRow + r)
		radius := b.baseRadius + float64(r)*b.rowSpacing
		for i := 0; i < n; i++ {
			frac := 0.5
			if n > 1 {
				frac = float64(i) / float64(n-1)
			}
			theta := b.minAngle + frac*(b.maxAngle-b.minAngle)
			// normalised distance from the middle of the row, in [-1, 1]
			d := 2*frac - 1
			curve := b.bowl * d * d
			out = append(out, SeatBlueprint{
				X:         b.center.X + radius*math.Cos(theta),
				Y:         b.center.Y + radius*math.Sin(theta) + float64(r)*b.lift - curve,
				Row:       label,
				Number:    fmt.Sprint(i + 1),
				Type:      b.seatType,
				SectionID: b.sectionID,
			})
		}
	}
	return out
}

func deg(d float64) float64 { return d * math.Pi / 180 }
