// Package picker implements guest seat picking on a published seat map.
package picker

import (
	"errors"

	"github.com/iliyamo/seatmap-studio/internal/geometry"
	"github.com/iliyamo/seatmap-studio/internal/layout"
	"github.com/iliyamo/seatmap-studio/internal/model"
)

// ErrLimitReached is returned when picking one more seat would exceed the
// requested quantity.
var ErrLimitReached = errors.New("seat limit reached")

// Picker tracks the seats a guest holds.  It is not safe for concurrent use.
type Picker struct {
	layout *layout.Layout
	limit  int
	picked []string
}

// New returns a picker for l allowing up to limit seats.  Previously picked
// ids that are unknown, occupied, duplicated or beyond the limit are dropped.
func New(l *layout.Layout, limit int, picked []string) *Picker {
	if limit < 0 {
		limit = 0
	}
	p := &Picker{layout: l, limit: limit}
	seen := map[string]bool{}
	for _, id := range picked {
		if len(p.picked) >= limit || seen[id] {
			continue
		}
		if seat, ok := l.Seat(id); ok && !seat.Occupied {
			seen[id] = true
			p.picked = append(p.picked, id)
		}
	}
	return p
}

// Toggle picks or releases the seat under world point at.  Empty space and
// occupied seats are ignored and report changed=false.
func (p *Picker) Toggle(at geometry.Point) (seat model.Seat, changed bool, err error) {
	seat, ok := p.layout.SeatAt(at, 1)
	if !ok || seat.Occupied {
		return model.Seat{}, false, nil
	}
	for i, id := range p.picked {
		if id == seat.ID {
			p.picked = append(p.picked[:i], p.picked[i+1:]...)
			return seat, true, nil
		}
	}
	if len(p.picked) >= p.limit {
		return seat, false, ErrLimitReached
	}
	p.picked = append(p.picked, seat.ID)
	return seat, true, nil
}

// Picked returns the held seat ids in pick order.
func (p *Picker) Picked() []string { return append([]string(nil), p.picked...) }

// PickedSet returns the held seat ids as a set.
func (p *Picker) PickedSet() map[string]bool {
	m := make(map[string]bool, len(p.picked))
	for _, id := range p.picked {
		m[id] = true
	}
	return m
}

// Limit returns the requested quantity.
func (p *Picker) Limit() int { return p.limit }

// Complete reports whether exactly the requested quantity is held.
func (p *Picker) Complete() bool { return p.limit > 0 && len(p.picked) == p.limit }

// Line is one held seat with its resolved price.
type Line struct {
	SeatID     string `json:"seat_id"`
	Label      string `json:"label"`
	SectionID  string `json:"section_id"`
	Section    string `json:"section"`
	PriceCents int64  `json:"price_cents"`
	Priced     bool   `json:"priced"`
}

// Lines prices every held seat through its section.
func (p *Picker) Lines(ticketTypes []model.TicketType) []Line {
	lines := make([]Line, 0, len(p.picked))
	for _, id := range p.picked {
		seat, ok := p.layout.Seat(id)
		if !ok {
			continue
		}
		line := Line{SeatID: id, Label: seat.Label(), SectionID: seat.SectionID}
		if sec, ok := p.layout.Section(seat.SectionID); ok {
			line.Section = sec.Name
			line.PriceCents, line.Priced = model.ResolvePrice(sec, ticketTypes)
		}
		lines = append(lines, line)
	}
	return lines
}

// Total sums the priced lines.  Unpriced seats count as zero.
func Total(lines []Line) int64 {
	var sum int64
	for _, l := range lines {
		if l.Priced {
			sum += l.PriceCents
		}
	}
	return sum
}
