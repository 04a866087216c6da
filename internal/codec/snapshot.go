// Package codec encodes seat map snapshots for storage and transport:
// lenient JSON decoding, zstd compression of stored blobs, BLAKE3
// fingerprints and deterministic CBOR for cached responses.
package codec

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/iliyamo/seatmap-studio/internal/model"
)

// ErrNotObject is returned when a snapshot document is not a JSON object.
var ErrNotObject = errors.New("snapshot is not a JSON object")

// EncodeSnapshot marshals a snapshot to JSON.
func EncodeSnapshot(s model.Snapshot) ([]byte, error) {
	if s.Seats == nil {
		s.Seats = []model.Seat{}
	}
	if s.Sections == nil {
		s.Sections = []model.Section{}
	}
	if s.VenueElements == nil {
		s.VenueElements = []model.VenueElement{}
	}
	return json.Marshal(s)
}

// DecodeSnapshot parses a snapshot field by field.  A malformed or missing
// field keeps its default instead of failing the whole document; only input
// that is not a JSON object at all is an error.  Visibility flags default to
// on and seats with an unreadable type become standard.
func DecodeSnapshot(data []byte) (model.Snapshot, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil || top == nil {
		return model.Snapshot{}, ErrNotObject
	}
	snap := model.Snapshot{ShowEntrance: true, ShowGrid: true}

	for _, raw := range rawList(top["seats"]) {
		if seat, ok := decodeSeat(raw); ok {
			snap.Seats = append(snap.Seats, seat)
		}
	}
	for _, raw := range rawList(top["sections"]) {
		if sec, ok := decodeSection(raw); ok {
			snap.Sections = append(snap.Sections, sec)
		}
	}
	for _, raw := range rawList(first(top, "venueElements", "venue_elements")) {
		if el, ok := decodeElement(raw); ok {
			snap.VenueElements = append(snap.VenueElements, el)
		}
	}
	if cs := rawObject(first(top, "canvasSize", "canvas_size")); cs != nil {
		snap.CanvasSize.Width, _ = num(cs["width"])
		snap.CanvasSize.Height, _ = num(cs["height"])
	}
	if v, ok := boolean(first(top, "show_entrance", "showEntrance")); ok {
		snap.ShowEntrance = v
	}
	if v, ok := boolean(first(top, "showGrid", "show_grid")); ok {
		snap.ShowGrid = v
	}
	snap.GridSize, _ = num(first(top, "gridSize", "grid_size"))
	if md := rawObject(top["metadata"]); md != nil {
		snap.Metadata.Name, _ = str(md["name"])
	}
	return snap, nil
}

func decodeSeat(raw json.RawMessage) (model.Seat, bool) {
	f := rawObject(raw)
	if f == nil {
		return model.Seat{}, false
	}
	var s model.Seat
	s.ID, _ = str(f["id"])
	s.X, _ = num(first(f, "x", "x_position"))
	s.Y, _ = num(first(f, "y", "y_position"))
	s.Row, _ = str(first(f, "row", "row_label"))
	s.Number, _ = str(first(f, "number", "seat_number"))
	t, _ := str(first(f, "type", "seat_type"))
	var ok bool
	if s.Type, ok = model.ParseSeatType(t); !ok {
		s.Type = model.SeatStandard
	}
	s.SectionID, _ = str(first(f, "sectionId", "section_id"))
	s.Occupied, _ = boolean(first(f, "isOccupied", "is_occupied"))
	return s, true
}

func decodeSection(raw json.RawMessage) (model.Section, bool) {
	f := rawObject(raw)
	if f == nil {
		return model.Section{}, false
	}
	var s model.Section
	s.ID, _ = str(f["id"])
	if s.ID == "" {
		return model.Section{}, false
	}
	s.Name, _ = str(f["name"])
	s.Color, _ = str(f["color"])
	s.TicketTypeID, _ = str(first(f, "ticketTypeId", "ticket_type_id"))
	if cents, ok := num(first(f, "customPriceCents", "custom_price_cents")); ok {
		v := int64(math.Round(cents))
		s.CustomPriceCents = &v
	} else if price, ok := num(first(f, "customPrice", "custom_price")); ok {
		v := int64(math.Round(price * 100))
		s.CustomPriceCents = &v
	}
	return s, true
}

func decodeElement(raw json.RawMessage) (model.VenueElement, bool) {
	f := rawObject(raw)
	if f == nil {
		return model.VenueElement{}, false
	}
	var e model.VenueElement
	e.ID, _ = str(f["id"])
	kind, _ := str(first(f, "kind", "type"))
	e.Kind = model.ElementKind(strings.ToLower(kind))
	e.X, _ = num(f["x"])
	e.Y, _ = num(f["y"])
	e.Width, _ = num(f["width"])
	e.Height, _ = num(f["height"])
	e.Rotation, _ = num(f["rotation"])
	e.Label, _ = str(f["label"])
	e.Color, _ = str(f["color"])
	return e, true
}

// first returns the first present key.
func first(m map[string]json.RawMessage, keys ...string) json.RawMessage {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v
		}
	}
	return nil
}

func rawList(raw json.RawMessage) []json.RawMessage {
	var out []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &out) != nil {
		return nil
	}
	return out
}

func rawObject(raw json.RawMessage) map[string]json.RawMessage {
	var out map[string]json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &out) != nil {
		return nil
	}
	return out
}

// str accepts a JSON string or number.
func str(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s, true
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return n.String(), true
	}
	return "", false
}

// num accepts a JSON number or a numeric string.  Non-finite values are
// rejected.
func num(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var f float64
	if json.Unmarshal(raw, &f) != nil {
		var s string
		if json.Unmarshal(raw, &s) != nil {
			return 0, false
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
		f = v
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// boolean accepts a JSON bool, a number or the strings "true" and "false".
func boolean(raw json.RawMessage) (bool, bool) {
	if len(raw) == 0 {
		return false, false
	}
	var b bool
	if json.Unmarshal(raw, &b) == nil {
		return b, true
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		if v, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return v, true
		}
	}
	if f, ok := num(raw); ok {
		return f != 0, true
	}
	return false, false
}
