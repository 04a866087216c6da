package model

// Snapshot is the persisted shape of a seat map.  It is the only artifact
// exchanged with storage and with the host application.
type Snapshot struct {
	Seats         []Seat         `json:"seats"`
	Sections      []Section      `json:"sections"`
	VenueElements []VenueElement `json:"venueElements"`
	CanvasSize    CanvasSize     `json:"canvasSize"`
	ShowEntrance  bool           `json:"show_entrance"`
	ShowGrid      bool           `json:"showGrid"`
	GridSize      float64        `json:"gridSize"`
	Metadata      Metadata       `json:"metadata"`
}

// CanvasSize is the authoring viewport size in screen pixels.
type CanvasSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Metadata carries the layout name and derived counts.  Counts are
// recomputed on every save and ignored on load.
type Metadata struct {
	Name           string         `json:"name"`
	TotalSeats     int            `json:"totalSeats"`
	SectionCounts  []SectionCount `json:"sectionCounts"`
	SeatTypeCounts []TypeCount    `json:"seatTypeCounts"`
}

// SectionCount is the number of seats assigned to one section.
type SectionCount struct {
	SectionID string `json:"sectionId"`
	Name      string `json:"name"`
	Count     int    `json:"count"`
}

// TypeCount is the number of seats of one seat type.
type TypeCount struct {
	Type  SeatType `json:"type"`
	Count int      `json:"count"`
}
