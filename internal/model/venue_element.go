package model

import "github.com/iliyamo/seatmap-studio/internal/geometry"

// ElementKind identifies a kind of non-seat venue furniture.
type ElementKind string

const (
	ElementStage    ElementKind = "stage"
	ElementEntrance ElementKind = "entrance"
	ElementAisle    ElementKind = "aisle"
	ElementLabel    ElementKind = "label"
	ElementShape    ElementKind = "shape"
)

// Valid reports whether k is a known element kind.
func (k ElementKind) Valid() bool {
	switch k {
	case ElementStage, ElementEntrance, ElementAisle, ElementLabel, ElementShape:
		return true
	}
	return false
}

// VenueElement is layout furniture drawn under the seats: the stage, aisles,
// free text labels and plain shapes.  Rotation is in degrees around the
// rectangle centre.
type VenueElement struct {
	ID       string      `json:"id"`
	Kind     ElementKind `json:"kind"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Rotation float64     `json:"rotation"`
	Label    string      `json:"label,omitempty"`
	Color    string      `json:"color,omitempty"`
}

// Bounds returns the unrotated bounding rectangle.
func (e VenueElement) Bounds() geometry.Rect {
	return geometry.Rect{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}
}
