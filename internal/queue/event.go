// Package queue defines message payloads exchanged over the message broker.
package queue

// SeatMapSavedQueue is the durable queue carrying SeatMapSavedEvent.
const SeatMapSavedQueue = "seatmap.saved"

// SeatMapSavedEvent is published when an owner saves a seat map.  It carries
// enough for downstream consumers to log the change or invalidate their own
// copies without querying the primary database.
type SeatMapSavedEvent struct {
    EventID     uint64         `json:"event_id"`
    OwnerID     uint64         `json:"owner_id"`
    Name        string         `json:"name"`
    TotalSeats  int            `json:"total_seats"`
    Sections    []SectionTotal `json:"sections"`
    Fingerprint string         `json:"fingerprint"`
    SavedAt     string         `json:"saved_at"`
}

// SectionTotal is the seat count of one section at save time.
type SectionTotal struct {
    SectionID string `json:"section_id"`
    Name      string `json:"name"`
    Seats     int    `json:"seats"`
}
