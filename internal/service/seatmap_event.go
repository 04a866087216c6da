package service

import (
    "time"

    "github.com/iliyamo/seatmap-studio/internal/model"
    q "github.com/iliyamo/seatmap-studio/internal/queue"
    "github.com/iliyamo/seatmap-studio/internal/repository"
)

// SeatMapSaved builds the event announcing rec.  Section totals come from
// the saved snapshot's metadata.
func SeatMapSaved(rec repository.SeatMapRecord, meta model.Metadata) q.SeatMapSavedEvent {
    sections := make([]q.SectionTotal, 0, len(meta.SectionCounts))
    for _, sc := range meta.SectionCounts {
        sections = append(sections, q.SectionTotal{SectionID: sc.SectionID, Name: sc.Name, Seats: sc.Count})
    }
    return q.SeatMapSavedEvent{
        EventID:     rec.EventID,
        OwnerID:     rec.OwnerID,
        Name:        rec.Name,
        TotalSeats:  rec.TotalSeats,
        Sections:    sections,
        Fingerprint: rec.Fingerprint,
        SavedAt:     rec.UpdatedAt.UTC().Format(time.RFC3339),
    }
}
