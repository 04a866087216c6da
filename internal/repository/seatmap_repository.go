package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/seatmap-studio/internal/codec"
	"github.com/iliyamo/seatmap-studio/internal/model"
)

// ErrSeatMapNotFound is returned when an event has no stored seat map.
var ErrSeatMapNotFound = errors.New("seat map not found")

// SeatMapRecord describes a stored seat map without its layout data.
type SeatMapRecord struct {
	EventID     uint64    `json:"event_id"`
	Name        string    `json:"name"`
	Fingerprint string    `json:"fingerprint"`
	TotalSeats  int       `json:"total_seats"`
	OwnerID     uint64    `json:"owner_id"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SeatMapRepo stores one seat map per event.  The layout is kept as a
// compressed JSON snapshot in seat_maps and mirrored row by row in seats.
type SeatMapRepo struct {
	db    *sql.DB
	seats *SeatRepo
	now   func() time.Time
}

// NewSeatMapRepo constructs a SeatMapRepo with the given DB handle.
func NewSeatMapRepo(db *sql.DB) *SeatMapRepo {
	return &SeatMapRepo{db: db, seats: NewSeatRepo(db), now: time.Now}
}

// Load returns the seat map of an event with current occupancy applied.
func (r *SeatMapRepo) Load(ctx context.Context, eventID uint64) (model.Snapshot, SeatMapRecord, error) {
	const q = `SELECT event_id, name, layout_data, fingerprint, total_seats, owner_id, updated_at
	           FROM seat_maps WHERE event_id = ?`
	var (
		rec  SeatMapRecord
		data []byte
		ms   int64
	)
	err := r.db.QueryRowContext(ctx, q, eventID).
		Scan(&rec.EventID, &rec.Name, &data, &rec.Fingerprint, &rec.TotalSeats, &rec.OwnerID, &ms)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Snapshot{}, SeatMapRecord{}, ErrSeatMapNotFound
		}
		return model.Snapshot{}, SeatMapRecord{}, fmt.Errorf("load seat map %d: %w", eventID, err)
	}
	rec.UpdatedAt = time.UnixMilli(ms).UTC()

	snap, err := codec.Unpack(data)
	if err != nil {
		return model.Snapshot{}, SeatMapRecord{}, fmt.Errorf("decode seat map %d: %w", eventID, err)
	}
	occupied, err := r.seats.OccupiedIDs(ctx, eventID)
	if err != nil {
		return model.Snapshot{}, SeatMapRecord{}, fmt.Errorf("load occupancy %d: %w", eventID, err)
	}
	taken := make(map[string]bool, len(occupied))
	for _, id := range occupied {
		taken[id] = true
	}
	for i := range snap.Seats {
		snap.Seats[i].Occupied = taken[snap.Seats[i].ID]
	}
	return snap, rec, nil
}

// Save stores snap as the seat map of an event, replacing any previous one.
// A seat map saved by another owner is not overwritten.
func (r *SeatMapRepo) Save(ctx context.Context, eventID, ownerID uint64, snap model.Snapshot) (SeatMapRecord, error) {
	// occupancy is owned by the seats table, not by the document
	seats := make([]model.Seat, len(snap.Seats))
	for i, s := range snap.Seats {
		s.Occupied = false
		seats[i] = s
	}
	snap.Seats = seats

	blob, err := codec.Pack(snap)
	if err != nil {
		return SeatMapRecord{}, err
	}
	rec := SeatMapRecord{
		EventID:     eventID,
		Name:        snap.Metadata.Name,
		Fingerprint: blob.Fingerprint,
		TotalSeats:  len(snap.Seats),
		OwnerID:     ownerID,
		UpdatedAt:   r.now().UTC().Truncate(time.Millisecond),
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return SeatMapRecord{}, err
	}
	defer tx.Rollback()

	var current uint64
	err = tx.QueryRowContext(ctx, `SELECT owner_id FROM seat_maps WHERE event_id = ?`, eventID).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return SeatMapRecord{}, fmt.Errorf("save seat map %d: %w", eventID, err)
	case current != ownerID:
		return SeatMapRecord{}, ErrForbidden
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM seat_maps WHERE event_id = ?`, eventID); err != nil {
		return SeatMapRecord{}, fmt.Errorf("save seat map %d: %w", eventID, err)
	}
	const ins = `INSERT INTO seat_maps (event_id, name, layout_data, fingerprint, total_seats, owner_id, updated_at)
	             VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, ins, eventID, rec.Name, blob.Data, rec.Fingerprint, rec.TotalSeats, ownerID, rec.UpdatedAt.UnixMilli()); err != nil {
		return SeatMapRecord{}, fmt.Errorf("save seat map %d: %w", eventID, err)
	}
	if err := r.seats.ReplaceTx(ctx, tx, eventID, seats); err != nil {
		return SeatMapRecord{}, fmt.Errorf("save seats %d: %w", eventID, err)
	}
	if err := tx.Commit(); err != nil {
		return SeatMapRecord{}, err
	}
	return rec, nil
}

// Delete removes the seat map and seats of an event owned by ownerID.
func (r *SeatMapRepo) Delete(ctx context.Context, eventID, ownerID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	res, err := tx.ExecContext(ctx, `DELETE FROM seat_maps WHERE event_id = ? AND owner_id = ?`, eventID, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSeatMapNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM seats WHERE event_id = ?`, eventID); err != nil {
		return err
	}
	return tx.Commit()
}
