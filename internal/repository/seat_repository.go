package repository // repository defines data access for seats

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"strings"      // strings builds the bulk insert

	"github.com/iliyamo/seatmap-studio/internal/model"
)

// seatInsertBatch bounds the rows per INSERT so statements stay below the
// placeholder limits of both drivers.
const seatInsertBatch = 200

// SeatRepo keeps the flat seats table in step with the stored seat maps.
// Booking systems read seats from this table and flip is_occupied; the seat
// map editor never changes occupancy.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// OccupiedIDs returns the ids of occupied seats of an event.
func (r *SeatRepo) OccupiedIDs(ctx context.Context, eventID uint64) ([]string, error) {
	return occupiedIDs(ctx, r.db, eventID)
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func occupiedIDs(ctx context.Context, q queryer, eventID uint64) ([]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT id FROM seats WHERE event_id = ? AND is_occupied = 1 ORDER BY id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountByEvent returns the number of seat rows of an event.
func (r *SeatRepo) CountByEvent(ctx context.Context, eventID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM seats WHERE event_id = ?`, eventID).Scan(&n)
	return n, err
}

// ReplaceTx swaps the seats of an event for seats.  Seats that keep their id
// keep their occupancy.
func (r *SeatRepo) ReplaceTx(ctx context.Context, tx *sql.Tx, eventID uint64, seats []model.Seat) error {
	occupied, err := occupiedIDs(ctx, tx, eventID)
	if err != nil {
		return err
	}
	keep := make(map[string]bool, len(occupied))
	for _, id := range occupied {
		keep[id] = true
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM seats WHERE event_id = ?`, eventID); err != nil {
		return err
	}
	for start := 0; start < len(seats); start += seatInsertBatch {
		end := min(start+seatInsertBatch, len(seats))
		if err := insertSeats(ctx, tx, eventID, seats[start:end], keep); err != nil {
			return err
		}
	}
	return nil
}

func insertSeats(ctx context.Context, tx *sql.Tx, eventID uint64, seats []model.Seat, occupied map[string]bool) error {
	var b strings.Builder
	b.WriteString(`INSERT INTO seats (event_id, id, row_label, seat_number, seat_type, section_id, x, y, is_occupied) VALUES `)
	args := make([]any, 0, len(seats)*9)
	for i, s := range seats {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("(?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args, eventID, s.ID, s.Row, s.Number, string(s.Type), s.SectionID, s.X, s.Y, occupied[s.ID])
	}
	_, err := tx.ExecContext(ctx, b.String(), args...)
	return err
}
