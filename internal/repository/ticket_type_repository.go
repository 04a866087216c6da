package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/seatmap-studio/internal/model"
)

// TicketTypeRepo reads the ticket types of an event.  Ticket types are owned
// by the ticketing catalog; this service never writes them.
type TicketTypeRepo struct {
	db *sql.DB
}

// NewTicketTypeRepo constructs a TicketTypeRepo with the given DB handle.
func NewTicketTypeRepo(db *sql.DB) *TicketTypeRepo { return &TicketTypeRepo{db: db} }

// ListByEvent returns the ticket types of an event ordered by price then id.
func (r *TicketTypeRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.TicketType, error) {
	const q = `SELECT id, name, price_cents FROM ticket_types WHERE event_id = ? ORDER BY price_cents, id`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.TicketType{}
	for rows.Next() {
		var tt model.TicketType
		if err := rows.Scan(&tt.ID, &tt.Name, &tt.PriceCents); err != nil {
			return nil, err
		}
		out = append(out, tt)
	}
	return out, rows.Err()
}
