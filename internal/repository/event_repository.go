package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/tourist-event-booking/internal/model"
)

const eventColumns = `e.id, e.business_id, e.name, e.category, e.location, e.date, e.maximum_count,
	e.banner_url, e.hashtag, e.status, e.created_at, e.updated_at`

// EventRepo reads the public event catalog and applies business edits.
// Derived catalog fields (booked tickets, cheapest price) are computed
// in SQL so a page costs a single round trip.
type EventRepo struct {
	db *sqlx.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sqlx.DB) *EventRepo { return &EventRepo{db: db} }

// ListActive returns one page of active events ordered by date ascending.
func (r *EventRepo) ListActive(ctx context.Context, limit, offset int) ([]model.EventListing, error) {
	q := `SELECT ` + eventColumns + `,
		COALESCE((SELECT SUM(b.ticket_count) FROM tourist_event_bookings b WHERE b.event_id = e.id), 0) AS current_booking_count,
		COALESCE((SELECT MIN(p.price) FROM price_categories p WHERE p.event_id = e.id), 0) AS price
	FROM events e
	WHERE e.status = ?
	ORDER BY e.date ASC, e.id ASC
	LIMIT ? OFFSET ?`
	out := make([]model.EventListing, 0)
	if err := r.db.SelectContext(ctx, &out, q, model.EventStatusActive, limit, offset); err != nil {
		return nil, fmt.Errorf("list active events: %w", err)
	}
	return out, nil
}

// CountActive returns the number of active events.
func (r *EventRepo) CountActive(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM events WHERE status = ?", model.EventStatusActive)
	return n, err
}

// GetByID fetches an event regardless of status.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (model.Event, error) {
	var ev model.Event
	err := r.db.GetContext(ctx, &ev, "SELECT "+eventColumns+" FROM events e WHERE e.id = ? LIMIT 1", id)
	return ev, notFound(err)
}

// UpdateNameLocation sets the non-nil fields and returns the fresh row.
func (r *EventRepo) UpdateNameLocation(ctx context.Context, id uint64, name, location *string) (model.Event, error) {
	sets := make([]string, 0, 2)
	args := make([]interface{}, 0, 3)
	if name != nil {
		sets = append(sets, "name = ?")
		args = append(args, strings.TrimSpace(*name))
	}
	if location != nil {
		sets = append(sets, "location = ?")
		args = append(args, strings.TrimSpace(*location))
	}
	if len(sets) > 0 {
		args = append(args, id)
		if _, err := r.db.ExecContext(ctx,
			"UPDATE events SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...); err != nil {
			return model.Event{}, fmt.Errorf("update event %d: %w", id, err)
		}
	}
	return r.GetByID(ctx, id)
}
