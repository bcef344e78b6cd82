package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/tourist-event-booking/internal/model"
)

// BookingTx is the set of store operations the booking workflow runs
// inside one transaction.  LockEvent must be the first call: it takes a
// row lock on the event so concurrent bookings of the same event
// serialize on it until commit.
type BookingTx interface {
	LockEvent(ctx context.Context, eventID uint64) (model.EventCapacity, error)
	HasBooking(ctx context.Context, touristID, eventID uint64) (bool, error)
	BookedTickets(ctx context.Context, eventID uint64) (int, error)
	PriceCategory(ctx context.Context, priceCategoryID, eventID uint64) (model.PriceCategory, error)
	Insert(ctx context.Context, b *model.Booking) error
}

// BookingRepo persists tourist_event_bookings and reads them back joined
// with their event, price category and tourist.
type BookingRepo struct {
	db *sqlx.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sqlx.DB) *BookingRepo { return &BookingRepo{db: db} }

// InTx runs fn in a transaction.  The transaction commits when fn returns
// nil and rolls back otherwise.
func (r *BookingRepo) InTx(ctx context.Context, fn func(BookingTx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin booking tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(&bookingTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateBooking
		}
		return fmt.Errorf("commit booking tx: %w", err)
	}
	committed = true
	return nil
}

type bookingTx struct {
	tx *sqlx.Tx
}

func (b *bookingTx) LockEvent(ctx context.Context, eventID uint64) (model.EventCapacity, error) {
	var c model.EventCapacity
	err := b.tx.GetContext(ctx, &c,
		"SELECT id, name, maximum_count FROM events WHERE id = ? FOR UPDATE", eventID)
	return c, notFound(err)
}

func (b *bookingTx) HasBooking(ctx context.Context, touristID, eventID uint64) (bool, error) {
	var n int
	err := b.tx.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM tourist_event_bookings WHERE tourist_id = ? AND event_id = ?",
		touristID, eventID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (b *bookingTx) BookedTickets(ctx context.Context, eventID uint64) (int, error) {
	var n int
	err := b.tx.GetContext(ctx, &n,
		"SELECT COALESCE(SUM(ticket_count), 0) FROM tourist_event_bookings WHERE event_id = ?", eventID)
	return n, err
}

func (b *bookingTx) PriceCategory(ctx context.Context, priceCategoryID, eventID uint64) (model.PriceCategory, error) {
	var pc model.PriceCategory
	err := b.tx.GetContext(ctx, &pc,
		"SELECT id, event_id, name, price FROM price_categories WHERE id = ? AND event_id = ? LIMIT 1",
		priceCategoryID, eventID)
	return pc, notFound(err)
}

func (b *bookingTx) Insert(ctx context.Context, bk *model.Booking) error {
	if bk.PaymentDate.IsZero() {
		bk.PaymentDate = time.Now().UTC()
	}
	if bk.Status == "" {
		bk.Status = model.BookingStatusSuccess
	}
	res, err := b.tx.NamedExecContext(ctx,
		`INSERT INTO tourist_event_bookings
			(tourist_id, event_id, price_category_id, ticket_count, payment_amount, payment_date, status)
		VALUES (:tourist_id, :event_id, :price_category_id, :ticket_count, :payment_amount, :payment_date, :status)`, bk)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateBooking
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	bk.ID = uint64(id)
	return nil
}

const bookingColumns = `b.id, b.tourist_id, b.event_id, b.price_category_id, b.ticket_count,
	b.payment_amount, b.payment_date, b.status`

// nested builds "alias.col AS `prefix.col`" selections so sqlx can fill
// nested structs tagged with prefix.
func nested(alias, prefix string, cols ...string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprintf("%s.%s AS `%s.%s`", alias, c, prefix, c)
	}
	return strings.Join(parts, ", ")
}

var (
	eventNested = nested("e", "event", "id", "business_id", "name", "category", "location", "date",
		"maximum_count", "banner_url", "hashtag", "status", "created_at", "updated_at")
	priceNested   = nested("p", "price_category", "id", "event_id", "name", "price")
	touristNested = "t.id AS `tourist.id`, " +
		nested("u", "tourist.user", "id", "name", "email", "contact_no", "image_url")
)

const bookingJoins = `FROM tourist_event_bookings b
	JOIN events e ON e.id = b.event_id
	JOIN price_categories p ON p.id = b.price_category_id`

// ListByTourist returns one page of a tourist's bookings, newest payment first.
func (r *BookingRepo) ListByTourist(ctx context.Context, touristID uint64, limit, offset int) ([]model.Booking, error) {
	out := make([]model.Booking, 0)
	err := r.db.SelectContext(ctx, &out,
		"SELECT "+bookingColumns+" FROM tourist_event_bookings b"+
			" WHERE b.tourist_id = ? ORDER BY b.payment_date DESC, b.id DESC LIMIT ? OFFSET ?",
		touristID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list bookings of tourist %d: %w", touristID, err)
	}
	return out, nil
}

// CountByTourist returns the number of bookings a tourist holds.
func (r *BookingRepo) CountByTourist(ctx context.Context, touristID uint64) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM tourist_event_bookings WHERE tourist_id = ?", touristID)
	return n, err
}

// GetDetail loads a booking with its event, price category and tourist.
func (r *BookingRepo) GetDetail(ctx context.Context, id uint64) (model.BookingDetail, error) {
	var d model.BookingDetail
	err := r.db.GetContext(ctx, &d,
		"SELECT "+bookingColumns+", "+eventNested+", "+priceNested+", "+touristNested+" "+
			bookingJoins+
			" JOIN tourists t ON t.id = b.tourist_id"+
			" JOIN users u ON u.id = t.id"+
			" WHERE b.id = ? LIMIT 1", id)
	return d, notFound(err)
}

// ListDetailsByTourist returns every booking of a tourist with event and
// price category, newest payment first.
func (r *BookingRepo) ListDetailsByTourist(ctx context.Context, touristID uint64) ([]model.BookingWithEvent, error) {
	out := make([]model.BookingWithEvent, 0)
	err := r.db.SelectContext(ctx, &out,
		"SELECT "+bookingColumns+", "+eventNested+", "+priceNested+" "+
			bookingJoins+
			" WHERE b.tourist_id = ? ORDER BY b.payment_date DESC, b.id DESC", touristID)
	if err != nil {
		return nil, fmt.Errorf("list booking details of tourist %d: %w", touristID, err)
	}
	return out, nil
}
