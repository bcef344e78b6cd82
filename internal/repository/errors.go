// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow the service layer to
// distinguish between different failure scenarios without inspecting
// driver errors itself.
package repository

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert or update would duplicate
// users.email.
var ErrEmailExists = errors.New("email already exists")

// ErrDuplicateBooking is returned when a tourist already holds a booking
// for the event. The unique key on (tourist_id, event_id) raises it even
// when the in-transaction check was bypassed.
var ErrDuplicateBooking = errors.New("event already booked by this user")

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// isDuplicateKey reports whether err is a MySQL unique key violation.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlDuplicateEntry
	}
	return false
}

// notFound maps sql.ErrNoRows to ErrNotFound and leaves other errors intact.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
