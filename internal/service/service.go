// Package service holds the business rules behind each endpoint.  Services
// depend on small store interfaces satisfied by the repository types so
// they can be exercised with in-memory fakes, and they report failures as
// *apperr.Error values that the HTTP layer renders unchanged.
package service

import (
	"context"
	"errors"
	"log"

	"github.com/iliyamo/tourist-event-booking/internal/apperr"
	"github.com/iliyamo/tourist-event-booking/internal/model"
	"github.com/iliyamo/tourist-event-booking/internal/notify"
	"github.com/iliyamo/tourist-event-booking/internal/repository"
)

// UserStore is implemented by repository.UserRepo.
type UserStore interface {
	CreateWithProfile(ctx context.Context, name, email, passwordHash, role string) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	GetAccount(ctx context.Context, id uint64) (model.Account, error)
	EmailTakenByOther(ctx context.Context, email string, userID uint64) (bool, error)
	UpdateProfile(ctx context.Context, id uint64, upd model.ProfileUpdate) error
	TouristProfile(ctx context.Context, touristID uint64) (model.PublicProfile, error)
}

// EventStore is implemented by repository.EventRepo.
type EventStore interface {
	ListActive(ctx context.Context, limit, offset int) ([]model.EventListing, error)
	CountActive(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id uint64) (model.Event, error)
	UpdateNameLocation(ctx context.Context, id uint64, name, location *string) (model.Event, error)
}

// BookingStore is implemented by repository.BookingRepo.
type BookingStore interface {
	InTx(ctx context.Context, fn func(repository.BookingTx) error) error
	ListByTourist(ctx context.Context, touristID uint64, limit, offset int) ([]model.Booking, error)
	CountByTourist(ctx context.Context, touristID uint64) (int, error)
	GetDetail(ctx context.Context, id uint64) (model.BookingDetail, error)
	ListDetailsByTourist(ctx context.Context, touristID uint64) ([]model.BookingWithEvent, error)
}

// Notifier queues an email without blocking.  *notify.Dispatcher
// implements it.
type Notifier interface {
	Dispatch(e notify.Email)
}

// CachePurger drops cached catalog responses after the catalog changes.
type CachePurger interface {
	Purge(ctx context.Context) error
}

type nopNotifier struct{}

func (nopNotifier) Dispatch(notify.Email) {}

type nopPurger struct{}

func (nopPurger) Purge(context.Context) error { return nil }

// purge runs p and logs failures; stale cache entries expire on their own.
func purge(ctx context.Context, p CachePurger) {
	if err := p.Purge(ctx); err != nil {
		log.Printf("cache: purge failed: %v", err)
	}
}

// internal converts an unclassified store error into an InternalError,
// passing *apperr.Error values through.
func internal(err error) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae
	}
	return apperr.Internal(err)
}
