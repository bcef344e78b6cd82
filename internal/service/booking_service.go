package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/iliyamo/tourist-event-booking/internal/apperr"
	"github.com/iliyamo/tourist-event-booking/internal/model"
	"github.com/iliyamo/tourist-event-booking/internal/notify"
	"github.com/iliyamo/tourist-event-booking/internal/repository"
	"github.com/iliyamo/tourist-event-booking/internal/utils"
)

const (
	MsgOnlyTouristsBook  = "Only tourist users can book events"
	MsgOnlyTouristsView  = "Only tourists can view bookings."
	MsgAlreadyBooked     = "Event already booked by this user"
	MsgEventNotFound     = "Event not found"
	MsgInvalidPrice      = "Invalid price category for the selected event."
	MsgBookingNotFound   = "Booking not found"
	MsgNoTouristBookings = "No bookings found for this tourist"
	msgNotEnoughTickets  = "Not enough tickets available. Only %d left."
	msgIncorrectPayment  = "Incorrect payment amount. Expected %d, got %d"
	msgTicketNotYours    = "You can only download tickets for your own bookings"
	msgUnknownCaller     = "Unauthorized"
	msgAmountTooLarge    = "Payment amount is out of range"

	MsgTicketCountInvalid = "Ticket count must be at least 1"
)

// BookingService runs the booking workflow and the booking queries.
type BookingService struct {
	Users    UserStore
	Bookings BookingStore
	Notifier Notifier
	Cache    CachePurger
}

func NewBookingService(users UserStore, bookings BookingStore, n Notifier, cache CachePurger) *BookingService {
	if n == nil {
		n = nopNotifier{}
	}
	if cache == nil {
		cache = nopPurger{}
	}
	return &BookingService{Users: users, Bookings: bookings, Notifier: n, Cache: cache}
}

// BookingPage is one page of the caller's bookings.
type BookingPage struct {
	CurrentPage int             `json:"currentPage"`
	TotalPages  int             `json:"totalPages"`
	Total       int             `json:"total"`
	Bookings    []model.Booking `json:"bookings"`
}

// tourist resolves the caller and requires a tourist profile.
func (s *BookingService) tourist(ctx context.Context, callerID uint64, denied string) (model.Account, error) {
	a, err := s.Users.GetAccount(ctx, callerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Account{}, apperr.Authentication(msgUnknownCaller)
		}
		return model.Account{}, internal(err)
	}
	if a.Role != model.RoleTourist || a.TouristID == nil {
		return model.Account{}, apperr.Authorization(denied)
	}
	return a, nil
}

// BookEvent books req.TicketCount tickets for the calling tourist.
//
// Checks run in this order and the first failure wins: caller is a
// tourist, no existing booking for the event, event exists, capacity,
// price category belongs to the event, payment equals price × count.
// Everything after the role check runs in one transaction holding a
// row lock on the event, so two bookings of the same event cannot both
// pass the capacity check.
func (s *BookingService) BookEvent(ctx context.Context, callerID uint64, req model.BookingRequest) (model.Booking, error) {
	acct, err := s.tourist(ctx, callerID, MsgOnlyTouristsBook)
	if err != nil {
		return model.Booking{}, err
	}
	if req.TicketCount < 1 {
		return model.Booking{}, apperr.Validation(MsgTicketCountInvalid)
	}
	touristID := *acct.TouristID

	var (
		booking   model.Booking
		eventName string
	)
	err = s.Bookings.InTx(ctx, func(tx repository.BookingTx) error {
		capacity, lockErr := tx.LockEvent(ctx, req.EventID)
		if lockErr != nil && !errors.Is(lockErr, repository.ErrNotFound) {
			return lockErr
		}

		dup, err := tx.HasBooking(ctx, touristID, req.EventID)
		if err != nil {
			return err
		}
		if dup {
			return apperr.Conflict(MsgAlreadyBooked)
		}
		if lockErr != nil {
			return apperr.NotFound(MsgEventNotFound)
		}

		booked, err := tx.BookedTickets(ctx, req.EventID)
		if err != nil {
			return err
		}
		// booked+TicketCount may overflow; compare with what is left.
		left := max(capacity.MaximumCount-booked, 0)
		if req.TicketCount > left {
			return apperr.Validation(fmt.Sprintf(msgNotEnoughTickets, left))
		}

		pc, err := tx.PriceCategory(ctx, req.PriceCategoryID, req.EventID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.Validation(MsgInvalidPrice)
			}
			return err
		}
		if pc.Price > 0 && int64(req.TicketCount) > math.MaxInt64/pc.Price {
			return apperr.Validation(msgAmountTooLarge)
		}
		expected := pc.Price * int64(req.TicketCount)
		if expected != req.PaymentAmount {
			return apperr.Validation(fmt.Sprintf(msgIncorrectPayment, expected, req.PaymentAmount))
		}

		booking = model.Booking{
			TouristID:       touristID,
			EventID:         req.EventID,
			PriceCategoryID: pc.ID,
			TicketCount:     req.TicketCount,
			PaymentAmount:   req.PaymentAmount,
			Status:          model.BookingStatusSuccess,
		}
		eventName = capacity.Name
		return tx.Insert(ctx, &booking)
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateBooking) {
			return model.Booking{}, apperr.Conflict(MsgAlreadyBooked)
		}
		return model.Booking{}, internal(err)
	}

	s.Notifier.Dispatch(notify.BookingConfirmation(acct.Email, acct.Name, eventName, booking.TicketCount, booking.PaymentAmount))
	purge(ctx, s.Cache)
	return booking, nil
}

// ListForCaller returns one page of the calling tourist's bookings,
// newest payment first.
func (s *BookingService) ListForCaller(ctx context.Context, callerID uint64, p utils.Page) (BookingPage, error) {
	acct, err := s.tourist(ctx, callerID, MsgOnlyTouristsView)
	if err != nil {
		return BookingPage{}, err
	}
	touristID := *acct.TouristID

	items, err := s.Bookings.ListByTourist(ctx, touristID, p.Limit, p.Offset())
	if err != nil {
		return BookingPage{}, internal(err)
	}
	total, err := s.Bookings.CountByTourist(ctx, touristID)
	if err != nil {
		return BookingPage{}, internal(err)
	}
	return BookingPage{
		CurrentPage: p.Page,
		TotalPages:  p.TotalPages(total),
		Total:       total,
		Bookings:    items,
	}, nil
}

// GetBooking returns a booking with event, price category and tourist.
func (s *BookingService) GetBooking(ctx context.Context, id uint64) (model.BookingDetail, error) {
	d, err := s.Bookings.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.BookingDetail{}, apperr.NotFound(MsgBookingNotFound)
		}
		return model.BookingDetail{}, internal(err)
	}
	return d, nil
}

// ListByTourist returns every booking of a tourist.  An empty result is
// reported as NotFound rather than an empty list.
func (s *BookingService) ListByTourist(ctx context.Context, touristID uint64) ([]model.BookingWithEvent, error) {
	items, err := s.Bookings.ListDetailsByTourist(ctx, touristID)
	if err != nil {
		return nil, internal(err)
	}
	if len(items) == 0 {
		return nil, apperr.NotFound(MsgNoTouristBookings)
	}
	return items, nil
}

// TicketFor loads a booking for ticket rendering.  Only the tourist who
// holds the booking may fetch it.
func (s *BookingService) TicketFor(ctx context.Context, callerID, bookingID uint64) (model.BookingDetail, error) {
	acct, err := s.tourist(ctx, callerID, MsgOnlyTouristsView)
	if err != nil {
		return model.BookingDetail{}, err
	}
	d, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return model.BookingDetail{}, err
	}
	if d.TouristID != *acct.TouristID {
		return model.BookingDetail{}, apperr.Authorization(msgTicketNotYours)
	}
	return d, nil
}
