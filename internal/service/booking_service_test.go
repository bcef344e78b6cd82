package service

import (
	"context"
	"math"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/tourist-event-booking/internal/apperr"
	"github.com/iliyamo/tourist-event-booking/internal/model"
	"github.com/iliyamo/tourist-event-booking/internal/utils"
)

const (
	touristA = uint64(1)
	touristB = uint64(2)
	business = uint64(3)
	eventE   = uint64(10)
	priceP   = uint64(20)
)

func bookingFixture(t *testing.T) (*memStore, *BookingService, *recordingNotifier, *countingPurger) {
	t.Helper()
	m := newMemStore()
	m.addUser(touristA, "Ana", "ana@example.com", model.RoleTourist, "")
	m.addUser(touristB, "Ben", "ben@example.com", model.RoleTourist, "")
	m.addUser(business, "Harbor Events", "biz@example.com", model.RoleBusiness, "")
	m.events[eventE] = model.Event{ID: eventE, BusinessID: business, Name: "Jazz night", MaximumCount: 10, Status: model.EventStatusActive}
	m.prices[priceP] = model.PriceCategory{ID: priceP, EventID: eventE, Name: "Standard", Price: 5}
	n := &recordingNotifier{}
	p := &countingPurger{}
	return m, NewBookingService(m, m, n, p), n, p
}

func wantErr(t *testing.T, err error, status int, msg string) {
	t.Helper()
	ae, ok := apperr.As(err)
	require.True(t, ok, "want *apperr.Error, got %v", err)
	assert.Equal(t, status, ae.Status)
	assert.Equal(t, msg, ae.Message)
}

func TestBookEvent_CapacityScenario(t *testing.T) {
	m, svc, notifier, purger := bookingFixture(t)
	ctx := context.Background()

	b, err := svc.BookEvent(ctx, touristA, model.BookingRequest{EventID: eventE, PriceCategoryID: priceP, TicketCount: 7, PaymentAmount: 35})
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusSuccess, b.Status)
	assert.Equal(t, 7, m.ticketsFor(eventE))
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "ana@example.com", notifier.sent[0].To)
	assert.Equal(t, 1, purger.n)

	_, err = svc.BookEvent(ctx, touristA, model.BookingRequest{EventID: eventE, PriceCategoryID: priceP, TicketCount: 1, PaymentAmount: 5})
	wantErr(t, err, http.StatusConflict, "Event already booked by this user")

	_, err = svc.BookEvent(ctx, touristB, model.BookingRequest{EventID: eventE, PriceCategoryID: priceP, TicketCount: 5, PaymentAmount: 25})
	wantErr(t, err, http.StatusBadRequest, "Not enough tickets available. Only 3 left.")
	assert.Equal(t, 7, m.ticketsFor(eventE))
}

func TestBookEvent_PaymentMismatch(t *testing.T) {
	_, svc, notifier, _ := bookingFixture(t)
	_, err := svc.BookEvent(context.Background(), touristA, model.BookingRequest{EventID: eventE, PriceCategoryID: priceP, TicketCount: 3, PaymentAmount: 14})
	wantErr(t, err, http.StatusBadRequest, "Incorrect payment amount. Expected 15, got 14")
	assert.Empty(t, notifier.sent)
}

func TestBookEvent_ErrorOrder(t *testing.T) {
	m, svc, _, _ := bookingFixture(t)
	m.events[11] = model.Event{ID: 11, BusinessID: business, Name: "Other", MaximumCount: 5, Status: model.EventStatusActive}
	ctx := context.Background()

	_, err := svc.BookEvent(ctx, business, model.BookingRequest{EventID: eventE, PriceCategoryID: priceP, TicketCount: 1, PaymentAmount: 5})
	wantErr(t, err, http.StatusForbidden, "Only tourist users can book events")

	_, err = svc.BookEvent(ctx, touristA, model.BookingRequest{EventID: 999, PriceCategoryID: priceP, TicketCount: 1, PaymentAmount: 5})
	wantErr(t, err, http.StatusNotFound, "Event not found")

	// capacity is checked before the price category
	_, err = svc.BookEvent(ctx, touristA, model.BookingRequest{EventID: 11, PriceCategoryID: priceP, TicketCount: 6, PaymentAmount: 0})
	wantErr(t, err, http.StatusBadRequest, "Not enough tickets available. Only 5 left.")

	// price category of another event
	_, err = svc.BookEvent(ctx, touristA, model.BookingRequest{EventID: 11, PriceCategoryID: priceP, TicketCount: 1, PaymentAmount: 5})
	wantErr(t, err, http.StatusBadRequest, "Invalid price category for the selected event.")
}

func TestBookEvent_HugeTicketCountRejected(t *testing.T) {
	m, svc, notifier, _ := bookingFixture(t)
	ctx := context.Background()

	_, err := svc.BookEvent(ctx, touristA, model.BookingRequest{EventID: eventE, PriceCategoryID: priceP, TicketCount: 7, PaymentAmount: 35})
	require.NoError(t, err)

	// 5*MaxInt64 wraps to this value; it must not slip past the payment check either.
	_, err = svc.BookEvent(ctx, touristB, model.BookingRequest{EventID: eventE, PriceCategoryID: priceP, TicketCount: math.MaxInt64, PaymentAmount: 9223372036854775803})
	wantErr(t, err, http.StatusBadRequest, "Not enough tickets available. Only 3 left.")
	assert.Equal(t, 7, m.ticketsFor(eventE))
	assert.Len(t, notifier.sent, 1)
}

func TestBookEvent_TicketCountBelowOne(t *testing.T) {
	m, svc, _, _ := bookingFixture(t)
	for _, n := range []int{0, -1, math.MinInt} {
		_, err := svc.BookEvent(context.Background(), touristA, model.BookingRequest{EventID: eventE, PriceCategoryID: priceP, TicketCount: n, PaymentAmount: 0})
		wantErr(t, err, http.StatusBadRequest, MsgTicketCountInvalid)
	}
	assert.Equal(t, 0, m.ticketsFor(eventE))
}

func TestBookEvent_AmountOverflowRejected(t *testing.T) {
	m, svc, _, _ := bookingFixture(t)
	m.events[12] = model.Event{ID: 12, BusinessID: business, Name: "Stadium", MaximumCount: math.MaxInt, Status: model.EventStatusActive}
	m.prices[21] = model.PriceCategory{ID: 21, EventID: 12, Name: "Gold", Price: 1 << 40}

	_, err := svc.BookEvent(context.Background(), touristA, model.BookingRequest{EventID: 12, PriceCategoryID: 21, TicketCount: 1 << 30, PaymentAmount: 0})
	wantErr(t, err, http.StatusBadRequest, "Payment amount is out of range")
	assert.Equal(t, 0, m.ticketsFor(12))
}

// Exercises the memStore transaction mutex only. The SELECT ... FOR UPDATE
// row lock is asserted by TestBookingInTx_CommitsInsert in the repository
// package.
func TestBookEvent_ConcurrentCallsRespectCapacityInFake(t *testing.T) {
	m, svc, _, _ := bookingFixture(t)
	for i := uint64(0); i < 8; i++ {
		m.addUser(200+i, "T", "t"+string(rune('a'+i))+"@example.com", model.RoleTourist, "")
	}

	var wg sync.WaitGroup
	for i := uint64(0); i < 8; i++ {
		wg.Add(1)
		go func(id uint64) {
			defer wg.Done()
			_, _ = svc.BookEvent(context.Background(), id, model.BookingRequest{EventID: eventE, PriceCategoryID: priceP, TicketCount: 3, PaymentAmount: 15})
		}(200 + i)
	}
	wg.Wait()
	assert.LessOrEqual(t, m.ticketsFor(eventE), 10)
	assert.Equal(t, 9, m.ticketsFor(eventE))
}

func TestListForCaller_Pagination(t *testing.T) {
	m, svc, _, _ := bookingFixture(t)
	for i := uint64(0); i < 12; i++ {
		eid := 300 + i
		m.events[eid] = model.Event{ID: eid, BusinessID: business, Name: "E", MaximumCount: 100, Date: time.Now(), Status: model.EventStatusActive}
		m.prices[400+i] = model.PriceCategory{ID: 400 + i, EventID: eid, Price: 2}
		_, err := svc.BookEvent(context.Background(), touristA, model.BookingRequest{EventID: eid, PriceCategoryID: 400 + i, TicketCount: 1, PaymentAmount: 2})
		require.NoError(t, err)
	}

	page, err := svc.ListForCaller(context.Background(), touristA, utils.Page{Page: 2, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 12, page.Total)
	require.Len(t, page.Bookings, 5)
	assert.True(t, !page.Bookings[0].PaymentDate.Before(page.Bookings[4].PaymentDate))

	_, err = svc.ListForCaller(context.Background(), business, utils.Page{Page: 1, Limit: 10})
	wantErr(t, err, http.StatusForbidden, "Only tourists can view bookings.")
}

func TestGetBookingAndTicket(t *testing.T) {
	_, svc, _, _ := bookingFixture(t)
	ctx := context.Background()
	b, err := svc.BookEvent(ctx, touristA, model.BookingRequest{EventID: eventE, PriceCategoryID: priceP, TicketCount: 2, PaymentAmount: 10})
	require.NoError(t, err)

	d, err := svc.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jazz night", d.Event.Name)
	assert.Equal(t, "Ana", d.Tourist.User.Name)

	_, err = svc.GetBooking(ctx, 9999)
	wantErr(t, err, http.StatusNotFound, "Booking not found")

	_, err = svc.TicketFor(ctx, touristA, b.ID)
	require.NoError(t, err)
	_, err = svc.TicketFor(ctx, touristB, b.ID)
	ae, _ := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusForbidden, ae.Status)
}

func TestListByTourist_EmptyIsNotFound(t *testing.T) {
	_, svc, _, _ := bookingFixture(t)
	_, err := svc.ListByTourist(context.Background(), touristB)
	wantErr(t, err, http.StatusNotFound, "No bookings found for this tourist")
}
