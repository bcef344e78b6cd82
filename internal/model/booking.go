package model

import "time"

// BookingStatusSuccess is the only status written by the booking flow.
const BookingStatusSuccess = "success"

// Booking records a tourist's purchase of tickets in one price
// category of one event.  A tourist holds at most one booking per event.
// Rows are never updated once written.
//
// Fields:
//  ID              – primary key identifier.
//  TouristID       – tourist who booked (tourists.id).
//  EventID         – event being booked.
//  PriceCategoryID – tier the tickets were bought in.
//  TicketCount     – number of tickets.
//  PaymentAmount   – price × ticket count, in whole currency units.
//  PaymentDate     – when the booking was paid.
//  Status          – "success".
type Booking struct {
    ID              uint64    `db:"id" json:"id"`
    TouristID       uint64    `db:"tourist_id" json:"touristId"`
    EventID         uint64    `db:"event_id" json:"eventId"`
    PriceCategoryID uint64    `db:"price_category_id" json:"priceCategoryId"`
    TicketCount     int       `db:"ticket_count" json:"ticketCount"`
    PaymentAmount   int64     `db:"payment_amount" json:"paymentAmount"`
    PaymentDate     time.Time `db:"payment_date" json:"paymentDate"`
    Status          string    `db:"status" json:"status"`
}

// BookingWithEvent is a booking joined with its event and price category.
type BookingWithEvent struct {
    Booking
    Event         Event         `db:"event" json:"event"`
    PriceCategory PriceCategory `db:"price_category" json:"priceCategory"`
}

// BookingTourist is the tourist side of a booking detail.
type BookingTourist struct {
    ID   uint64        `db:"id" json:"id"`
    User PublicProfile `db:"user" json:"user"`
}

// BookingDetail is a single booking with event, price category and the
// booking tourist's public profile.
type BookingDetail struct {
    BookingWithEvent
    Tourist BookingTourist `db:"tourist" json:"tourist"`
}

// BookingRequest is the validated input of the booking workflow.
type BookingRequest struct {
    EventID         uint64
    PriceCategoryID uint64
    TicketCount     int
    PaymentAmount   int64
}
