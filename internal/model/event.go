package model

import "time"

// EventStatusActive marks events visible in the public catalog.
const EventStatusActive = "active"

// Event is a bookable happening owned by a business.  MaximumCount is
// the hard ceiling on the sum of ticket counts across its bookings.
//
// Fields:
//  ID           – primary key identifier.
//  BusinessID   – owning business (users.id of a BUSINESS user).
//  Name         – event title.
//  Category     – free-form category label.
//  Location     – venue description.
//  Date         – when the event takes place (UTC).
//  MaximumCount – total tickets that can be sold.
//  BannerURL    – optional banner image.
//  Hashtag      – optional hashtag.
//  Status       – active, inactive, ...
type Event struct {
    ID           uint64    `db:"id" json:"id"`
    BusinessID   uint64    `db:"business_id" json:"businessId"`
    Name         string    `db:"name" json:"name"`
    Category     string    `db:"category" json:"category"`
    Location     string    `db:"location" json:"location"`
    Date         time.Time `db:"date" json:"date"`
    MaximumCount int       `db:"maximum_count" json:"maximumCount"`
    BannerURL    *string   `db:"banner_url" json:"bannerUrl"`
    Hashtag      *string   `db:"hashtag" json:"hashtag"`
    Status       string    `db:"status" json:"status"`
    CreatedAt    time.Time `db:"created_at" json:"createdAt"`
    UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// EventListing is an event row of the public catalog with derived fields.
// Price is the cheapest price category, or 0 when none exist.
type EventListing struct {
    Event
    CurrentBookingCount int   `db:"current_booking_count" json:"currentBookingCount"`
    Price               int64 `db:"price" json:"price"`
}

// PriceCategory is a priced ticket tier belonging to exactly one event.
type PriceCategory struct {
    ID      uint64 `db:"id" json:"id"`
    EventID uint64 `db:"event_id" json:"eventId"`
    Name    string `db:"name" json:"name"`
    Price   int64  `db:"price" json:"price"`
}

// EventCapacity is the locked view of an event used while booking.
type EventCapacity struct {
    ID           uint64 `db:"id"`
    Name         string `db:"name"`
    MaximumCount int    `db:"maximum_count"`
    Booked       int    `db:"booked"`
}

// Remaining returns the number of tickets still available.
func (c EventCapacity) Remaining() int {
    return c.MaximumCount - c.Booked
}
