package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/tourist-event-booking/internal/model"
	"github.com/iliyamo/tourist-event-booking/internal/notify"
	"github.com/iliyamo/tourist-event-booking/internal/repository"
)

// memStore is an in-memory stand-in for the three repositories.  InTx
// holds a store-wide mutex, which gives the same serialization the event
// row lock gives in MySQL.
type memStore struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	users    map[uint64]model.User
	events   map[uint64]model.Event
	prices   map[uint64]model.PriceCategory
	bookings []model.Booking
	nextID   uint64
}

func newMemStore() *memStore {
	return &memStore{
		users:  map[uint64]model.User{},
		events: map[uint64]model.Event{},
		prices: map[uint64]model.PriceCategory{},
		nextID: 100,
	}
}

func (m *memStore) addUser(id uint64, name, email, role, hash string) {
	m.users[id] = model.User{ID: id, Name: name, Email: email, Role: role, PasswordHash: hash}
}

// UserStore

func (m *memStore) CreateWithProfile(_ context.Context, name, email, hash, role string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	m.nextID++
	m.users[m.nextID] = model.User{ID: m.nextID, Name: name, Email: email, PasswordHash: hash, Role: role}
	return m.nextID, nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = repository.NormalizeEmail(email)
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (m *memStore) GetAccount(ctx context.Context, id uint64) (model.Account, error) {
	u, err := m.GetByID(ctx, id)
	if err != nil {
		return model.Account{}, err
	}
	a := model.Account{User: u}
	pid := u.ID
	if u.Role == model.RoleTourist {
		a.TouristID = &pid
	} else {
		a.BusinessID = &pid
	}
	return a, nil
}

func (m *memStore) EmailTakenByOther(_ context.Context, email string, id uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email && u.ID != id {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) UpdateProfile(_ context.Context, id uint64, upd model.ProfileUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[id]
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.ContactNo != nil {
		u.ContactNo = upd.ContactNo
	}
	if upd.ImageURL != nil {
		u.ImageURL = upd.ImageURL
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	m.users[id] = u
	return nil
}

func (m *memStore) TouristProfile(_ context.Context, id uint64) (model.PublicProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.Role != model.RoleTourist {
		return model.PublicProfile{}, repository.ErrNotFound
	}
	return model.PublicProfile{ID: u.ID, Name: u.Name, Email: u.Email}, nil
}

// EventStore

func (m *memStore) ListActive(_ context.Context, limit, offset int) ([]model.EventListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]model.EventListing, 0)
	for _, e := range m.events {
		if e.Status != model.EventStatusActive {
			continue
		}
		l := model.EventListing{Event: e}
		for _, b := range m.bookings {
			if b.EventID == e.ID {
				l.CurrentBookingCount += b.TicketCount
			}
		}
		for _, p := range m.prices {
			if p.EventID == e.ID && (l.Price == 0 || p.Price < l.Price) {
				l.Price = p.Price
			}
		}
		all = append(all, l)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date.Before(all[j].Date) })
	if offset >= len(all) {
		return []model.EventListing{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *memStore) CountActive(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.events {
		if e.Status == model.EventStatusActive {
			n++
		}
	}
	return n, nil
}

func (m *memStore) GetByIDEvent(id uint64) (model.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return model.Event{}, repository.ErrNotFound
	}
	return e, nil
}

// eventStore adapts memStore to EventStore; GetByID clashes with UserStore.
type eventStore struct{ *memStore }

func (s eventStore) GetByID(_ context.Context, id uint64) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.GetByIDEvent(id)
}

func (s eventStore) UpdateNameLocation(_ context.Context, id uint64, name, location *string) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.events[id]
	if name != nil {
		e.Name = *name
	}
	if location != nil {
		e.Location = *location
	}
	s.events[id] = e
	return e, nil
}

// BookingStore

func (m *memStore) InTx(_ context.Context, fn func(repository.BookingTx) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	tx := &memTx{m: m}
	if err := fn(tx); err != nil {
		return err
	}
	m.mu.Lock()
	m.bookings = append(m.bookings, tx.pending...)
	m.mu.Unlock()
	return nil
}

func (m *memStore) ListByTourist(_ context.Context, touristID uint64, limit, offset int) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Booking, 0)
	for _, b := range m.bookings {
		if b.TouristID == touristID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaymentDate.After(out[j].PaymentDate) })
	if offset >= len(out) {
		return []model.Booking{}, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (m *memStore) CountByTourist(_ context.Context, touristID uint64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.bookings {
		if b.TouristID == touristID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) GetDetail(_ context.Context, id uint64) (model.BookingDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.ID == id {
			u := m.users[b.TouristID]
			return model.BookingDetail{
				BookingWithEvent: model.BookingWithEvent{Booking: b, Event: m.events[b.EventID], PriceCategory: m.prices[b.PriceCategoryID]},
				Tourist:          model.BookingTourist{ID: u.ID, User: model.PublicProfile{ID: u.ID, Name: u.Name, Email: u.Email}},
			}, nil
		}
	}
	return model.BookingDetail{}, repository.ErrNotFound
}

func (m *memStore) ListDetailsByTourist(_ context.Context, touristID uint64) ([]model.BookingWithEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.BookingWithEvent, 0)
	for _, b := range m.bookings {
		if b.TouristID == touristID {
			out = append(out, model.BookingWithEvent{Booking: b, Event: m.events[b.EventID], PriceCategory: m.prices[b.PriceCategoryID]})
		}
	}
	return out, nil
}

func (m *memStore) ticketsFor(eventID uint64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.bookings {
		if b.EventID == eventID {
			n += b.TicketCount
		}
	}
	return n
}

type memTx struct {
	m       *memStore
	pending []model.Booking
}

func (t *memTx) LockEvent(_ context.Context, id uint64) (model.EventCapacity, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	e, err := t.m.GetByIDEvent(id)
	if err != nil {
		return model.EventCapacity{}, err
	}
	return model.EventCapacity{ID: e.ID, Name: e.Name, MaximumCount: e.MaximumCount}, nil
}

func (t *memTx) HasBooking(_ context.Context, touristID, eventID uint64) (bool, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	for _, b := range t.m.bookings {
		if b.TouristID == touristID && b.EventID == eventID {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) BookedTickets(_ context.Context, eventID uint64) (int, error) {
	return t.m.ticketsFor(eventID), nil
}

func (t *memTx) PriceCategory(_ context.Context, id, eventID uint64) (model.PriceCategory, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	p, ok := t.m.prices[id]
	if !ok || p.EventID != eventID {
		return model.PriceCategory{}, repository.ErrNotFound
	}
	return p, nil
}

func (t *memTx) Insert(_ context.Context, b *model.Booking) error {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	t.m.nextID++
	b.ID = t.m.nextID
	b.PaymentDate = time.Now().UTC().Add(time.Duration(b.ID) * time.Millisecond)
	t.pending = append(t.pending, *b)
	return nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Email
}

func (r *recordingNotifier) Dispatch(e notify.Email) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, e)
}

type countingPurger struct {
	mu sync.Mutex
	n  int
}

func (c *countingPurger) Purge(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return nil
}
