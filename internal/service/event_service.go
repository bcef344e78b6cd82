package service

import (
	"context"
	"errors"

	"github.com/iliyamo/tourist-event-booking/internal/apperr"
	"github.com/iliyamo/tourist-event-booking/internal/model"
	"github.com/iliyamo/tourist-event-booking/internal/repository"
	"github.com/iliyamo/tourist-event-booking/internal/utils"
)

// EventService serves the public catalog and business edits to it.
type EventService struct {
	Events EventStore
	Cache  CachePurger
}

func NewEventService(events EventStore, cache CachePurger) *EventService {
	if cache == nil {
		cache = nopPurger{}
	}
	return &EventService{Events: events, Cache: cache}
}

// EventPage is one page of the public catalog.
type EventPage struct {
	CurrentPage int                  `json:"currentPage"`
	TotalPages  int                  `json:"totalPages"`
	Total       int                  `json:"total"`
	Events      []model.EventListing `json:"events"`
}

// ListEvents returns active events ordered by date ascending.
func (s *EventService) ListEvents(ctx context.Context, p utils.Page) (EventPage, error) {
	items, err := s.Events.ListActive(ctx, p.Limit, p.Offset())
	if err != nil {
		return EventPage{}, internal(err)
	}
	total, err := s.Events.CountActive(ctx)
	if err != nil {
		return EventPage{}, internal(err)
	}
	return EventPage{CurrentPage: p.Page, TotalPages: p.TotalPages(total), Total: total, Events: items}, nil
}

// UpdateEvent renames or relocates an event owned by the calling business.
// At least one of name and location must be non-nil.
func (s *EventService) UpdateEvent(ctx context.Context, callerID uint64, role string, eventID uint64, name, location *string) (model.Event, error) {
	if role != model.RoleBusiness {
		return model.Event{}, apperr.Authorization("Only business users can update events")
	}
	if name == nil && location == nil {
		return model.Event{}, apperr.Validation("Nothing to update")
	}
	ev, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Event{}, apperr.NotFound(MsgEventNotFound)
		}
		return model.Event{}, internal(err)
	}
	if ev.BusinessID != callerID {
		return model.Event{}, apperr.Authorization("You can only update your own events")
	}

	updated, err := s.Events.UpdateNameLocation(ctx, eventID, name, location)
	if err != nil {
		return model.Event{}, internal(err)
	}
	purge(ctx, s.Cache)
	return updated, nil
}
