package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tourist-event-booking/internal/middleware"
)

// EventHandler serves the event catalog.
type EventHandler struct {
	Events EventAPI
}

func NewEventHandler(e EventAPI) *EventHandler {
	return &EventHandler{Events: e}
}

type updateEventReq struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
}

// GetAllEvents: active events by date, paginated.  Responses are cached by
// the route's Redis middleware.
func (h *EventHandler) GetAllEvents(c echo.Context) error {
	p, err := pageFromQuery(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	page, err := h.Events.ListEvents(ctx, p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":      true,
		"currentPage": page.CurrentPage,
		"totalPages":  page.TotalPages,
		"total":       page.Total,
		"events":      page.Events,
	})
}

// UpdateEvent: rename or relocate one of the caller's events.
func (h *EventHandler) UpdateEvent(c echo.Context) error {
	uid, err := caller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", "Invalid event ID")
	if err != nil {
		return err
	}
	var req updateEventReq
	if err := bind(c, &req); err != nil {
		return err
	}
	name, location := blankToNil(req.Name), blankToNil(req.Location)
	if name == nil && location == nil {
		return validationFailed(map[string]string{"name": "name or location is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ev, err := h.Events.UpdateEvent(ctx, uid, middleware.Role(c), id, name, location)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"status": true, "event": ev})
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
