package google

import (
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/studa/studa/internal/rest"
)

type CalendarItemDto struct {
	Id      string `json:"id"`
	Summary string `json:"summary"`
}

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{s}
}

func (h *Handler) ListCalendars(w http.ResponseWriter, r *http.Request) {
	calendars, err := h.service.ListCalendars(r.Context())
	if err != nil {
		if errors.Is(err, ErrNoCredential) {
			rest.WriteError(w, rest.Unauthorized("a bearer credential is required"))
			return
		}
		log.Errorf("failed to list calendars: %v", err)
		rest.WriteError(w, rest.Upstream("unable to list calendars"))
		return
	}

	calendarItems := make([]CalendarItemDto, 0, len(calendars))
	for _, c := range calendars {
		calendarItems = append(calendarItems, toCalendarItemDto(c))
	}
	rest.WriteJSON(w, http.StatusOK, calendarItems)
}

func toCalendarItemDto(ci CalendarItem) CalendarItemDto {
	return CalendarItemDto{
		Id:      ci.ID,
		Summary: ci.Summary,
	}
}
