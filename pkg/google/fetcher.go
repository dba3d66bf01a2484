package google

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/studa/studa/internal/metrics"
	"github.com/studa/studa/pkg/calendar"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
)

const (
	minPageSize = 50
	maxPageSize = 1000
)

// Fetcher reads events from Google Calendar through an authenticated service.
// Pagination is internal: pages are requested sequentially per calendar until
// the source reports no continuation token or maxEvents is reached. The cap
// bounds memory and latency against pathological calendars.
type Fetcher struct {
	service   *gcal.Service
	pageSize  int64
	maxEvents int
}

func newFetcher(service *gcal.Service, pageSize, maxEvents int) *Fetcher {
	if pageSize < minPageSize {
		pageSize = minPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return &Fetcher{
		service:   service,
		pageSize:  int64(pageSize),
		maxEvents: maxEvents,
	}
}

func (f *Fetcher) FetchEvents(ctx context.Context, calendarID string, from, to time.Time) ([]calendar.Event, error) {
	var events []calendar.Event
	pageToken := ""

	for {
		call := f.service.Events.List(calendarID).
			TimeMin(from.Format(time.RFC3339)).
			TimeMax(to.Format(time.RFC3339)).
			SingleEvents(true).
			MaxResults(f.pageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		page, err := call.Do()
		if err != nil {
			return nil, mapUpstreamError(calendarID, err)
		}
		metrics.FetchPages.Inc()

		for _, item := range page.Items {
			event, err := toEvent(calendarID, item)
			if err != nil {
				log.Warnf("skipping malformed event %s in calendar %s: %v", item.Id, calendarID, err)
				continue
			}
			events = append(events, event)
		}

		if len(events) >= f.maxEvents {
			log.Warnf("calendar %s reached the %d event cap, truncating", calendarID, f.maxEvents)
			return events[:f.maxEvents], nil
		}
		if page.NextPageToken == "" {
			return events, nil
		}
		pageToken = page.NextPageToken
	}
}

func toEvent(calendarID string, item *gcal.Event) (calendar.Event, error) {
	event := calendar.Event{
		UID:        item.Id,
		CalendarID: calendarID,
		Title:      item.Summary,
	}

	if item.Start == nil || item.End == nil {
		return calendar.Event{}, fmt.Errorf("event has no start or end")
	}

	if item.Start.DateTime != "" {
		start, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			return calendar.Event{}, fmt.Errorf("invalid start time: %w", err)
		}
		end, err := time.Parse(time.RFC3339, item.End.DateTime)
		if err != nil {
			return calendar.Event{}, fmt.Errorf("invalid end time: %w", err)
		}
		event.StartTime = start
		event.EndTime = end
		return event, nil
	}

	// Date-only events are all-day: carried through for bucketing but never
	// counted toward durations.
	start, err := time.Parse(time.DateOnly, item.Start.Date)
	if err != nil {
		return calendar.Event{}, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse(time.DateOnly, item.End.Date)
	if err != nil {
		return calendar.Event{}, fmt.Errorf("invalid end date: %w", err)
	}
	event.StartTime = start
	event.EndTime = end
	event.AllDay = true
	return event, nil
}

func mapUpstreamError(calendarID string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == 401 {
		metrics.FetchErrors.WithLabelValues("auth_expired").Inc()
		log.Infof("Google credential rejected for calendar %s", calendarID)
		return fmt.Errorf("fetching calendar %s: %w", calendarID, calendar.ErrAuthExpired)
	}
	metrics.FetchErrors.WithLabelValues("upstream").Inc()
	err = fmt.Errorf("unable to retrieve events from Google Calendar %s: %w", calendarID, err)
	log.Error(err)
	return err
}
