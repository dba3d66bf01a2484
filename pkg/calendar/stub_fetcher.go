package calendar

import (
	"context"
	"sort"
	"sync"
	"time"
)

// StubFetcher is an in-memory EventsFetcher for tests. It is safe for
// concurrent use because the multi-source fetcher calls it from several
// goroutines.
type StubFetcher struct {
	mu     sync.Mutex
	events map[string][]Event
	errors map[string]error
	calls  []string
}

func NewStubFetcher() *StubFetcher {
	return &StubFetcher{
		events: map[string][]Event{},
		errors: map[string]error{},
	}
}

func (f *StubFetcher) AddEvent(event Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events[event.CalendarID] = append(f.events[event.CalendarID], event)
}

// FailWith makes every fetch of the given calendar return err.
func (f *StubFetcher) FailWith(calendarID string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors[calendarID] = err
}

// Calls returns the calendar ids fetched so far, in call order.
func (f *StubFetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.calls...)
}

func (f *StubFetcher) Cleanup() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = map[string][]Event{}
	f.errors = map[string]error{}
	f.calls = nil
}

func (f *StubFetcher) FetchEvents(_ context.Context, calendarID string, from, to time.Time) ([]Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, calendarID)

	if err := f.errors[calendarID]; err != nil {
		return nil, err
	}

	var events []Event
	for _, event := range f.events[calendarID] {
		if event.AllDay || (event.StartTime.Before(to) && event.EndTime.After(from)) {
			events = append(events, event)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})
	return events, nil
}
