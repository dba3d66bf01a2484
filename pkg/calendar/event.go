package calendar

import "time"

// Event is a single calendar event fetched from an external source. Events are
// read per request and never persisted.
type Event struct {
	UID        string
	CalendarID string
	Title      string
	StartTime  time.Time
	EndTime    time.Time
	// AllDay marks date-only events. They are excluded from all duration math.
	AllDay bool
}

// Duration returns the event length, or zero for all-day events.
func (e Event) Duration() time.Duration {
	if e.AllDay {
		return 0
	}
	return e.EndTime.Sub(e.StartTime)
}
