package studyday

import "time"

// DefaultBoundaryHour is the hour after local midnight at which a new study day
// begins. Activity logged between midnight and this hour counts toward the
// previous calendar date.
const DefaultBoundaryHour = 3

// Window is the [Start, End] range of one study day. End is inclusive and sits
// one millisecond before the next day's Start.
type Window struct {
	Start time.Time
	End   time.Time
}

// WindowFor returns the study-day window containing t, with the day boundary
// offset boundaryHour hours after local midnight. An instant before the
// boundary anchors to the previous calendar date.
func WindowFor(t time.Time, boundaryHour int) Window {
	anchor := t
	if t.Hour() < boundaryHour {
		anchor = t.AddDate(0, 0, -1)
	}
	start := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), boundaryHour, 0, 0, 0, t.Location())
	return Window{
		Start: start,
		End:   start.Add(24*time.Hour - time.Millisecond),
	}
}

// DateKey returns the calendar date anchoring the study day containing t,
// formatted as YYYY-MM-DD. Used to bucket events by study day.
func DateKey(t time.Time, boundaryHour int) string {
	return WindowFor(t, boundaryHour).Start.Format(time.DateOnly)
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}
