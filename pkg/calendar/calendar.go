package calendar

import (
	"context"
	"errors"
	"time"
)

// ErrAuthExpired signals that the credential backing a fetcher was rejected by
// the upstream source. Callers use it to trigger a re-authentication flow.
var ErrAuthExpired = errors.New("calendar credential expired, re-authentication is required")

// EventsFetcher fetches all events of one calendar in a time range. An
// implementation handles its own pagination internally; the returned slice is
// complete for the range (up to the implementation's per-source cap).
type EventsFetcher interface {
	FetchEvents(ctx context.Context, calendarID string, from, to time.Time) ([]Event, error)
}
