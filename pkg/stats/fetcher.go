package stats

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/studa/studa/pkg/calendar"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the fan-out across calendars.
const DefaultConcurrency = 6

// MultiFetcher fetches events from several calendars through one
// credential-bound fetcher. Workers pull calendar ids from a shared cursor, so
// result order across calendars is not guaranteed. A failure on any calendar
// cancels the remaining fetches and fails the whole call.
type MultiFetcher struct {
	fetcher     calendar.EventsFetcher
	concurrency int
}

func NewMultiFetcher(fetcher calendar.EventsFetcher, concurrency int) *MultiFetcher {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &MultiFetcher{fetcher: fetcher, concurrency: concurrency}
}

func (m *MultiFetcher) FetchAll(ctx context.Context, calendarIDs []string, from, to time.Time) ([]calendar.Event, error) {
	ids := dedupe(calendarIDs)
	if len(ids) == 0 {
		return nil, nil
	}

	workers := m.concurrency
	if workers > len(ids) {
		workers = len(ids)
	}
	log.Debugf("fetching %d calendars with %d workers", len(ids), workers)

	var cursor atomic.Int64
	var mu sync.Mutex
	var all []calendar.Event

	g, ctx := errgroup.WithContext(ctx)
	for range workers {
		g.Go(func() error {
			for {
				next := int(cursor.Add(1)) - 1
				if next >= len(ids) {
					return nil
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				events, err := m.fetcher.FetchEvents(ctx, ids[next], from, to)
				if err != nil {
					return err
				}
				mu.Lock()
				all = append(all, events...)
				mu.Unlock()
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return all, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
