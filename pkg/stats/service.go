package stats

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/studa/studa/internal/utils"
	"github.com/studa/studa/pkg/calendar"
	"github.com/studa/studa/pkg/interval"
	"github.com/studa/studa/pkg/studyday"
	"github.com/studa/studa/pkg/subject"
)

type TodayProgress struct {
	TotalPlanned        float64
	TotalCompleted      float64
	PercentageCompleted float64
}

type DailyEntry struct {
	Date  string
	Label string
	Hours float64
}

type DailyStudyTime struct {
	Entries      []DailyEntry
	AverageMonth float64
	AverageWeek  float64
}

type SubjectTime struct {
	Subject string
	Hours   float64
}

type SubjectDistribution struct {
	SubjectTimes []SubjectTime
	TotalHours   float64
	NumDays      int
}

// FetcherProvider yields an events fetcher bound to the credential carried in
// the request context.
type FetcherProvider interface {
	FetcherFor(ctx context.Context) (calendar.EventsFetcher, error)
}

type StatsService interface {
	TodayProgress(ctx context.Context, calendarIDs []string) (TodayProgress, error)
	DailyStudyTime(ctx context.Context, calendarIDs []string, numDays int, subjectFilter string) (DailyStudyTime, error)
	SubjectDistribution(ctx context.Context, calendarIDs []string, numDays int) (SubjectDistribution, error)
}

type StatsServiceImpl struct {
	provider     FetcherProvider
	subjects     subject.Config
	boundaryHour int
	concurrency  int
	clock        utils.Clock
}

func NewStatsServiceImpl(provider FetcherProvider, subjects subject.Config, boundaryHour, concurrency int, clock utils.Clock) *StatsServiceImpl {
	return &StatsServiceImpl{
		provider:     provider,
		subjects:     subjects,
		boundaryHour: boundaryHour,
		concurrency:  concurrency,
		clock:        clock,
	}
}

func (s *StatsServiceImpl) fetchAll(ctx context.Context, calendarIDs []string, from, to time.Time) ([]calendar.Event, error) {
	fetcher, err := s.provider.FetcherFor(ctx)
	if err != nil {
		return nil, err
	}
	return NewMultiFetcher(fetcher, s.concurrency).FetchAll(ctx, calendarIDs, from, to)
}

// TodayProgress computes planned vs completed study time for the current
// study day. Planned time is interval-merged so overlapping events are not
// double counted. Completed time is deliberately NOT merged: overlapping
// completed segments add up, matching the observed behavior of the source
// system (see the 116.7% scenario in the tests).
func (s *StatsServiceImpl) TodayProgress(ctx context.Context, calendarIDs []string) (TodayProgress, error) {
	now := s.clock.Now()
	window := studyday.WindowFor(now, s.boundaryHour)

	events, err := s.fetchAll(ctx, calendarIDs, window.Start, window.End)
	if err != nil {
		return TodayProgress{}, fmt.Errorf("fetching today's events: %w", err)
	}

	var planned []interval.Interval
	var completed time.Duration
	for _, event := range events {
		if event.AllDay || !s.subjects.MatchesAny(event.Title) {
			continue
		}
		planned = append(planned, interval.Interval{Start: event.StartTime, End: event.EndTime})
		completed += completedDuration(event, now)
	}

	totalPlanned := interval.TotalDuration(interval.Merge(planned)).Hours()
	totalCompleted := completed.Hours()

	percentage := 100.0
	if totalPlanned > 0 {
		percentage = 100 * totalCompleted / totalPlanned
	}
	log.Debugf("today's progress: planned=%.2fh completed=%.2fh", totalPlanned, totalCompleted)

	return TodayProgress{
		TotalPlanned:        totalPlanned,
		TotalCompleted:      totalCompleted,
		PercentageCompleted: percentage,
	}, nil
}

// DailyStudyTime builds one bucket per study day for the numDays days ending
// today. Events in today's bucket only count time already elapsed; past days
// count full event durations. With subjectFilter set, only events classified
// to that exact subject are counted.
func (s *StatsServiceImpl) DailyStudyTime(ctx context.Context, calendarIDs []string, numDays int, subjectFilter string) (DailyStudyTime, error) {
	now := s.clock.Now()
	todayWindow := studyday.WindowFor(now, s.boundaryHour)
	firstStart := todayWindow.Start.AddDate(0, 0, -(numDays - 1))

	events, err := s.fetchAll(ctx, calendarIDs, firstStart, now)
	if err != nil {
		return DailyStudyTime{}, fmt.Errorf("fetching daily events: %w", err)
	}

	hoursByDate := make(map[string]float64, numDays)
	todayKey := todayWindow.Start.Format(time.DateOnly)
	for _, event := range events {
		if event.AllDay {
			continue
		}
		name, ok := s.subjects.Classify(event.Title)
		if !ok || (subjectFilter != "" && name != subjectFilter) {
			continue
		}

		key := studyday.DateKey(event.StartTime, s.boundaryHour)
		duration := event.Duration()
		if key == todayKey {
			duration = completedDuration(event, now)
		}
		hoursByDate[key] += duration.Hours()
	}

	entries := make([]DailyEntry, 0, numDays)
	for i := 0; i < numDays; i++ {
		dayStart := firstStart.AddDate(0, 0, i)
		key := dayStart.Format(time.DateOnly)
		entries = append(entries, DailyEntry{
			Date:  key,
			Label: dayStart.Format("Mon, Jan 2"),
			Hours: round2(hoursByDate[key]),
		})
	}

	weekEntries := entries
	if len(weekEntries) > 7 {
		weekEntries = weekEntries[len(weekEntries)-7:]
	}

	return DailyStudyTime{
		Entries:      entries,
		AverageMonth: round2(averageHours(entries)),
		AverageWeek:  round2(averageHours(weekEntries)),
	}, nil
}

// SubjectDistribution sums full event durations per subject over the last
// numDays days counted back from now (a continuous range, not aligned to
// study-day boundaries). Every configured subject appears in the result, with
// zero hours when nothing matched it.
func (s *StatsServiceImpl) SubjectDistribution(ctx context.Context, calendarIDs []string, numDays int) (SubjectDistribution, error) {
	now := s.clock.Now()
	from := now.AddDate(0, 0, -numDays)

	events, err := s.fetchAll(ctx, calendarIDs, from, now)
	if err != nil {
		return SubjectDistribution{}, fmt.Errorf("fetching events for distribution: %w", err)
	}

	hoursBySubject := make(map[string]float64, len(s.subjects))
	for _, event := range events {
		if event.AllDay {
			continue
		}
		name, ok := s.subjects.Classify(event.Title)
		if !ok {
			continue
		}
		hoursBySubject[name] += event.Duration().Hours()
	}

	subjectTimes := make([]SubjectTime, 0, len(s.subjects))
	total := 0.0
	for _, name := range s.subjects.Names() {
		hours := hoursBySubject[name]
		total += hours
		subjectTimes = append(subjectTimes, SubjectTime{Subject: name, Hours: round2(hours)})
	}
	sort.SliceStable(subjectTimes, func(i, j int) bool {
		return subjectTimes[i].Hours > subjectTimes[j].Hours
	})

	return SubjectDistribution{
		SubjectTimes: subjectTimes,
		TotalHours:   round2(total),
		NumDays:      numDays,
	}, nil
}

// completedDuration is the elapsed part of an event as of now: the full
// duration once it ended, zero before it starts.
func completedDuration(event calendar.Event, now time.Time) time.Duration {
	if !event.StartTime.Before(now) {
		return 0
	}
	end := event.EndTime
	if end.After(now) {
		end = now
	}
	return end.Sub(event.StartTime)
}

func averageHours(entries []DailyEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range entries {
		sum += e.Hours
	}
	return sum / float64(len(entries))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
