package stats

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/studa/studa/internal/rest"
	"github.com/studa/studa/pkg/calendar"
	"github.com/studa/studa/pkg/google"
	"github.com/studa/studa/pkg/subject"
)

type TodayProgressDTO struct {
	TotalPlanned        float64 `json:"totalPlanned"`
	TotalCompleted      float64 `json:"totalCompleted"`
	PercentageCompleted float64 `json:"percentageCompleted"`
}

type DailyEntryDTO struct {
	Date  string  `json:"date"`
	Label string  `json:"label"`
	Hours float64 `json:"hours"`
}

type DailyStudyTimeDTO struct {
	Entries      []DailyEntryDTO `json:"entries"`
	AverageMonth float64         `json:"averageMonth"`
	AverageWeek  float64         `json:"averageWeek"`
}

type SubjectTimeDTO struct {
	Subject string  `json:"subject"`
	Hours   float64 `json:"hours"`
}

type SubjectDistributionDTO struct {
	SubjectTimes []SubjectTimeDTO `json:"subjectTimes"`
	TotalHours   float64          `json:"totalHours"`
	NumDays      int              `json:"numDays"`
}

type StatsHandler struct {
	statsService     StatsService
	subjects         subject.Config
	defaultCalendars []string
}

func NewStatsHandler(statsService StatsService, subjects subject.Config, defaultCalendars []string) *StatsHandler {
	return &StatsHandler{
		statsService:     statsService,
		subjects:         subjects,
		defaultCalendars: defaultCalendars,
	}
}

func (h *StatsHandler) GetTodayProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.statsService.TodayProgress(r.Context(), h.calendarIDs(r))
	if err != nil {
		writeStatsError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, TodayProgressDTO{
		TotalPlanned:        progress.TotalPlanned,
		TotalCompleted:      progress.TotalCompleted,
		PercentageCompleted: progress.PercentageCompleted,
	})
}

func (h *StatsHandler) GetDailyStudyTime(w http.ResponseWriter, r *http.Request) {
	numDays, ok := parseDays(w, r, 30, 730)
	if !ok {
		return
	}
	subjectFilter := r.URL.Query().Get("subject")
	if subjectFilter != "" && !h.subjects.Has(subjectFilter) {
		rest.WriteError(w, rest.Validation("unknown_subject", "subject is not configured: "+subjectFilter))
		return
	}

	daily, err := h.statsService.DailyStudyTime(r.Context(), h.calendarIDs(r), numDays, subjectFilter)
	if err != nil {
		writeStatsError(w, err)
		return
	}

	entries := make([]DailyEntryDTO, 0, len(daily.Entries))
	for _, e := range daily.Entries {
		entries = append(entries, DailyEntryDTO{Date: e.Date, Label: e.Label, Hours: e.Hours})
	}
	rest.WriteJSON(w, http.StatusOK, DailyStudyTimeDTO{
		Entries:      entries,
		AverageMonth: daily.AverageMonth,
		AverageWeek:  daily.AverageWeek,
	})
}

func (h *StatsHandler) GetSubjectDistribution(w http.ResponseWriter, r *http.Request) {
	numDays, ok := parseDays(w, r, 365, 3650)
	if !ok {
		return
	}

	distribution, err := h.statsService.SubjectDistribution(r.Context(), h.calendarIDs(r), numDays)
	if err != nil {
		writeStatsError(w, err)
		return
	}

	subjectTimes := make([]SubjectTimeDTO, 0, len(distribution.SubjectTimes))
	for _, st := range distribution.SubjectTimes {
		subjectTimes = append(subjectTimes, SubjectTimeDTO{Subject: st.Subject, Hours: st.Hours})
	}
	rest.WriteJSON(w, http.StatusOK, SubjectDistributionDTO{
		SubjectTimes: subjectTimes,
		TotalHours:   distribution.TotalHours,
		NumDays:      distribution.NumDays,
	})
}

// calendarIDs reads the comma separated calendars parameter, falling back to
// the deployment-wide default list when absent.
func (h *StatsHandler) calendarIDs(r *http.Request) []string {
	raw := r.URL.Query().Get("calendars")
	if raw == "" {
		return h.defaultCalendars
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	if len(ids) == 0 {
		return h.defaultCalendars
	}
	return ids
}

func parseDays(w http.ResponseWriter, r *http.Request, fallback, max int) (int, bool) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return fallback, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 || days > max {
		rest.WriteError(w, rest.Validation("invalid_days", "days must be an integer between 1 and "+strconv.Itoa(max)))
		return 0, false
	}
	return days, true
}

func writeStatsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, google.ErrNoCredential):
		rest.WriteError(w, rest.Unauthorized("a bearer credential is required"))
	case errors.Is(err, calendar.ErrAuthExpired):
		rest.WriteError(w, rest.AuthExpired())
	default:
		log.Errorf("aggregation failed: %v", err)
		rest.WriteError(w, rest.Upstream("unable to fetch events from calendar source"))
	}
}
