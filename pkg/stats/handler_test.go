package stats

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studa/studa/internal/rest"
	"github.com/studa/studa/pkg/calendar"
	"github.com/studa/studa/pkg/google"
	"github.com/studa/studa/pkg/subject"
)

type stubStatsService struct {
	todayProgress TodayProgress
	daily         DailyStudyTime
	distribution  SubjectDistribution
	err           error

	calendarIDs   []string
	numDays       int
	subjectFilter string
}

func (s *stubStatsService) TodayProgress(_ context.Context, calendarIDs []string) (TodayProgress, error) {
	s.calendarIDs = calendarIDs
	return s.todayProgress, s.err
}

func (s *stubStatsService) DailyStudyTime(_ context.Context, calendarIDs []string, numDays int, subjectFilter string) (DailyStudyTime, error) {
	s.calendarIDs = calendarIDs
	s.numDays = numDays
	s.subjectFilter = subjectFilter
	return s.daily, s.err
}

func (s *stubStatsService) SubjectDistribution(_ context.Context, calendarIDs []string, numDays int) (SubjectDistribution, error) {
	s.calendarIDs = calendarIDs
	s.numDays = numDays
	return s.distribution, s.err
}

var handlerSubjects = subject.Config{
	{Name: "Math", Keywords: []string{"math"}},
	{Name: "Reading", Keywords: []string{"read"}},
}

func setupStatsHandler(service *stubStatsService) *StatsHandler {
	return NewStatsHandler(service, handlerSubjects, []string{"primary"})
}

func decodeAPIError(t *testing.T, w *httptest.ResponseRecorder) rest.APIError {
	t.Helper()
	var apiErr rest.APIError
	require.NoError(t, json.NewDecoder(w.Body).Decode(&apiErr))
	return apiErr
}

func TestGetTodayProgress_ReturnsProgress(t *testing.T) {
	// given
	service := &stubStatsService{
		todayProgress: TodayProgress{TotalPlanned: 3, TotalCompleted: 1.5, PercentageCompleted: 50},
	}
	handler := setupStatsHandler(service)
	req := httptest.NewRequest(http.MethodGet, "/api/stats/today", nil)
	w := httptest.NewRecorder()

	// when
	handler.GetTodayProgress(w, req)

	// then
	assert.Equal(t, http.StatusOK, w.Code)
	var dto TodayProgressDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
	assert.Equal(t, 3.0, dto.TotalPlanned)
	assert.Equal(t, 1.5, dto.TotalCompleted)
	assert.Equal(t, 50.0, dto.PercentageCompleted)
	assert.Equal(t, []string{"primary"}, service.calendarIDs)
}

func TestGetTodayProgress_UsesRequestedCalendars(t *testing.T) {
	// given
	service := &stubStatsService{}
	handler := setupStatsHandler(service)
	req := httptest.NewRequest(http.MethodGet, "/api/stats/today?calendars=study%40group.com,%20personal", nil)
	w := httptest.NewRecorder()

	// when
	handler.GetTodayProgress(w, req)

	// then
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"study@group.com", "personal"}, service.calendarIDs)
}

func TestGetTodayProgress_MissingCredential(t *testing.T) {
	// given
	service := &stubStatsService{err: google.ErrNoCredential}
	handler := setupStatsHandler(service)
	req := httptest.NewRequest(http.MethodGet, "/api/stats/today", nil)
	w := httptest.NewRecorder()

	// when
	handler.GetTodayProgress(w, req)

	// then
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", decodeAPIError(t, w).Code)
}

func TestGetTodayProgress_ExpiredCredential(t *testing.T) {
	// given
	service := &stubStatsService{err: calendar.ErrAuthExpired}
	handler := setupStatsHandler(service)
	req := httptest.NewRequest(http.MethodGet, "/api/stats/today", nil)
	w := httptest.NewRecorder()

	// when
	handler.GetTodayProgress(w, req)

	// then
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "auth_expired", decodeAPIError(t, w).Code)
}

func TestGetTodayProgress_UpstreamFailure(t *testing.T) {
	// given
	service := &stubStatsService{err: errors.New("calendar source unavailable")}
	handler := setupStatsHandler(service)
	req := httptest.NewRequest(http.MethodGet, "/api/stats/today", nil)
	w := httptest.NewRecorder()

	// when
	handler.GetTodayProgress(w, req)

	// then
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "upstream_failure", decodeAPIError(t, w).Code)
}

func TestGetDailyStudyTime_DefaultsToThirtyDays(t *testing.T) {
	// given
	service := &stubStatsService{daily: DailyStudyTime{Entries: []DailyEntry{}}}
	handler := setupStatsHandler(service)
	req := httptest.NewRequest(http.MethodGet, "/api/stats/daily", nil)
	w := httptest.NewRecorder()

	// when
	handler.GetDailyStudyTime(w, req)

	// then
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 30, service.numDays)
}

func TestGetDailyStudyTime_RejectsDaysOutOfRange(t *testing.T) {
	service := &stubStatsService{}
	handler := setupStatsHandler(service)

	for _, days := range []string{"0", "-3", "731", "abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/stats/daily?days="+days, nil)
		w := httptest.NewRecorder()

		handler.GetDailyStudyTime(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "days=%s", days)
		assert.Equal(t, "invalid_days", decodeAPIError(t, w).Code)
	}
}

func TestGetDailyStudyTime_RejectsUnknownSubject(t *testing.T) {
	// given
	service := &stubStatsService{}
	handler := setupStatsHandler(service)
	req := httptest.NewRequest(http.MethodGet, "/api/stats/daily?subject=History", nil)
	w := httptest.NewRecorder()

	// when
	handler.GetDailyStudyTime(w, req)

	// then
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "unknown_subject", decodeAPIError(t, w).Code)
}

func TestGetDailyStudyTime_PassesSubjectFilter(t *testing.T) {
	// given
	service := &stubStatsService{daily: DailyStudyTime{Entries: []DailyEntry{}}}
	handler := setupStatsHandler(service)
	req := httptest.NewRequest(http.MethodGet, "/api/stats/daily?days=7&subject=Math", nil)
	w := httptest.NewRecorder()

	// when
	handler.GetDailyStudyTime(w, req)

	// then
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7, service.numDays)
	assert.Equal(t, "Math", service.subjectFilter)
}

func TestGetSubjectDistribution_DefaultsToOneYear(t *testing.T) {
	// given
	service := &stubStatsService{
		distribution: SubjectDistribution{
			SubjectTimes: []SubjectTime{{Subject: "Math", Hours: 12.5}, {Subject: "Reading", Hours: 4}},
			TotalHours:   16.5,
			NumDays:      365,
		},
	}
	handler := setupStatsHandler(service)
	req := httptest.NewRequest(http.MethodGet, "/api/stats/subjects", nil)
	w := httptest.NewRecorder()

	// when
	handler.GetSubjectDistribution(w, req)

	// then
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 365, service.numDays)
	var dto SubjectDistributionDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
	require.Len(t, dto.SubjectTimes, 2)
	assert.Equal(t, "Math", dto.SubjectTimes[0].Subject)
	assert.Equal(t, 16.5, dto.TotalHours)
}
