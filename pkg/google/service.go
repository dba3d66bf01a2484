package google

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/studa/studa/internal/config"
	"github.com/studa/studa/internal/rest"
	"github.com/studa/studa/pkg/calendar"
	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// ErrNoCredential signals a request without a bearer credential.
var ErrNoCredential = errors.New("no credential present, authentication is required")

type CalendarItem struct {
	ID      string
	Summary string
}

// Service builds credential-bound calendar fetchers. The credential is the
// opaque bearer token from the request context; it is never parsed here.
type Service interface {
	FetcherFor(ctx context.Context) (calendar.EventsFetcher, error)
	ListCalendars(ctx context.Context) ([]CalendarItem, error)
}

type ServiceImpl struct {
	fetchCfg config.Fetch
}

func NewService(fetchCfg config.Fetch) *ServiceImpl {
	return &ServiceImpl{fetchCfg: fetchCfg}
}

func (s *ServiceImpl) FetcherFor(ctx context.Context) (calendar.EventsFetcher, error) {
	service, err := s.prepareGoogleService(ctx)
	if err != nil {
		return nil, err
	}
	return newFetcher(service, s.fetchCfg.PageSize, s.fetchCfg.MaxEventsPerSource), nil
}

func (s *ServiceImpl) ListCalendars(ctx context.Context) ([]CalendarItem, error) {
	googleService, err := s.prepareGoogleService(ctx)
	if err != nil {
		return nil, err
	}
	calendars, err := googleService.CalendarList.List().Do()
	if err != nil {
		err := fmt.Errorf("unable to retrieve calendars from Google Calendar: %v", err)
		log.Error(err)
		return nil, err
	}
	var googleCalendars []CalendarItem
	for _, cal := range calendars.Items {
		googleCalendars = append(googleCalendars, CalendarItem{
			ID:      cal.Id,
			Summary: cal.Summary,
		})
	}
	return googleCalendars, nil
}

func (s *ServiceImpl) prepareGoogleService(ctx context.Context) (*gcal.Service, error) {
	token, ok := rest.CredentialFromContext(ctx)
	if !ok {
		log.Debug("request has no credential, authentication is required")
		return nil, ErrNoCredential
	}

	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	service, err := gcal.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		err := fmt.Errorf("unable to create Calendar client: %v", err)
		log.Error(err)
		return nil, err
	}
	return service, nil
}
