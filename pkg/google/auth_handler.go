package google

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/studa/studa/internal/config"
	"github.com/studa/studa/internal/rest"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
)

type googleAuthRedirect struct {
	RedirectUrl string `json:"redirectUrl"`
}

type googleAuthToken struct {
	AccessToken string    `json:"accessToken"`
	Expiry      time.Time `json:"expiry"`
}

// GoogleAuth runs the OAuth consent flow that mints the bearer tokens the
// aggregation endpoints consume. Pending nonces live in memory only; a consent
// flow that outlives a restart just has to be restarted.
type GoogleAuth struct {
	oauthConfig *oauth2.Config

	mu      sync.Mutex
	pending map[string]time.Time
}

func NewGoogleAuth(cfg config.Application) *GoogleAuth {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.Google.ClientId,
		ClientSecret: cfg.Google.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  cfg.Host + "/api/integrations/google/auth/callback",
		Scopes:       []string{gcal.CalendarReadonlyScope},
	}
	return &GoogleAuth{
		oauthConfig: oauthConfig,
		pending:     map[string]time.Time{},
	}
}

func (g *GoogleAuth) OAuthLogin(w http.ResponseWriter, r *http.Request) {
	stateNonce := uuid.New().String()
	finalUrl := r.URL.Query().Get("finalUrl")

	g.mu.Lock()
	// drop stale nonces from abandoned flows
	for nonce, created := range g.pending {
		if time.Since(created) > 15*time.Minute {
			delete(g.pending, nonce)
		}
	}
	g.pending[stateNonce] = time.Now()
	g.mu.Unlock()

	log.Tracef("Redirecting to Google auth URL with nonce: %s", stateNonce)
	u := g.oauthConfig.AuthCodeURL(finalUrl+"|"+stateNonce, oauth2.AccessTypeOffline, oauth2.ApprovalForce)

	rest.WriteJSON(w, http.StatusOK, googleAuthRedirect{RedirectUrl: u})
}

func (g *GoogleAuth) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.FormValue("code")
	state := r.FormValue("state")

	parts := strings.SplitN(state, "|", 2)
	if len(parts) != 2 {
		rest.WriteError(w, rest.Validation("invalid_state", "malformed OAuth state"))
		return
	}
	nonce := parts[1]

	g.mu.Lock()
	_, known := g.pending[nonce]
	delete(g.pending, nonce)
	g.mu.Unlock()
	if !known {
		rest.WriteError(w, rest.Validation("invalid_state", "unknown OAuth state"))
		return
	}

	token, err := g.oauthConfig.Exchange(context.Background(), code)
	if err != nil {
		log.Errorf("unable to exchange code for token: %v", err)
		rest.WriteError(w, rest.Upstream("unable to exchange authorization code"))
		return
	}

	log.Debug("Successfully exchanged Google auth code for nonce: ", nonce)
	rest.WriteJSON(w, http.StatusOK, googleAuthToken{
		AccessToken: token.AccessToken,
		Expiry:      token.Expiry,
	})
}
