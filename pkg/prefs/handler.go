package prefs

import (
	"encoding/json"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/studa/studa/internal/rest"
)

type preferencesResponse struct {
	Preferences json.RawMessage `json:"preferences"`
	Disabled    bool            `json:"disabled,omitempty"`
	RequestID   string          `json:"requestId,omitempty"`
}

type saveResponse struct {
	Persisted bool   `json:"persisted"`
	RequestID string `json:"requestId,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := rest.UserIDFromContext(r.Context())
	if !ok {
		rest.WriteError(w, rest.Unauthorized("a user identity is required"))
		return
	}

	result, err := h.service.Get(r.Context(), userID)
	if err != nil {
		log.Errorf("failed to read preferences: %v", err)
		rest.WriteError(w, rest.Upstream("unable to read preferences"))
		return
	}

	response := preferencesResponse{
		Disabled:  result.Disabled,
		RequestID: rest.RequestIDFromContext(r.Context()),
	}
	if result.Preferences != nil {
		response.Preferences = result.Preferences.Data
	}
	rest.WriteJSON(w, http.StatusOK, response)
}

func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := rest.UserIDFromContext(r.Context())
	if !ok {
		rest.WriteError(w, rest.Unauthorized("a user identity is required"))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		rest.WriteError(w, rest.Validation("unreadable_body", "unable to read request body"))
		return
	}
	if !json.Valid(body) {
		rest.WriteError(w, rest.Validation("invalid_json", "request body must be a JSON document"))
		return
	}

	persisted, err := h.service.Save(r.Context(), userID, body)
	if err != nil {
		log.Errorf("failed to save preferences: %v", err)
		rest.WriteError(w, rest.Upstream("unable to save preferences"))
		return
	}
	rest.WriteJSON(w, http.StatusOK, saveResponse{
		Persisted: persisted,
		RequestID: rest.RequestIDFromContext(r.Context()),
	})
}
