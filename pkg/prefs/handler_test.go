package prefs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studa/studa/internal/rest"
)

func setupHandler(provisioned bool) (*Handler, *StubRepository) {
	repo := NewStubRepository(provisioned)
	return NewHandler(NewService(repo)), repo
}

func requestWithUser(req *http.Request, userID string) *http.Request {
	ctx := rest.WithUserID(req.Context(), userID)
	return req.WithContext(ctx)
}

func TestGetPreferences_RequiresUserIdentity(t *testing.T) {
	// given
	handler, _ := setupHandler(true)
	req := httptest.NewRequest(http.MethodGet, "/api/preferences", nil)
	w := httptest.NewRecorder()

	// when
	handler.GetPreferences(w, req)

	// then
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetPreferences_ReturnsStoredDocument(t *testing.T) {
	// given
	handler, repo := setupHandler(true)
	err := repo.Upsert(context.Background(), Preferences{
		UserID: "user-1",
		Data:   json.RawMessage(`{"theme":"dark"}`),
	})
	require.NoError(t, err)

	req := requestWithUser(httptest.NewRequest(http.MethodGet, "/api/preferences", nil), "user-1")
	w := httptest.NewRecorder()

	// when
	handler.GetPreferences(w, req)

	// then
	assert.Equal(t, http.StatusOK, w.Code)
	var response preferencesResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.JSONEq(t, `{"theme":"dark"}`, string(response.Preferences))
	assert.False(t, response.Disabled)
}

func TestGetPreferences_ReportsDisabledWhenNotProvisioned(t *testing.T) {
	// given
	handler, _ := setupHandler(false)
	req := requestWithUser(httptest.NewRequest(http.MethodGet, "/api/preferences", nil), "user-1")
	w := httptest.NewRecorder()

	// when
	handler.GetPreferences(w, req)

	// then
	assert.Equal(t, http.StatusOK, w.Code)
	var response preferencesResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.True(t, response.Disabled)
}

func TestUpdatePreferences_RejectsInvalidJSON(t *testing.T) {
	// given
	handler, _ := setupHandler(true)
	req := requestWithUser(
		httptest.NewRequest(http.MethodPut, "/api/preferences", strings.NewReader("{not json")),
		"user-1",
	)
	w := httptest.NewRecorder()

	// when
	handler.UpdatePreferences(w, req)

	// then
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var apiErr rest.APIError
	require.NoError(t, json.NewDecoder(w.Body).Decode(&apiErr))
	assert.Equal(t, "invalid_json", apiErr.Code)
}

func TestUpdatePreferences_PersistsDocument(t *testing.T) {
	// given
	handler, repo := setupHandler(true)
	req := requestWithUser(
		httptest.NewRequest(http.MethodPut, "/api/preferences", strings.NewReader(`{"theme":"light"}`)),
		"user-1",
	)
	w := httptest.NewRecorder()

	// when
	handler.UpdatePreferences(w, req)

	// then
	assert.Equal(t, http.StatusOK, w.Code)
	var response saveResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.True(t, response.Persisted)

	stored, err := repo.Get(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.JSONEq(t, `{"theme":"light"}`, string(stored.Data))
}

func TestUpdatePreferences_AcknowledgesWithoutPersistingWhenNotProvisioned(t *testing.T) {
	// given
	handler, _ := setupHandler(false)
	req := requestWithUser(
		httptest.NewRequest(http.MethodPut, "/api/preferences", strings.NewReader(`{"theme":"light"}`)),
		"user-1",
	)
	w := httptest.NewRecorder()

	// when
	handler.UpdatePreferences(w, req)

	// then
	assert.Equal(t, http.StatusOK, w.Code)
	var response saveResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.False(t, response.Persisted)
}
