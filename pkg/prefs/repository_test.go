package prefs

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studa/studa/internal/test_utils"
)

var openDB func() *sql.DB

func TestMain(m *testing.M) {
	container, open := test_utils.TestWithDB()
	openDB = open
	code := m.Run()
	_ = container.Terminate(context.Background())
	os.Exit(code)
}

func setupRepository(t *testing.T) *RepositoryImpl {
	db := openDB()
	t.Cleanup(func() { db.Close() })
	return NewRepository(db)
}

func TestRepositoryImpl_GetMissingUser(t *testing.T) {
	repository := setupRepository(t)

	prefs, err := repository.Get(context.Background(), "nobody")

	require.NoError(t, err)
	assert.Nil(t, prefs)
}

func TestRepositoryImpl_UpsertAndGet(t *testing.T) {
	// given
	repository := setupRepository(t)
	doc := json.RawMessage(`{"theme": "dark", "dayCutoffHour": 3}`)

	// when
	err := repository.Upsert(context.Background(), Preferences{UserID: "user-upsert", Data: doc})
	require.NoError(t, err)
	stored, err := repository.Get(context.Background(), "user-upsert")

	// then
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "user-upsert", stored.UserID)
	assert.JSONEq(t, string(doc), string(stored.Data))
	assert.False(t, stored.UpdatedAt.IsZero())
}

func TestRepositoryImpl_UpsertOverwrites(t *testing.T) {
	repository := setupRepository(t)
	ctx := context.Background()

	require.NoError(t, repository.Upsert(ctx, Preferences{UserID: "user-ow", Data: json.RawMessage(`{"theme": "dark"}`)}))
	require.NoError(t, repository.Upsert(ctx, Preferences{UserID: "user-ow", Data: json.RawMessage(`{"theme": "light"}`)}))

	stored, err := repository.Get(ctx, "user-ow")
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme": "light"}`, string(stored.Data))
}

func TestRepositoryImpl_MissingTableIsNotProvisioned(t *testing.T) {
	// given: the preference table is dropped, as in a deployment that never
	// ran this migration
	db := openDB()
	t.Cleanup(func() { db.Close() })
	_, err := db.Exec("ALTER TABLE user_preference RENAME TO user_preference_hidden")
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = db.Exec("ALTER TABLE user_preference_hidden RENAME TO user_preference")
	})
	repository := NewRepository(db)

	// when / then
	_, err = repository.Get(context.Background(), "user-1")
	assert.ErrorIs(t, err, ErrNotProvisioned)

	err = repository.Upsert(context.Background(), Preferences{UserID: "user-1", Data: json.RawMessage(`{}`)})
	assert.ErrorIs(t, err, ErrNotProvisioned)
}
