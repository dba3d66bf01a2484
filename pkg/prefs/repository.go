package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"
)

const undefinedTableCode = "42P01"

type Repository interface {
	Get(ctx context.Context, userID string) (*Preferences, error)
	Upsert(ctx context.Context, prefs Preferences) error
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Get(ctx context.Context, userID string) (*Preferences, error) {
	query := `SELECT data, updated_at FROM user_preference WHERE user_id = $1`

	var prefs Preferences
	prefs.UserID = userID
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&prefs.Data, &prefs.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		if isUndefinedTable(err) {
			return nil, ErrNotProvisioned
		}
		return nil, fmt.Errorf("failed to read preferences for user %s: %w", userID, err)
	}
	return &prefs, nil
}

func (r *RepositoryImpl) Upsert(ctx context.Context, prefs Preferences) error {
	query := `INSERT INTO user_preference (user_id, data, updated_at)
			  VALUES ($1, $2, now())
			  ON CONFLICT (user_id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`

	if _, err := r.db.ExecContext(ctx, query, prefs.UserID, prefs.Data); err != nil {
		if isUndefinedTable(err) {
			return ErrNotProvisioned
		}
		return fmt.Errorf("failed to upsert preferences for user %s: %w", prefs.UserID, err)
	}
	log.Debugf("stored preferences for user %s", prefs.UserID)
	return nil
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == undefinedTableCode
}
