package credentials

import (
	"context"
	"database/sql"
	"errors"

	"resume-roaster/internal/shared/util"
)

// PGStore persists settings in the client_settings table. Client IDs are stored hashed.
type PGStore struct {
	DB *sql.DB
}

func (s *PGStore) Get(ctx context.Context, clientID, key string) (string, error) {
	const query = `
SELECT value
FROM client_settings
WHERE client_key = $1 AND setting_key = $2
LIMIT 1`
	var value string
	err := s.DB.QueryRowContext(ctx, query, util.HashUserKey(clientID), key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (s *PGStore) Put(ctx context.Context, clientID, key, value string) error {
	const query = `
INSERT INTO client_settings (client_key, setting_key, value, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (client_key, setting_key) DO UPDATE SET
  value = EXCLUDED.value,
  updated_at = now()`
	_, err := s.DB.ExecContext(ctx, query, util.HashUserKey(clientID), key, value)
	return err
}

func (s *PGStore) Delete(ctx context.Context, clientID, key string) error {
	const query = `DELETE FROM client_settings WHERE client_key = $1 AND setting_key = $2`
	_, err := s.DB.ExecContext(ctx, query, util.HashUserKey(clientID), key)
	return err
}
