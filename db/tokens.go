package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// TokenStore persists one bearer token per Telegram user in Postgres — the
// client's analog of browser-local storage. Implements services.TokenStore.
type TokenStore struct{}

func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

func (s *TokenStore) Get(ctx context.Context, userID int64) (string, error) {
	var token string
	err := Pool.QueryRow(ctx, `
		SELECT token FROM auth_tokens WHERE tg_user_id = $1`,
		userID,
	).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return token, nil
}

func (s *TokenStore) Set(ctx context.Context, userID int64, token string) error {
	_, err := Pool.Exec(ctx, `
		INSERT INTO auth_tokens (tg_user_id, token, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (tg_user_id) DO UPDATE SET
			token = $2,
			updated_at = now()`,
		userID, token,
	)
	return err
}

func (s *TokenStore) Delete(ctx context.Context, userID int64) error {
	_, err := Pool.Exec(ctx, `DELETE FROM auth_tokens WHERE tg_user_id = $1`, userID)
	return err
}
