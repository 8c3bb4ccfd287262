package auth

import (
	"context"
	"database/sql"
	"time"
)

// TokenStore persists refresh tokens for rotation checks.
type TokenStore struct {
	db *sql.DB
}

// NewTokenStore creates a store.
func NewTokenStore(db *sql.DB) *TokenStore {
	return &TokenStore{db: db}
}

// SaveRefreshToken stores a student's refresh token.
func (s *TokenStore) SaveRefreshToken(ctx context.Context, studentID, token string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (student_id, token, expires_at)
		VALUES ($1, $2, $3)
	`, studentID, token, expiresAt)
	return err
}

// RevokeRefreshToken marks a token revoked.
func (s *TokenStore) RevokeRefreshToken(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1`, token)
	return err
}
