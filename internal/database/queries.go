// internal/database/queries.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Error definitions
var (
	ErrNotFound = errors.New("record not found")
)

// User is the record created for a NewsBlur account at signup. NewsBlurToken
// is the OAuth access token for the upstream API; TokenEndpoint is the
// IndieAuth token endpoint discovered from the user's web site. Profile holds
// the raw /social/profile response at signup time.
type User struct {
	Username      string
	NewsBlurToken string
	TokenEndpoint string
	Profile       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// UserStore is the get/save-by-key interface the request handlers depend on.
// *DB implements it; tests substitute stubs.
type UserStore interface {
	GetUser(ctx context.Context, username string) (User, error)
	SaveUser(ctx context.Context, user User) error
}

// GetUser retrieves the user record for a username
func (db *DB) GetUser(ctx context.Context, username string) (User, error) {
	var u User
	err := db.QueryRowContext(ctx,
		`SELECT username, newsblur_token, token_endpoint, profile, created_at, updated_at
		FROM users WHERE username = ?`,
		username,
	).Scan(&u.Username, &u.NewsBlurToken, &u.TokenEndpoint, &u.Profile, &u.CreatedAt, &u.UpdatedAt)

	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	return u, err
}

// SaveUser inserts or overwrites the record for user.Username
func (db *DB) SaveUser(ctx context.Context, user User) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO users (username, newsblur_token, token_endpoint, profile, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(username) DO UPDATE SET
		newsblur_token = excluded.newsblur_token,
		token_endpoint = excluded.token_endpoint,
		profile = excluded.profile,
		updated_at = CURRENT_TIMESTAMP`,
		user.Username, user.NewsBlurToken, user.TokenEndpoint, user.Profile,
	)
	return err
}
