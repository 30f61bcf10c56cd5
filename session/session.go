// Package session manages "remember me" sessions. Only the bcrypt digest
// of a token is ever stored; the raw token goes to the client and is never
// recoverable server-side.
package session

import (
	"context"

	"github.com/puoklam/microblog-backend/db/model"
	"github.com/puoklam/microblog-backend/hash"
	"gorm.io/gorm"
)

type Manager struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// Issue mints a fresh remember token for userID, persists its digest and
// returns the raw token for the transport layer to deliver (e.g. as a
// cookie). Any previously issued token is invalidated by the overwrite;
// a user has at most one outstanding remember token.
func (m *Manager) Issue(ctx context.Context, userID uint) (string, error) {
	token, err := hash.NewToken()
	if err != nil {
		return "", err
	}
	digest, err := hash.Digest(token)
	if err != nil {
		return "", err
	}
	err = m.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Update("remember_digest", digest).
		Error
	if err != nil {
		return "", err
	}
	return token, nil
}

// Authenticate reports whether token is the user's outstanding remember
// token. "No session" and "wrong token" are deliberately the same false.
func (m *Manager) Authenticate(u *model.User, token string) bool {
	return u.Authenticated(token)
}

// Revoke clears the stored digest, invalidating every outstanding token
// immediately.
func (m *Manager) Revoke(ctx context.Context, userID uint) error {
	return m.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Update("remember_digest", nil).
		Error
}
