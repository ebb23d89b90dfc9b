// Package session is the server-side session store: an opaque client
// token maps to the authenticated identity, a role snapshot captured at
// login, and the shopping cart. Handlers receive the store as an
// explicit dependency; there is no ambient global state.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/bananina/storefront-api/models"
)

const CookieName = "bananina_session"

var ErrNotFound = errors.New("session not found")

type Session struct {
	UserID  uint        `json:"user_id"`
	Email   string      `json:"email"`
	Roles   []string    `json:"roles"`
	IsAdmin bool        `json:"is_admin"`
	Cart    models.Cart `json:"cart"`
}

func (s *Session) HasRole(name string) bool {
	for _, r := range s.Roles {
		if r == name {
			return true
		}
	}
	return false
}

type Store interface {
	Get(ctx context.Context, token string) (*Session, error)
	Set(ctx context.Context, token string, sess *Session, ttl time.Duration) error
	Destroy(ctx context.Context, token string) error
}

// NewToken returns a 32-hex-char opaque token.
func NewToken() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic("session: rand failed: " + err.Error())
	}
	return hex.EncodeToString(b)
}
