package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bananina/storefront-api/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(store session.Store) *gin.Engine {
	r := gin.New()
	guarded := r.Group("/", RequireAuth(store))
	guarded.GET("/me", func(c *gin.Context) {
		sess := CurrentSession(c)
		c.JSON(http.StatusOK, gin.H{"user_id": sess.UserID})
	})
	guarded.GET("/admin", RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func seedSession(t *testing.T, store session.Store, sess *session.Session) string {
	t.Helper()
	token := session.NewToken()
	require.NoError(t, store.Set(context.Background(), token, sess, time.Hour))
	return token
}

func TestRequireAuthNoToken(t *testing.T) {
	r := newAuthRouter(session.NewMemoryStore())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
}

func TestRequireAuthUnknownToken(t *testing.T) {
	r := newAuthRouter(session.NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+session.NewToken())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthCookie(t *testing.T) {
	store := session.NewMemoryStore()
	token := seedSession(t, store, &session.Session{UserID: 42, Roles: []string{"customer"}})
	r := newAuthRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":42}`, w.Body.String())
}

func TestRequireAuthBearerHeader(t *testing.T) {
	store := session.NewMemoryStore()
	token := seedSession(t, store, &session.Session{UserID: 7})
	r := newAuthRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdminForbidsCustomer(t *testing.T) {
	store := session.NewMemoryStore()
	token := seedSession(t, store, &session.Session{UserID: 7, Roles: []string{"customer"}})
	r := newAuthRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// Valid session without the role is 403, never 401.
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Admin access required"}`, w.Body.String())
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	store := session.NewMemoryStore()
	token := seedSession(t, store, &session.Session{
		UserID: 1, Roles: []string{"admin", "customer"}, IsAdmin: true,
	})
	r := newAuthRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTokenFromRequestPrefersCookie(t *testing.T) {
	store := session.NewMemoryStore()
	cookieToken := seedSession(t, store, &session.Session{UserID: 1})
	r := newAuthRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookieToken})
	req.Header.Set("Authorization", "Bearer "+session.NewToken())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
