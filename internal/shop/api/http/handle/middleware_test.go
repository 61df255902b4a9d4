package handle

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veggie-orders/internal/shop/domain/models"
	"veggie-orders/internal/xpkg/token"
	"veggie-orders/pkg/logger"
)

func newMiddleware() (*AuthMiddleware, *token.Manager) {
	tokens := token.NewManager("test-secret")
	return NewAuthMiddleware(tokens, logger.Discard()), tokens
}

func requestWithSession(t *testing.T, tokens *token.Manager, session models.Session) *http.Request {
	t.Helper()
	signed, err := tokens.Sign(session)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/orders", nil)
	r.AddCookie(&http.Cookie{Name: token.CookieName, Value: signed})
	return r
}

func TestRequireNoCookie(t *testing.T) {
	mw, _ := newMiddleware()

	h := mw.Require(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/orders", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireBadToken(t *testing.T) {
	mw, _ := newMiddleware()

	h := mw.Require(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	r := httptest.NewRequest(http.MethodGet, "/orders", nil)
	r.AddCookie(&http.Cookie{Name: token.CookieName, Value: "forged"})

	w := httptest.NewRecorder()
	h(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireStoresSession(t *testing.T) {
	mw, tokens := newMiddleware()

	var got models.Session
	h := mw.Require(func(w http.ResponseWriter, r *http.Request) {
		got, _ = SessionFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	h(w, requestWithSession(t, tokens, models.Session{UserID: 7, Username: "lina", Role: models.RoleCustomer}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, models.RoleCustomer, got.Role)
}

func TestRequireStaff(t *testing.T) {
	mw, tokens := newMiddleware()

	h := mw.RequireStaff(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		role models.Role
		want int
	}{
		{models.RoleCustomer, http.StatusForbidden},
		{models.RoleCashier, http.StatusOK},
		{models.RoleAdmin, http.StatusOK},
	}
	for _, tc := range tests {
		w := httptest.NewRecorder()
		h(w, requestWithSession(t, tokens, models.Session{UserID: 1, Role: tc.role}))
		assert.Equal(t, tc.want, w.Code, tc.role)
	}
}

func TestRequireAdmin(t *testing.T) {
	mw, tokens := newMiddleware()

	h := mw.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		role models.Role
		want int
	}{
		{models.RoleCustomer, http.StatusForbidden},
		{models.RoleCashier, http.StatusForbidden},
		{models.RoleAdmin, http.StatusOK},
	}
	for _, tc := range tests {
		w := httptest.NewRecorder()
		h(w, requestWithSession(t, tokens, models.Session{UserID: 1, Role: tc.role}))
		assert.Equal(t, tc.want, w.Code, tc.role)
	}
}
