package handle

import (
	"context"
	"net/http"

	"veggie-orders/internal/shop/app/core"
	"veggie-orders/internal/shop/domain/models"
	"veggie-orders/internal/xpkg/token"
	"veggie-orders/pkg/logger"
)

type ctxKey int

const sessionKey ctxKey = iota

// SessionFrom returns the authenticated session stored by the auth
// middleware.
func SessionFrom(ctx context.Context) (models.Session, bool) {
	s, ok := ctx.Value(sessionKey).(models.Session)
	return s, ok
}

// AuthMiddleware resolves the session cookie into a principal.
type AuthMiddleware struct {
	tokens *token.Manager
	mylog  logger.Logger
}

func NewAuthMiddleware(tokens *token.Manager, mylog logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, mylog: mylog}
}

// Require rejects unauthenticated requests with 401 and stores the session
// in the request context otherwise.
func (am *AuthMiddleware) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(token.CookieName)
		if err != nil {
			jsonError(w, http.StatusUnauthorized, core.ErrUnauthenticated)
			return
		}

		session, err := am.tokens.Verify(cookie.Value)
		if err != nil {
			am.mylog.Action("token_rejected").Debug("Invalid session token")
			jsonError(w, http.StatusUnauthorized, core.ErrUnauthenticated)
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), sessionKey, session)))
	}
}

// RequireStaff additionally rejects customers with 403.
func (am *AuthMiddleware) RequireStaff(next http.HandlerFunc) http.HandlerFunc {
	return am.Require(func(w http.ResponseWriter, r *http.Request) {
		session, _ := SessionFrom(r.Context())
		if !session.IsStaff() {
			jsonError(w, http.StatusForbidden, core.ErrForbidden)
			return
		}
		next(w, r)
	})
}

// RequireAdmin rejects everyone but admins with 403.
func (am *AuthMiddleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return am.Require(func(w http.ResponseWriter, r *http.Request) {
		session, _ := SessionFrom(r.Context())
		if session.Role != models.RoleAdmin {
			jsonError(w, http.StatusForbidden, core.ErrForbidden)
			return
		}
		next(w, r)
	})
}
