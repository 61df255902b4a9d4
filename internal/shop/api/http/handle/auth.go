package handle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"veggie-orders/internal/shop/app/core"
	"veggie-orders/internal/shop/app/services"
	"veggie-orders/internal/shop/domain/dto"
	"veggie-orders/internal/xpkg/token"
	"veggie-orders/pkg/logger"
)

type AuthHandler struct {
	authService *services.AuthService
	mylog       logger.Logger
}

func NewAuthHandler(authService *services.AuthService, mylog logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		mylog:       mylog,
	}
}

func (ah *AuthHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		user, signed, err := ah.authService.Register(ctx, req)
		if err != nil {
			writeError(w, ah.mylog, err)
			return
		}

		setSessionCookie(w, signed)
		jsonResponse(w, http.StatusOK, dto.AuthResponse{User: user})
	}
}

func (ah *AuthHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		user, signed, err := ah.authService.Login(ctx, req)
		if err != nil {
			writeError(w, ah.mylog, err)
			return
		}

		setSessionCookie(w, signed)
		jsonResponse(w, http.StatusOK, dto.AuthResponse{User: user})
	}
}

func (ah *AuthHandler) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     token.CookieName,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
		jsonResponse(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func (ah *AuthHandler) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := SessionFrom(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		user, err := ah.authService.Me(ctx, session)
		if err != nil {
			writeError(w, ah.mylog, err)
			return
		}
		jsonResponse(w, http.StatusOK, dto.AuthResponse{User: user})
	}
}

func setSessionCookie(w http.ResponseWriter, signed string) {
	http.SetCookie(w, &http.Cookie{
		Name:     token.CookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(token.TTL.Seconds()),
	})
}
