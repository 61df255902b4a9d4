package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"veggie-orders/internal/shop/app/core"
	"veggie-orders/internal/xpkg/token"
	"veggie-orders/pkg/logger"
)

// jsonResponse writes data as a JSON-encoded HTTP response.
func jsonResponse(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// jsonError writes an error response as JSON with the specified HTTP status
// code.
func jsonError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
		"code":  code,
	})
}

// writeError maps a service error onto the HTTP taxonomy. Internal errors
// are logged and replaced with a generic message; details never reach the
// client.
func writeError(w http.ResponseWriter, mylog logger.Logger, err error) {
	switch {
	case core.IsValidation(err):
		jsonError(w, http.StatusBadRequest, err)
	case errors.Is(err, core.ErrOrderNotFound), errors.Is(err, core.ErrUserNotFound):
		jsonError(w, http.StatusNotFound, err)
	case errors.Is(err, core.ErrUnauthenticated),
		errors.Is(err, core.ErrInvalidCredentials),
		errors.Is(err, token.ErrInvalidToken):
		jsonError(w, http.StatusUnauthorized, err)
	case errors.Is(err, core.ErrForbidden):
		jsonError(w, http.StatusForbidden, err)
	case errors.Is(err, core.ErrUsernameTaken):
		jsonError(w, http.StatusConflict, err)
	default:
		mylog.Action("request_failed").Error("Internal error", err)
		jsonError(w, http.StatusInternalServerError, errors.New("internal server error"))
	}
}
