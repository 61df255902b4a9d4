package core

import "errors"

// Validation failures (HTTP 400). Each intake check gets its own sentinel so
// callers can tell rejections apart.
var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrIncompleteAddress  = errors.New("address must include zone, street and building")
	ErrProductUnavailable = errors.New("product not found or inactive")
	ErrUnitUnavailable    = errors.New("unit is not available for this product")
	ErrInvalidQuantity    = errors.New("quantity must be between 1 and 1000")
	ErrZoneNotFound       = errors.New("delivery zone not found")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidTransition  = errors.New("status transition not allowed")
	ErrNameRequired       = errors.New("name is required")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrUsernameRequired   = errors.New("username and password are required")
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrUserNotFound  = errors.New("user not found")

	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")

	// ErrHelp signals that the caller asked for usage output.
	ErrHelp           = errors.New("help requested")
	ErrModeFlag       = errors.New("mode flag is required")
	ErrUnknownService = errors.New("unknown service mode")
)

// IsValidation reports whether err maps to a client-input rejection.
func IsValidation(err error) bool {
	for _, v := range []error{
		ErrEmptyCart, ErrIncompleteAddress, ErrProductUnavailable,
		ErrUnitUnavailable, ErrInvalidQuantity, ErrZoneNotFound,
		ErrInvalidStatus, ErrInvalidTransition, ErrNameRequired,
		ErrWeakPassword, ErrUsernameRequired,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
