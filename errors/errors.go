package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrRoomNotFound       = fmt.Errorf("room not found")
	ErrRoomFull           = fmt.Errorf("room is full")
	ErrForbidden          = fmt.Errorf("caller is not a participant of this room")
	ErrInvalidContent     = fmt.Errorf("invalid message content")
	ErrUnauthenticated    = fmt.Errorf("unauthenticated")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidPassword    = fmt.Errorf("invalid password")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
)

// HTTPStatus maps the error taxonomy to transport codes at the edge.
// Anything outside the taxonomy maps to 500 so an internal fault is
// never downgraded to a client error.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrRoomFull):
		return http.StatusConflict
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidContent),
		errors.Is(err, ErrInvalidPassword),
		errors.Is(err, ErrUserAlreadyExists):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated),
		errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
