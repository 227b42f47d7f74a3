package apperrors

import (
	"errors"
	"net/http"
)

var (
	ErrBadRequest         = errors.New("bad request")
	ErrInternal           = errors.New("internal server error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// Status maps a wrapped sentinel to its HTTP status code. Anything
// unrecognized is an internal error so storage details never leak.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Public returns the sentinel message for the response body, hiding
// wrapped detail from clients.
func Public(err error) string {
	for _, sentinel := range []error{
		ErrNotFound, ErrBadRequest, ErrInvalidCredentials,
		ErrUnauthorized, ErrForbidden, ErrAlreadyExists,
	} {
		if errors.Is(err, sentinel) {
			if sentinel == ErrInvalidCredentials {
				return ErrUnauthorized.Error()
			}
			return sentinel.Error()
		}
	}
	return ErrInternal.Error()
}
