package errs

import (
	"errors"
	"net/http"
)

// Unauthorized answers requests that reach an owner-only handler without a principal.
var Unauthorized = NewApiErr(http.StatusUnauthorized, "unauthorized")

// Bearer token and credential failures. All of them are 401s on the
// authorization field.
var (
	ErrMissingToken       = errors.New("missing access token")
	ErrExpiredToken       = errors.New("expired access token")
	ErrInvalidToken       = errors.New("invalid access token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

func authErr(sentinel error, details string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        sentinel,
		Details:    details,
		Field:      "authorization",
	}
}

func NewMissingTokenError() *ApiErr {
	return authErr(ErrMissingToken, "Missing access token")
}

func NewExpiredTokenError() *ApiErr {
	return authErr(ErrExpiredToken, "Access token has expired")
}

func NewInvalidTokenError() *ApiErr {
	return authErr(ErrInvalidToken, "Invalid access token")
}

func NewInvalidCredentialsError() *ApiErr {
	return authErr(ErrInvalidCredentials, "Username or password is incorrect")
}
