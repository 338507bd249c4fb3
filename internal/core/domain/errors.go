package domain

import "errors"

// Authentication and session errors. Login failures deliberately collapse to
// ErrBadCredentials so the response never reveals whether the login existed.
var (
	ErrBadCredentials       = errors.New("invalid credentials")
	ErrDuplicateLogin       = errors.New("login already in use")
	ErrUnknownCorrespondent = errors.New("correspondent not found")
	ErrInvalidToken         = errors.New("invalid token")
	ErrExpiredToken         = errors.New("token expired")
	ErrUnsupportedToken     = errors.New("unsupported token format")
	ErrNotRefreshToken      = errors.New("token is not a refresh token")
	ErrInactiveUser         = errors.New("user is inactive")
	ErrUserNotFound         = errors.New("user not found")
)

// Resource and authorization errors.
var (
	ErrForbidden            = errors.New("access forbidden")
	ErrRequestNotFound      = errors.New("request not found")
	ErrStatusNotFound       = errors.New("status not found")
	ErrTooManyLoginAttempts = errors.New("too many login attempts")
)
