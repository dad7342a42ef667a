package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrRateLimited     = errors.New("rate limited")
	ErrProviderFailure = errors.New("provider failure")
	ErrInvalidRequest  = errors.New("invalid request")
)
