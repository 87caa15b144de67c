package model

import "errors"

var (
	// ErrNotFound is returned when a record does not exist or is not owned by the caller
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned when a request fails validation
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized is returned when a request carries no valid credentials
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUpstream is returned when a remote collaborator such as the analyzer fails
	ErrUpstream = errors.New("upstream service failed")
)
