// Package pkg holds helpers shared across layers: domain errors and the JSON
// response envelope.
//
// Services return these sentinels wrapped with context and handlers map
// them to status codes:
//
//	if errors.Is(err, pkg.ErrNotFound) { ... }
package pkg

import "errors"

// Domain-level errors.
var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrAlreadyExists = errors.New("already exists")
	ErrBadRequest    = errors.New("bad request")
	ErrInternal      = errors.New("internal error")
	ErrRateLimited   = errors.New("too many requests")
	ErrUpstream      = errors.New("upstream service failed")
)
