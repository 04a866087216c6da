// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own, such as saving over another owner's
// seat map. Handlers should translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")
