// Package repository defines error values that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrConflict signals that an operation cannot proceed due to
// existing dependent records (e.g. cancelling a screening that still has
// paid tickets), while ErrNoChange reports an update whose values match
// the stored row.
package repository

import "errors"

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state, such as cancelling a screening that still
// has paid tickets. Handlers should translate this into an HTTP 409
// response.
var ErrConflict = errors.New("conflict")

// ErrNoChange indicates an UPDATE attempted to set fields equal to the
// current values.
var ErrNoChange = errors.New("no change")
