// Package repository is the storage boundary for cafe records. Handlers and
// services depend on CafeRepository only, never on gorm directly.
package repository

import "errors"

// ErrCafeNotFound is returned when no cafe matches the given id.
var ErrCafeNotFound = errors.New("cafe not found")

// ErrDuplicateName is returned when an insert collides with an existing
// cafe name. Handlers should translate this into an HTTP 409 response.
var ErrDuplicateName = errors.New("cafe name already exists")

// ErrFieldNotWritable is returned by UpdateField for columns outside the
// allow-list.
var ErrFieldNotWritable = errors.New("field is not writable")
