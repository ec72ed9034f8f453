package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when an insert collides with the unique
// email index. Concurrent duplicate registrations are resolved here: the
// losing insert surfaces this error.
var ErrDuplicateEmail = errors.New("email already registered")
