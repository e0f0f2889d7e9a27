package repository

import "errors"

// ErrNotFound is returned when a requested record is not found in the repository.
// This abstracts away the underlying storage driver from the service layer.
var ErrNotFound = errors.New("record not found")

// ErrUnsupportedDriver is returned by Open for a driver other than sqlite3 or postgres.
var ErrUnsupportedDriver = errors.New("unsupported database driver")
