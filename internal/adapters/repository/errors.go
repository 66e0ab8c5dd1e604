package repository

import "errors"

// ErrNotFound is returned when no snapshot exists for the requested key.
var ErrNotFound = errors.New("repository: snapshot not found")
