package models

import "errors"

// ErrValidation indicates a request was rejected before any store call.
var ErrValidation = errors.New("validation failed")

// ErrNotFound indicates a record or worker id does not exist in the store.
var ErrNotFound = errors.New("not found")
