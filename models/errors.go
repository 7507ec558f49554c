package models

import "errors"

// ErrNotFound is the generic sentinel for missing records.
var ErrNotFound = errors.New("not found")
