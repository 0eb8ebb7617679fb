package repository

import "errors"

// ErrNotFound is returned when no payment, booking or destination row matches.
// Stores return it unwrapped so services can translate it with errors.Is.
var ErrNotFound = errors.New("record not found")
