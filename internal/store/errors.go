package store

import "errors"

// ErrEmailTaken indicates a registration attempt with an email that already
// has an account. It maps the store's uniqueness violation to a domain-level
// condition so callers never see the raw constraint error.
var ErrEmailTaken = errors.New("email already exists")
