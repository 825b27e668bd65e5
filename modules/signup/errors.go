package signup

import "errors"

var (
	ErrEmailTaken   = errors.New("email is already registered")
	ErrStoreFailure = errors.New("signup store failure")
)
