package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrTransient is returned once the store retry budget is spent on timeouts
	// or unavailability; callers may retry later.
	ErrTransient             = errors.New("transient store error")
	ErrMembershipCheckFailed = errors.New("membership check failed")
	ErrInvalidInput          = errors.New("invalid input")
)

// Admission refusals produced by the access gate.
var (
	ErrSubscriptionRequired = errors.New("channel subscription required")
	ErrPremiumRequired      = errors.New("premium required")
)
