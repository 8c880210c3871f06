package relay

import "errors"

// Request-terminating failure kinds. The first three carry no side
// effects beyond the failed check; ErrInferenceUnavailable is reported
// only after the debit has been refunded.
var (
	ErrTenantNotFound       = errors.New("tenant not found")
	ErrTenantInactive       = errors.New("bot is not active")
	ErrInferenceUnavailable = errors.New("inference gateway unavailable")
	ErrEmptyMessage         = errors.New("empty message")
)
