package chat

import "errors"

// Turn-level error taxonomy. Retrieval degradation and partial persistence are
// deliberately absent: both are recovered locally and logged, never surfaced.
var (
	// ErrInvalidProvider marks a client-input error: the requested provider
	// is not in the supported set. Raised before any I/O.
	ErrInvalidProvider = errors.New("invalid model provider")

	// ErrStorageUnavailable marks a failed session resolution or
	// recent-history fetch. The caller may retry the whole turn.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrModelInvocation marks a provider timeout, auth failure, or an
	// empty/malformed reply. No persistence has happened when it is raised.
	ErrModelInvocation = errors.New("model invocation failed")
)

// IsRetryable reports whether the caller may retry the turn as-is.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable) || errors.Is(err, ErrModelInvocation)
}
