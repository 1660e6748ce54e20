package ai

import "errors"

// ErrUnavailable marks a provider that is not configured or not reachable.
var ErrUnavailable = errors.New("ai provider unavailable")
