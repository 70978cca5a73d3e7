package adapter

import "errors"

// Sentinel errors mapped from HTTP responses. The sync engine and transfer
// service match these with [errors.Is] to pick the retry or surface path.
var (
	// ErrUnauthorized means the bearer token was missing or rejected.
	// Not retried.
	ErrUnauthorized = errors.New("client unauthorized")

	// ErrNetwork marks transport failures, timeouts, and 5xx responses.
	// All of them share the retry/backoff path.
	ErrNetwork = errors.New("network error")

	// ErrBadRequest means the server rejected the payload shape. Never
	// retried.
	ErrBadRequest = errors.New("bad request")

	// ErrNotFound means the requested file or record does not exist
	// remotely.
	ErrNotFound = errors.New("not found")

	// ErrQuotaExceeded means the server refused the write for capacity
	// reasons. Surfaced, not retried.
	ErrQuotaExceeded = errors.New("server quota exceeded")
)
