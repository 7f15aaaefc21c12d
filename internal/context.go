package internal

type contextKey string

const (
	// UserContextKey carries the authenticated user through request contexts.
	UserContextKey contextKey = "user"
	// RequestIDContextKey carries the per-request correlation id.
	RequestIDContextKey contextKey = "request_id"
)
