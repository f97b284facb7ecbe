package middleware

// Keys under which the JWT and request-id middleware stash per-request
// values on the echo context.
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"
)
