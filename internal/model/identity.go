package model

// Identity is the resolved caller identity attached to authenticated
// requests. It is what the auth middleware caches and what handlers read
// back out of the request context.
type Identity struct {
	UserID string
	Email  string
}
