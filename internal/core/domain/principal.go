package domain

// Principal is the resolved identity attached to an authenticated request.
// It is always derived from a live account fetch, never from token claims alone,
// so suspensions take effect immediately.
type Principal struct {
	AccountID string
	Username  string
	Role      Role
}
