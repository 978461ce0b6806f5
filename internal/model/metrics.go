package model

// AuthMetrics records account and token events.
type AuthMetrics interface {
	UserRegistered()
	LoginAttempt(success bool)
	TokensIssued(n int)
}
