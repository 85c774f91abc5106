package models

// Session is the resolved identity for the current sign-in. It is treated
// as immutable: a change to either field is a boundary event that re-scopes
// the standing subscription.
//
// IsAdministrator is resolved exactly once, at identity-resolution time,
// from the session token's role claim. Nothing downstream re-derives it.
type Session struct {
	UserID          string
	IsAdministrator bool
}
