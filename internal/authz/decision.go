// Package authz holds the pure authorization rules for tasks and teams.
// Every function here decides over entity snapshots handed in by the caller;
// nothing in this package fetches state or keeps any.
package authz

// Decision is the outcome of an authorization check. Deny is an expected,
// first-class result, not an error: it is deterministic for the same inputs
// and must never be retried.
type Decision struct {
	Allowed bool
	Reason  string
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}
