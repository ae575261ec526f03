package authz

import "tasktrackr/internal/domain"

// RequireAnyOf is the coarse role gate. An empty required set means any
// authenticated role passes. On routes that also need relationship checks
// the gate runs first, so a caller with the wrong role is rejected before
// any entity is fetched.
func RequireAnyOf(required []domain.Role, actual domain.Role) Decision {
	if len(required) == 0 {
		return Allow()
	}
	for _, r := range required {
		if r == actual {
			return Allow()
		}
	}
	return Deny(ReasonInsufficientRole)
}
