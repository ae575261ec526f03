package domain

import "time"

// Team groups users working on the same set of tasks. Members are the users
// whose TeamID points at this team; the slice is populated by the repository
// when a caller asks for it. IsActive is a soft-delete flag: an inactive
// team is excluded from all lookups.
type Team struct {
	ID          string
	Name        string
	Code        string
	Description string
	CreatorID   string
	LeadID      *string
	IsActive    bool
	Members     []User
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MemberIDs returns the ids of the loaded members.
func (t *Team) MemberIDs() []string {
	ids := make([]string, len(t.Members))
	for i := range t.Members {
		ids[i] = t.Members[i].ID
	}
	return ids
}
