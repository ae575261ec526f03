package authz

import "tasktrackr/internal/domain"

// Deny reasons exposed to callers. They are safe to return to clients: none
// of them leaks anything beyond "you are not the owner/assignee".
const (
	ReasonCreatorNotMember   = "creator not a team member"
	ReasonAssigneeNotMember  = "assignee must be creator or team member"
	ReasonNotOwnerOrAssignee = "not owner or assignee"
	ReasonInsufficientRole   = "insufficient role"
)

// AuthorizeTaskCreate decides whether creatorID may open a task in team,
// optionally assigned to assigneeID. Team validity comes first: a task
// cannot exist without a valid team, independent of assignment. An empty
// member set always denies the creator check; there is no bypass for a team
// with zero recorded members.
func AuthorizeTaskCreate(team *domain.Team, creatorID string, assigneeID *string) Decision {
	if !isMember(team, creatorID) {
		return Deny(ReasonCreatorNotMember)
	}
	if assigneeID != nil && *assigneeID != creatorID && !isMember(team, *assigneeID) {
		return Deny(ReasonAssigneeNotMember)
	}
	return Allow()
}

// AuthorizeTaskMutate decides whether actorID may change the task. Only the
// creator or the current assignee may update a task, change its status, or
// reassign it.
func AuthorizeTaskMutate(task *domain.Task, actorID string) Decision {
	if task.CreatorID == actorID {
		return Allow()
	}
	if task.AssigneeID != nil && *task.AssigneeID == actorID {
		return Allow()
	}
	return Deny(ReasonNotOwnerOrAssignee)
}

// AuthorizeTaskReassign re-checks the assignee rule against the team's
// current members. It runs on every mutation that can change the assignee,
// not only at creation, so the create-time and update-time rules can never
// drift apart.
func AuthorizeTaskReassign(task *domain.Task, newAssigneeID *string, members []domain.User) Decision {
	if newAssigneeID == nil {
		return Allow()
	}
	if *newAssigneeID == task.CreatorID {
		return Allow()
	}
	for i := range members {
		if members[i].ID == *newAssigneeID {
			return Allow()
		}
	}
	return Deny(ReasonAssigneeNotMember)
}

// AuthorizeAdminOnly gates operations reserved for administrators: team
// CRUD, membership changes, role changes and listing all users.
func AuthorizeAdminOnly(role domain.Role) Decision {
	if role == domain.RoleAdmin {
		return Allow()
	}
	return Deny(ReasonInsufficientRole)
}

func isMember(team *domain.Team, userID string) bool {
	if team == nil {
		return false
	}
	for i := range team.Members {
		if team.Members[i].ID == userID {
			return true
		}
	}
	return false
}
