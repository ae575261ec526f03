package authz

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tasktrackr/internal/domain"
)

func team(memberIDs ...string) *domain.Team {
	t := &domain.Team{ID: "team-1", Name: "backend", IsActive: true}
	for _, id := range memberIDs {
		t.Members = append(t.Members, domain.User{ID: id})
	}
	return t
}

func strptr(s string) *string { return &s }

func TestAuthorizeTaskCreate(t *testing.T) {
	t.Run("creator must be a member", func(t *testing.T) {
		d := AuthorizeTaskCreate(team("u1", "u2"), "u3", nil)
		require.False(t, d.Allowed)
		require.Equal(t, ReasonCreatorNotMember, d.Reason)
	})

	t.Run("empty member set denies the creator", func(t *testing.T) {
		d := AuthorizeTaskCreate(team(), "u1", nil)
		require.False(t, d.Allowed)
		require.Equal(t, ReasonCreatorNotMember, d.Reason)
	})

	t.Run("assignee outside the team and not the creator", func(t *testing.T) {
		d := AuthorizeTaskCreate(team("u1", "u2"), "u1", strptr("u3"))
		require.False(t, d.Allowed)
		require.Equal(t, ReasonAssigneeNotMember, d.Reason)
	})

	t.Run("self assignment by the sole member", func(t *testing.T) {
		d := AuthorizeTaskCreate(team("u1"), "u1", strptr("u1"))
		require.True(t, d.Allowed)
	})

	t.Run("assignee who is another member", func(t *testing.T) {
		d := AuthorizeTaskCreate(team("u1", "u2"), "u1", strptr("u2"))
		require.True(t, d.Allowed)
	})

	t.Run("no assignee", func(t *testing.T) {
		d := AuthorizeTaskCreate(team("u1"), "u1", nil)
		require.True(t, d.Allowed)
	})

	t.Run("creator check precedes the assignee check", func(t *testing.T) {
		// both creator and assignee are outside the team; the creator
		// reason wins because a task needs a valid creator first
		d := AuthorizeTaskCreate(team("u9"), "u1", strptr("u2"))
		require.False(t, d.Allowed)
		require.Equal(t, ReasonCreatorNotMember, d.Reason)
	})

	t.Run("nil team always denies", func(t *testing.T) {
		d := AuthorizeTaskCreate(nil, "u1", nil)
		require.False(t, d.Allowed)
	})
}

func TestAuthorizeTaskMutate(t *testing.T) {
	task := &domain.Task{ID: "t1", CreatorID: "u1", AssigneeID: strptr("u2")}

	t.Run("creator may mutate", func(t *testing.T) {
		require.True(t, AuthorizeTaskMutate(task, "u1").Allowed)
	})

	t.Run("assignee may mutate", func(t *testing.T) {
		require.True(t, AuthorizeTaskMutate(task, "u2").Allowed)
	})

	t.Run("third user is denied", func(t *testing.T) {
		d := AuthorizeTaskMutate(task, "u3")
		require.False(t, d.Allowed)
		require.Equal(t, ReasonNotOwnerOrAssignee, d.Reason)
	})

	t.Run("unassigned task only the creator", func(t *testing.T) {
		unassigned := &domain.Task{ID: "t2", CreatorID: "u1"}
		require.True(t, AuthorizeTaskMutate(unassigned, "u1").Allowed)
		require.False(t, AuthorizeTaskMutate(unassigned, "u2").Allowed)
	})
}

func TestAuthorizeTaskReassign(t *testing.T) {
	task := &domain.Task{ID: "t1", CreatorID: "u1", TeamID: "team-1"}
	members := []domain.User{{ID: "u2"}, {ID: "u3"}}

	t.Run("clearing the assignee is allowed", func(t *testing.T) {
		require.True(t, AuthorizeTaskReassign(task, nil, members).Allowed)
	})

	t.Run("creator as assignee even when no longer a member", func(t *testing.T) {
		require.True(t, AuthorizeTaskReassign(task, strptr("u1"), members).Allowed)
	})

	t.Run("current member as assignee", func(t *testing.T) {
		require.True(t, AuthorizeTaskReassign(task, strptr("u3"), members).Allowed)
	})

	t.Run("outsider is denied", func(t *testing.T) {
		d := AuthorizeTaskReassign(task, strptr("u9"), members)
		require.False(t, d.Allowed)
		require.Equal(t, ReasonAssigneeNotMember, d.Reason)
	})

	t.Run("empty member set denies everyone but the creator", func(t *testing.T) {
		require.False(t, AuthorizeTaskReassign(task, strptr("u2"), nil).Allowed)
		require.True(t, AuthorizeTaskReassign(task, strptr("u1"), nil).Allowed)
	})
}

func TestAuthorizeAdminOnly(t *testing.T) {
	t.Run("admin passes", func(t *testing.T) {
		require.True(t, AuthorizeAdminOnly(domain.RoleAdmin).Allowed)
	})

	t.Run("non-admin denied regardless of anything else", func(t *testing.T) {
		d := AuthorizeAdminOnly(domain.RoleUser)
		require.False(t, d.Allowed)
		require.Equal(t, ReasonInsufficientRole, d.Reason)
	})

	t.Run("idempotent", func(t *testing.T) {
		first := AuthorizeAdminOnly(domain.RoleUser)
		second := AuthorizeAdminOnly(domain.RoleUser)
		require.Equal(t, first, second)
	})
}

func TestRequireAnyOf(t *testing.T) {
	t.Run("empty required set passes any role", func(t *testing.T) {
		require.True(t, RequireAnyOf(nil, domain.RoleUser).Allowed)
		require.True(t, RequireAnyOf([]domain.Role{}, domain.RoleAdmin).Allowed)
	})

	t.Run("matching role passes", func(t *testing.T) {
		d := RequireAnyOf([]domain.Role{domain.RoleAdmin}, domain.RoleAdmin)
		require.True(t, d.Allowed)
	})

	t.Run("missing role is denied", func(t *testing.T) {
		d := RequireAnyOf([]domain.Role{domain.RoleAdmin}, domain.RoleUser)
		require.False(t, d.Allowed)
		require.Equal(t, ReasonInsufficientRole, d.Reason)
	})
}
