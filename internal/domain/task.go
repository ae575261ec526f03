package domain

import (
	"fmt"
	"time"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// ParseTaskStatus validates a status value at the boundary. Transitions are
// deliberately unordered: the creator or assignee may set any status,
// including moving a finished task back to TODO.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return TaskStatus(s), nil
	default:
		return "", fmt.Errorf("unknown task status %q", s)
	}
}

// Task represents a unit of work tracked for a team.
type Task struct {
	ID          string
	Title       string
	Description string
	Status      TaskStatus
	DueDate     *time.Time
	CreatorID   string
	AssigneeID  *string
	TeamID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
