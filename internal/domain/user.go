package domain

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole validates a role value at the boundary so an unknown role never
// reaches business logic.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleUser:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// User represents an account in the system. Team membership is the TeamID
// reference: a user belongs to at most one team at a time.
type User struct {
	ID           string
	Name         string
	Email        string
	Username     string
	Role         Role
	PasswordHash string
	TeamID       *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
