package service

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password. The two cases are indistinguishable on purpose so login
	// cannot be used to enumerate usernames.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserExists is returned when registering with a taken username or email.
	ErrUserExists = errors.New("user already exists")
	// ErrTeamExists is returned when a team name is already taken.
	ErrTeamExists = errors.New("team already exists")
	// ErrAlreadyMember is returned when adding a user who is already in the team.
	ErrAlreadyMember = errors.New("user is already a member of this team")
	// ErrNotMember is returned when removing a user who is not in the team.
	ErrNotMember = errors.New("user is not a member of this team")
	// ErrNoTeam is returned when an operation needs the user's team and the
	// user does not belong to one.
	ErrNoTeam = errors.New("user does not belong to any team")
)

// ForbiddenError carries an authorization denial out of a service. The
// reason comes straight from the decision engine and is safe to show to the
// caller.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return e.Reason
}
