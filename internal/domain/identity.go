package domain

// RoleTeacher grants access to review operations.
const RoleTeacher = "teacher"

// User is the caller identity supplied by the upstream gateway.
type User struct {
	ID    string
	Name  string
	Email string
	Role  string
}

func (u User) IsTeacher() bool {
	return u.Role == RoleTeacher
}
