package models

import "github.com/google/uuid"

// Profile is the public identity of a user. It is created at registration
// and read-only afterwards.
type Profile struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
}

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)
