package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the credential record; the public identity lives in Profile.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
