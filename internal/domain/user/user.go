package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User owns zero or more profiles. Ownership is a set of profile id
// references, never an embedding of the profile documents themselves.
type User struct {
	ID           uuid.UUID   `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	FirstName    *string     `json:"firstName,omitempty"`
	LastName     *string     `json:"lastName,omitempty"`
	ProfileIDs   []uuid.UUID `json:"profiles"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// OwnsProfile reports whether the given profile id is in the user's
// ownership set.
func (u *User) OwnsProfile(profileID uuid.UUID) bool {
	for _, id := range u.ProfileIDs {
		if id == profileID {
			return true
		}
	}
	return false
}

type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) error
	AppendProfile(ctx context.Context, userID, profileID uuid.UUID) error
	ClearProfiles(ctx context.Context, userID uuid.UUID) error
}
