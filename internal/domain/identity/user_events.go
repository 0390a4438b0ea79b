package identity

import (
	"github.com/mrp/backend/internal/domain/shared"
)

// UserCreatedEvent is raised when a user is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
	Role  string `json:"role"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("identity.user.created", "User", user.ID),
		Email:           user.Email,
		Role:            string(user.Role),
	}
}

// UserLockedEvent is raised when repeated failed logins lock an account
type UserLockedEvent struct {
	shared.BaseDomainEvent
	Email          string `json:"email"`
	FailedAttempts int    `json:"failed_attempts"`
}

// NewUserLockedEvent creates a new UserLockedEvent
func NewUserLockedEvent(user *User) *UserLockedEvent {
	return &UserLockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("identity.user.locked", "User", user.ID),
		Email:           user.Email,
		FailedAttempts:  user.FailedAttempts,
	}
}
