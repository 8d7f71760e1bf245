package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/amiraziz/souq-backend/pkg/db/models"
	"github.com/amiraziz/souq-backend/pkg/enums"
)

// RegisterInput creates a storefront account.
type RegisterInput struct {
	Email             string         `json:"email" validate:"required,email"`
	Password          string         `json:"password" validate:"required,min=8"`
	FullName          string         `json:"fullName" validate:"required"`
	PreferredLocale   enums.Locale   `json:"preferredLocale"`
	PreferredCurrency enums.Currency `json:"preferredCurrency"`
}

// LoginInput authenticates an existing account.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserDTO is the public account shape; the password hash never leaves the
// service.
type UserDTO struct {
	ID                uuid.UUID      `json:"id"`
	Email             string         `json:"email"`
	FullName          string         `json:"fullName"`
	Role              enums.UserRole `json:"role"`
	PreferredLocale   enums.Locale   `json:"preferredLocale"`
	PreferredCurrency enums.Currency `json:"preferredCurrency"`
	CreatedAt         time.Time      `json:"createdAt"`
}

// AuthDTO pairs an account with a freshly minted access token.
type AuthDTO struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}

func toDTO(user models.User) UserDTO {
	return UserDTO{
		ID:                user.ID,
		Email:             user.Email,
		FullName:          user.FullName,
		Role:              user.Role,
		PreferredLocale:   user.PreferredLocale,
		PreferredCurrency: user.PreferredCurrency,
		CreatedAt:         user.CreatedAt,
	}
}
