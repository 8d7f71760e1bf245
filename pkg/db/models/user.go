package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/amiraziz/souq-backend/pkg/enums"
)

// User is a storefront account. Guests have no row here; their state lives
// in the guest device store until the sign-in merge.
type User struct {
	ID                uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email             string         `gorm:"column:email;not null;uniqueIndex:users_email_key"`
	PasswordHash      string         `gorm:"column:password_hash;not null"`
	FullName          string         `gorm:"column:full_name;not null"`
	Role              enums.UserRole `gorm:"column:role;not null;default:'customer'"`
	PreferredLocale   enums.Locale   `gorm:"column:preferred_locale;not null;default:'en'"`
	PreferredCurrency enums.Currency `gorm:"column:preferred_currency;not null;default:'USD'"`
	Banned            bool           `gorm:"column:banned;not null;default:false"`
	CreatedAt         time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
