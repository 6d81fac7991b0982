package types

import (
	"time"

	"github.com/google/uuid"
)

// UserPermission is one feature-level grant for a user. Admin users bypass
// these rows and hold admin on every feature.
type UserPermission struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_permission_unique" json:"user_id"`
	Feature   string    `gorm:"not null;uniqueIndex:idx_user_permission_unique" json:"feature"`
	Level     string    `gorm:"not null;default:'none'" json:"level"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserPermission) TableName() string { return "user_permission" }
