package types

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_notification_user" json:"user_id"`
	Type      string    `gorm:"not null" json:"type"`
	Title     string    `gorm:"not null" json:"title"`
	Message   string    `gorm:"column:message" json:"message"`
	Read      bool      `gorm:"not null;default:false;index:idx_notification_read" json:"read"`
	CreatedAt time.Time `gorm:"not null;default:now();index:idx_notification_created" json:"created_at"`
}

func (Notification) TableName() string { return "notification" }
