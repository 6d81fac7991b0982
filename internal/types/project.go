package types

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title       string     `gorm:"uniqueIndex;not null;column:title" json:"title"`
	Description string     `gorm:"column:description" json:"description"`
	OwnerID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_project_owner" json:"owner_id"`
	TeamID      *uuid.UUID `gorm:"type:uuid;index:idx_project_team" json:"team_id,omitempty"`
	Team        *Team      `gorm:"foreignKey:TeamID;references:ID" json:"team,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Project) TableName() string { return "project" }
