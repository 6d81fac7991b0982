package types

import (
	"time"

	"github.com/google/uuid"
)

type Team struct {
	ID              uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name            string       `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Description     string       `gorm:"column:description" json:"description"`
	AvatarBucketKey string       `gorm:"column:avatar_bucket_key" json:"avatar_bucket_key"`
	AvatarURL       string       `gorm:"column:avatar_url" json:"avatar_url"`
	Members         []TeamMember `gorm:"foreignKey:TeamID;references:ID" json:"members,omitempty"`
	CreatedAt       time.Time    `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null;default:now()" json:"updated_at"`
}

func (Team) TableName() string { return "team" }

type TeamMember struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TeamID    uuid.UUID `gorm:"type:uuid;not null;index:idx_team_member_team;uniqueIndex:idx_team_member_unique" json:"team_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_team_member_user;uniqueIndex:idx_team_member_unique" json:"user_id"`
	Role      string    `gorm:"not null;default:'member';column:role" json:"role"`
	User      *User     `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (TeamMember) TableName() string { return "team_member" }
