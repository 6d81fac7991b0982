package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Role is an app-level permission profile. FeaturePermissions maps a feature id
// (e.g. "teams", "data-contracts") to an access level name.
type Role struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name               string         `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Description        string         `gorm:"column:description" json:"description"`
	FeaturePermissions datatypes.JSON `gorm:"column:feature_permissions;type:jsonb" json:"feature_permissions"` // map[string]string
	Builtin            bool           `gorm:"not null;default:false" json:"builtin"`
	CreatedAt          time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Role) TableName() string { return "role" }

// UserRoleOverride is the persisted "view as role" choice of an admin user.
type UserRoleOverride struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	RoleID    uuid.UUID `gorm:"type:uuid;not null" json:"role_id"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserRoleOverride) TableName() string { return "user_role_override" }
