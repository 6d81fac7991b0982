package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ContractStatusDraft      = "draft"
	ContractStatusActive     = "active"
	ContractStatusDeprecated = "deprecated"
)

type DataContract struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string         `gorm:"not null;index:idx_data_contract_name" json:"name"`
	Version     string         `gorm:"not null;default:'0.1.0';column:version" json:"version"`
	Status      string         `gorm:"not null;default:'draft';column:status" json:"status"`
	Description string         `gorm:"column:description" json:"description"`
	OwnerTeamID *uuid.UUID     `gorm:"type:uuid;index:idx_data_contract_team" json:"owner_team_id,omitempty"`
	OwnerTeam   *Team          `gorm:"foreignKey:OwnerTeamID;references:ID" json:"owner_team,omitempty"`
	Spec        datatypes.JSON `gorm:"column:spec;type:jsonb" json:"spec"` // ODCS-style document
	CreatedBy   uuid.UUID      `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (DataContract) TableName() string { return "data_contract" }
