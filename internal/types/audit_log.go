package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditLog struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     *uuid.UUID     `gorm:"type:uuid;index:idx_audit_log_user" json:"user_id,omitempty"`
	Username   string         `gorm:"column:username" json:"username"`
	Action     string         `gorm:"not null;index:idx_audit_log_action" json:"action"`
	EntityType string         `gorm:"not null;index:idx_audit_log_entity" json:"entity_type"`
	EntityID   string         `gorm:"index:idx_audit_log_entity" json:"entity_id"`
	Success    bool           `gorm:"not null;default:true" json:"success"`
	TraceID    string         `gorm:"column:trace_id" json:"trace_id,omitempty"`
	Details    datatypes.JSON `gorm:"column:details;type:jsonb" json:"details,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;default:now();index:idx_audit_log_created" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_log" }
