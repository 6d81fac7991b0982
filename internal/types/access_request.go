package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	AccessRequestPending  = "pending"
	AccessRequestApproved = "approved"
	AccessRequestDenied   = "denied"
)

type AccessRequest struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RequesterID uuid.UUID  `gorm:"type:uuid;not null;index:idx_access_request_requester" json:"requester_id"`
	Feature     string     `gorm:"not null" json:"feature"`
	Level       string     `gorm:"not null" json:"level"`
	Message     string     `gorm:"not null" json:"message"`
	Status      string     `gorm:"not null;default:'pending';index:idx_access_request_status" json:"status"`
	DecidedBy   *uuid.UUID `gorm:"type:uuid" json:"decided_by,omitempty"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
}

func (AccessRequest) TableName() string { return "access_request" }
