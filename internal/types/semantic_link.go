package types

import (
	"time"

	"github.com/google/uuid"
)

type SemanticLink struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EntityID   string    `gorm:"not null;index:idx_semantic_link_entity" json:"entity_id"`
	EntityType string    `gorm:"not null;index:idx_semantic_link_entity" json:"entity_type"`
	IRI        string    `gorm:"not null;index:idx_semantic_link_iri;column:iri" json:"iri"`
	CreatedBy  uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (SemanticLink) TableName() string { return "semantic_link" }
