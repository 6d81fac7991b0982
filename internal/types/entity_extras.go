package types

import (
	"time"

	"github.com/google/uuid"
)

// EntityNote is a single free-text note attached to any catalog entity.
type EntityNote struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EntityType string    `gorm:"not null;uniqueIndex:idx_entity_note_unique" json:"entity_type"`
	EntityID   string    `gorm:"not null;uniqueIndex:idx_entity_note_unique" json:"entity_id"`
	Content    string    `gorm:"column:content" json:"content"`
	UpdatedBy  uuid.UUID `gorm:"type:uuid;not null" json:"updated_by"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (EntityNote) TableName() string { return "entity_note" }

// EntityLink is a URL attached to a catalog entity, e.g. a wiki page or
// dashboard.
type EntityLink struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EntityType string    `gorm:"not null;index:idx_entity_link_entity" json:"entity_type"`
	EntityID   string    `gorm:"not null;index:idx_entity_link_entity" json:"entity_id"`
	URL        string    `gorm:"not null;column:url" json:"url"`
	Title      string    `gorm:"column:title" json:"title"`
	CreatedBy  uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (EntityLink) TableName() string { return "entity_link" }

type EntityDocument struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EntityType  string    `gorm:"not null;index:idx_entity_document_entity" json:"entity_type"`
	EntityID    string    `gorm:"not null;index:idx_entity_document_entity" json:"entity_id"`
	Filename    string    `gorm:"not null" json:"filename"`
	BucketKey   string    `gorm:"not null;column:bucket_key" json:"-"`
	URL         string    `gorm:"column:url" json:"url"`
	ContentType string    `gorm:"column:content_type" json:"content_type"`
	SizeBytes   int64     `gorm:"column:size_bytes" json:"size_bytes"`
	UploadedBy  uuid.UUID `gorm:"type:uuid;not null" json:"uploaded_by"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (EntityDocument) TableName() string { return "entity_document" }
