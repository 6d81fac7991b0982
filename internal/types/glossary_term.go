package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// GlossaryTerm is the persisted form of an ontology concept. ParentIRIs is the
// structural source of truth for the hierarchy; ChildIRIs is a hint only.
type GlossaryTerm struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	IRI          string         `gorm:"uniqueIndex;not null;column:iri" json:"iri"`
	Label        string         `gorm:"column:label" json:"label"`
	Kind         string         `gorm:"not null;default:'concept';index:idx_glossary_term_kind" json:"kind"`
	TaxonomyName string         `gorm:"column:taxonomy_name;index:idx_glossary_term_taxonomy" json:"taxonomy_name"`
	Comment      string         `gorm:"column:comment" json:"comment"`
	ParentIRIs   datatypes.JSON `gorm:"column:parent_iris;type:jsonb" json:"parent_iris"` // []string
	ChildIRIs    datatypes.JSON `gorm:"column:child_iris;type:jsonb" json:"child_iris"`   // []string
	SourceCtx    string         `gorm:"column:source_context" json:"source_context"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (GlossaryTerm) TableName() string { return "glossary_term" }
