package permissions

import "strings"

// AccessLevel is a totally ordered permission tier scoped to a feature area.
type AccessLevel int

const (
	LevelNone AccessLevel = iota
	LevelReadOnly
	LevelReadWrite
	LevelAdmin
)

// Feature areas known to the application.
const (
	FeatureDataContracts  = "data-contracts"
	FeatureProjects       = "projects"
	FeatureTeams          = "teams"
	FeatureGlossary       = "business-glossary"
	FeatureSemanticModels = "semantic-models"
	FeatureAudit          = "audit"
	FeatureSettings       = "settings"
)

func (l AccessLevel) String() string {
	switch l {
	case LevelReadOnly:
		return "read-only"
	case LevelReadWrite:
		return "read-write"
	case LevelAdmin:
		return "admin"
	default:
		return "none"
	}
}

// ParseLevel accepts both the wire form ("read-write") and the constant form
// ("READ_WRITE"); anything unknown maps to none.
func ParseLevel(s string) AccessLevel {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-") {
	case "read-only", "readonly", "read":
		return LevelReadOnly
	case "read-write", "readwrite", "write":
		return LevelReadWrite
	case "admin":
		return LevelAdmin
	default:
		return LevelNone
	}
}

// Allows reports whether a held level satisfies a required one.
func (l AccessLevel) Allows(required AccessLevel) bool {
	return l >= required
}
