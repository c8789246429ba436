// Package schema provides database schema models for skillmap.
// The models are the typed record shapes of the pipeline: source
// skills, equivalence relationships, taxonomy mappings, master
// concepts and the reference taxonomy tree.
package schema

import (
	"time"
)

// RelationType classifies the equivalence relationship of a skill.
type RelationType string

const (
	// RelationStateVariant marks skills that express the same concept
	// at the same or adjacent grade, issued by different authorities.
	RelationStateVariant RelationType = "state-variant"

	// RelationGradeProgression marks skills of one concept family
	// spiraling across sequential grades.
	RelationGradeProgression RelationType = "grade-progression"

	// RelationUnique marks skills with no qualifying relationship.
	RelationUnique RelationType = "unique"
)

// Confidence is the three-valued trust tier of a taxonomy mapping.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// MappingStatus is the processing outcome of one mapping attempt.
type MappingStatus string

const (
	StatusSuccess       MappingStatus = "success"
	StatusError         MappingStatus = "error"
	StatusNoSuggestions MappingStatus = "no_suggestions"
)

// Skill is one source competency statement. Skills are read-only to
// the pipeline after import.
type Skill struct {
	// ID is the external identifier of the skill.
	ID string `gorm:"primaryKey;type:varchar(100)"`

	// Name is the display name of the skill.
	Name string `gorm:"type:varchar(500);not null"`

	// NameNormalized is the lower-cased, punctuation-stripped form of
	// Name used for similarity comparison.
	NameNormalized string `gorm:"type:varchar(500);not null;index"`

	// ContentArea is the subject of the skill (e.g. Math, ELA).
	ContentArea string `gorm:"type:varchar(100);not null;index"`

	// GradeLabel is the grade as issued (e.g. "K", "3", "PreK").
	GradeLabel string `gorm:"type:varchar(20)"`

	// GradeRank is the numeric rank derived from GradeLabel.
	// PreK=-1, K=0, grades 1-12 as numbers, ungraded=-100.
	GradeRank int

	// SkillArea is the skill-area label within the content area.
	SkillArea string `gorm:"type:varchar(200)"`

	// Authority is the issuing body of the skill (a state code or a
	// universal cross-state standard).
	Authority string `gorm:"type:varchar(50);not null;index"`
}

// EquivalenceGroup is one equivalence class produced by the variant
// classifier. The full set is regenerated wholesale on every
// classifier run.
type EquivalenceGroup struct {
	// ID is a deterministic UUID v5 over the sorted member skill IDs.
	ID string `gorm:"primaryKey;type:uuid"`

	// RelationType is the relationship shared by all members.
	RelationType RelationType `gorm:"type:varchar(20);not null;index"`

	// Authorities is the comma-joined set of distinct authorities
	// represented in the group.
	Authorities string `gorm:"type:varchar(500)"`

	// MemberCount is the number of skills in the group.
	MemberCount int
}

// EquivalenceMember binds one skill to its equivalence group.
// A skill belongs to exactly one group.
type EquivalenceMember struct {
	// SkillID is the member skill.
	SkillID string `gorm:"primaryKey;type:varchar(100)"`

	// GroupID is the equivalence group of the skill.
	GroupID string `gorm:"type:uuid;not null;index"`

	// PrerequisiteID points to the immediately preceding skill in a
	// grade-progression chain. Empty for other relation types.
	PrerequisiteID string `gorm:"type:varchar(100)"`

	// ComplexityLevel is the ordinal position along a progression
	// chain, starting at 1. Zero for other relation types.
	ComplexityLevel int
}

// TaxonomyMapping binds one skill to one path in the reference
// taxonomy. Records are append-only; corrections happen by explicit
// re-processing only.
type TaxonomyMapping struct {
	// SkillID is the mapped skill.
	SkillID string `gorm:"primaryKey;type:varchar(100)"`

	// Path is the resolved taxonomy path, level names joined
	// root-to-leaf with " > ".
	Path string `gorm:"type:varchar(1000)"`

	// Confidence is the three-valued trust tier.
	Confidence Confidence `gorm:"type:varchar(10);index"`

	// Rationale is the machine-generated explanation of the choice.
	Rationale string `gorm:"type:text"`

	// Similarity is the semantic similarity score (0-1) of the chosen
	// path. A secondary signal, never a replacement for Confidence.
	Similarity float64

	// Alternative1 and Alternative2 are runner-up candidate paths.
	Alternative1 string `gorm:"type:varchar(1000)"`
	Alternative2 string `gorm:"type:varchar(1000)"`

	// NeedsReview is true iff Confidence is Low or Similarity is
	// below the configured review threshold.
	NeedsReview bool `gorm:"index"`

	// Status records the processing outcome.
	Status MappingStatus `gorm:"type:varchar(20);not null"`

	// Error preserves the raw remote response on failures for
	// diagnosis.
	Error string `gorm:"type:text"`

	// CreatedAt is the processing timestamp.
	CreatedAt time.Time
}

// MasterConcept is one canonical competency aggregated from a
// state-variant equivalence group. A derived view, regenerated
// wholesale, never hand-edited.
type MasterConcept struct {
	// ID is a deterministic UUID v5 of the seed group ID.
	ID string `gorm:"primaryKey;type:uuid"`

	// GroupID is the equivalence group the concept was derived from.
	GroupID string `gorm:"type:uuid;not null;index"`

	// Name is the leaf of the representative taxonomy path, falling
	// back to the most common member skill name.
	Name string `gorm:"type:varchar(500);not null"`

	// Path is the representative taxonomy path of the group.
	Path string `gorm:"type:varchar(1000)"`

	// ComplexityBand summarizes the developmental level of the
	// members: K-2, 3-5, 6-8, 9-12, Mixed or Unknown.
	ComplexityBand string `gorm:"type:varchar(10)"`

	// TextType, TextMode and SkillDomain are optional enrichment
	// fields filled by majority vote when metadata exists.
	TextType    string `gorm:"type:varchar(100)"`
	TextMode    string `gorm:"type:varchar(100)"`
	SkillDomain string `gorm:"type:varchar(100)"`

	// MemberCount is the number of member skills.
	MemberCount int
}

// ConceptSkill is the skill to master-concept bridge table.
type ConceptSkill struct {
	ConceptID string `gorm:"primaryKey;type:uuid"`
	SkillID   string `gorm:"primaryKey;type:varchar(100)"`
}

// TaxonomyNode is one node of the external reference hierarchy.
// Static reference data, only read by the pipeline.
type TaxonomyNode struct {
	// ID is a deterministic UUID v5 of the full path.
	ID string `gorm:"primaryKey;type:uuid"`

	// Level is the depth of the node, 1-based: Strand, Pillar,
	// Domain, Skill Area, Skill Set, Skill Subset.
	Level int `gorm:"not null;index"`

	// Name is the node name at its level.
	Name string `gorm:"type:varchar(500);not null"`

	// ParentID is the UUID of the parent node, empty for roots.
	ParentID string `gorm:"type:uuid;index"`

	// Path is the full path root-to-node joined with " > ".
	Path string `gorm:"type:varchar(1000);not null"`

	// IsLeaf is true when the node has no children.
	IsLeaf bool `gorm:"index"`
}

// SkillMetadata is optional per-skill enrichment input. Its absence
// never blocks concept generation.
type SkillMetadata struct {
	SkillID     string `gorm:"primaryKey;type:varchar(100)"`
	TextType    string `gorm:"type:varchar(100)"`
	TextMode    string `gorm:"type:varchar(100)"`
	SkillDomain string `gorm:"type:varchar(100)"`
}

// TableName keeps the uncountable noun singular in the database.
func (SkillMetadata) TableName() string {
	return "skill_metadata"
}

// LevelNames are the fixed names of the taxonomy hierarchy levels.
var LevelNames = []string{
	"Strand", "Pillar", "Domain", "Skill Area", "Skill Set", "Skill Subset",
}

// PathSeparator joins taxonomy level names into a path string.
const PathSeparator = " > "
