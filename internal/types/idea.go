package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	IdeaStatusPending  = "pending"
	IdeaStatusApproved = "approved"
	IdeaStatusRejected = "rejected"
)

// ProjectIdea is the submission under review. Status only ever moves from
// pending to approved or rejected; both are terminal. UniquenessScore is
// nil until a similarity check has run (100 - similarity).
type ProjectIdea struct {
	ID              uuid.UUID                  `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string                     `gorm:"not null;column:title" json:"title"`
	Description     string                     `gorm:"not null;column:description" json:"description"`
	StudentID       uuid.UUID                  `gorm:"type:uuid;index;not null;column:student_id" json:"student_id"`
	Student         *User                      `gorm:"foreignKey:StudentID;references:ID" json:"-"`
	AreasOfInterest datatypes.JSONSlice[string] `gorm:"column:areas_of_interest" json:"areas_of_interest"`
	DomainInterest  string                     `gorm:"not null;column:domain_interest" json:"domain_interest"`
	LanguagesKnown  datatypes.JSONSlice[string] `gorm:"column:languages_known" json:"languages_known"`
	AdditionalInfo  string                     `gorm:"column:additional_info" json:"additional_info,omitempty"`
	Status          string                     `gorm:"not null;default:pending;index;column:status" json:"status"`
	Feedback        string                     `gorm:"column:feedback" json:"feedback,omitempty"`
	IsUnique        bool                       `gorm:"not null;default:true;column:is_unique" json:"is_unique"`
	UniquenessScore *int                       `gorm:"column:uniqueness_score" json:"uniqueness_score,omitempty"`
	SubmittedAt     time.Time                  `gorm:"not null;index;column:submitted_at" json:"submitted_at"`
	ReviewedAt      *time.Time                 `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	ReviewedBy      *uuid.UUID                 `gorm:"type:uuid;column:reviewed_by" json:"reviewed_by,omitempty"`
}

func (ProjectIdea) TableName() string { return "project_idea" }

func ValidIdeaStatus(status string) bool {
	return status == IdeaStatusApproved || status == IdeaStatusRejected
}
