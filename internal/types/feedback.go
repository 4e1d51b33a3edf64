package types

import (
	"time"

	"github.com/google/uuid"
)

// Feedback is an append-only record of a staff comment left during review.
// The latest text is also denormalized onto ProjectIdea.Feedback.
type Feedback struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	IdeaID    uuid.UUID `gorm:"type:uuid;index;not null;column:idea_id" json:"idea_id"`
	StaffID   uuid.UUID `gorm:"type:uuid;index;not null;column:staff_id" json:"staff_id"`
	Content   string    `gorm:"not null;column:content" json:"content"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Feedback) TableName() string { return "feedback" }
