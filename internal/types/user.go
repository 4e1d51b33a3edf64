package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleStudent = "student"
	RoleStaff   = "staff"
)

type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email      string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password   string    `gorm:"not null;column:password" json:"-"`
	Name       string    `gorm:"not null;column:name" json:"name"`
	Role       string    `gorm:"not null;column:role" json:"role"`
	Department string    `gorm:"column:department" json:"department"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "user" }

// ValidRole reports whether the role is one of the two fixed roles.
// Roles are mutually exclusive and set at registration.
func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleStaff
}
