package model

import (
	"time"
)

// University represents an educational institution at the top of the hierarchy.
// Rows are never hard-deleted: IsDeleted hides them and IsActive moves in
// lockstep with it so a restore brings back the exact previous state.
type University struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Code      string    `gorm:"uniqueIndex;not null" json:"code"` // e.g., "AKTU", "DU"
	IsActive  bool      `gorm:"default:true" json:"isActive"`
	IsDeleted bool      `gorm:"default:false;index" json:"isDeleted"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relationships
	Colleges []College `gorm:"foreignKey:UniversityID;constraint:OnDelete:CASCADE" json:"colleges,omitempty"`
}
