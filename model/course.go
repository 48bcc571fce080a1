package model

import (
	"time"
)

// Course represents an academic program offered by a college (e.g., MCA, BCA)
type Course struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CollegeID uint      `gorm:"not null;index" json:"collegeId"`
	Name      string    `gorm:"not null" json:"name"`
	Code      string    `gorm:"type:varchar(50)" json:"code"`
	IsDeleted bool      `gorm:"default:false;index" json:"isDeleted"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relationships
	College College `gorm:"foreignKey:CollegeID;constraint:OnDelete:CASCADE" json:"college,omitempty"`
	Batches []Batch `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"batches,omitempty"`
}

// Batch is an admission cohort of a course. Start and end years are stored as
// dates (January 1st of the given year when only a year is supplied).
type Batch struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CourseID  uint      `gorm:"not null;index" json:"courseId"`
	Name      string    `gorm:"not null" json:"name"`
	StartYear time.Time `gorm:"not null" json:"startYear"`
	EndYear   time.Time `gorm:"not null" json:"endYear"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relationships
	Course Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"course,omitempty"`
}
