package model

import (
	"time"
)

// User roles. The identity provider only authenticates; the role lives here.
const (
	RoleStudent = "STUDENT"
	RoleTeacher = "TEACHER"
)

// User mirrors an account at the external identity provider. The ID is the
// provider-issued UUID, never generated locally.
type User struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Name      string    `gorm:"not null" json:"name"`
	Role      string    `gorm:"type:varchar(20);default:'STUDENT'" json:"role"` // STUDENT, TEACHER
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relationships
	Student *StudentProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
	Teacher *TeacherProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"teacher,omitempty"`
}

// StudentProfile links a student to their batch and college
type StudentProfile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	BatchID   *uint     `json:"batchId"`
	CollegeID *uint     `json:"collegeId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relationships
	Batch   *Batch   `gorm:"foreignKey:BatchID" json:"batch,omitempty"`
	College *College `gorm:"foreignKey:CollegeID" json:"college,omitempty"`
}

// TeacherProfile links a teacher to their college and taught subjects
type TeacherProfile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	CollegeID *uint     `json:"collegeId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relationships
	College      *College         `gorm:"foreignKey:CollegeID" json:"college,omitempty"`
	SubjectLinks []TeacherSubject `gorm:"foreignKey:TeacherProfileID;constraint:OnDelete:CASCADE" json:"subjectLinks,omitempty"`
}

// Subject is an individual academic subject a teacher can be linked to
type Subject struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Code      string    `gorm:"type:varchar(50)" json:"code"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TeacherSubject joins teacher profiles to subjects
type TeacherSubject struct {
	ID               uint `gorm:"primaryKey" json:"id"`
	TeacherProfileID uint `gorm:"not null;index" json:"teacherProfileId"`
	SubjectID        uint `gorm:"not null;index" json:"subjectId"`

	// Relationships
	Subject Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
}
