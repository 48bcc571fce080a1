package model

import (
	"time"

	"gorm.io/datatypes"
)

// College belongs to exactly one University. Coordinates are resolved by the
// geocoding service at creation time; GeocodeResult keeps the raw provider
// payload for the stored latitude/longitude.
type College struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	UniversityID uint   `gorm:"not null;index" json:"universityId"`
	Name         string `gorm:"not null" json:"name"`
	Code         string `gorm:"type:varchar(50)" json:"code"`
	Type         string `gorm:"type:varchar(50)" json:"type"` // e.g., "ENGINEERING", "MEDICAL"

	Address    string `gorm:"not null" json:"address"`
	City       string `gorm:"type:varchar(100)" json:"city"`
	State      string `gorm:"type:varchar(100)" json:"state"`
	Country    string `gorm:"type:varchar(100)" json:"country"`
	PostalCode string `gorm:"type:varchar(20)" json:"postalCode"`

	Latitude      *float64       `json:"latitude"`
	Longitude     *float64       `json:"longitude"`
	GeocodeResult datatypes.JSON `json:"-"`

	Email           string `gorm:"type:varchar(255)" json:"email"`
	Phone           string `gorm:"type:varchar(50)" json:"phone"`
	EstablishedYear *int   `json:"establishedYear"`

	IsDeleted bool      `gorm:"default:false;index" json:"isDeleted"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relationships
	University University `gorm:"foreignKey:UniversityID;constraint:OnDelete:CASCADE" json:"university,omitempty"`
	Courses    []Course   `gorm:"foreignKey:CollegeID;constraint:OnDelete:CASCADE" json:"courses,omitempty"`
}

// CollegeSummary is the trimmed shape embedded in university responses.
// CreatedAt is a pointer so list responses can leave it out entirely.
type CollegeSummary struct {
	ID        uint       `json:"id"`
	Name      string     `json:"name"`
	Code      string     `json:"code"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}
