package college

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/campushub/campus-api/model"
	"github.com/campushub/campus-api/services/geocode"
	"github.com/campushub/campus-api/utils/response"
	"github.com/campushub/campus-api/utils/validation"
)

// CollegeHandler handles college-related requests
type CollegeHandler struct {
	db        *gorm.DB
	geocoder  *geocode.Client
	validator *validation.Validator
}

// NewCollegeHandler creates a new college handler
func NewCollegeHandler(db *gorm.DB, geocoder *geocode.Client) *CollegeHandler {
	return &CollegeHandler{
		db:        db,
		geocoder:  geocoder,
		validator: validation.NewValidator(),
	}
}

// CreateCollegeRequest represents the request body for creating a college
type CreateCollegeRequest struct {
	UniversityID    uint   `json:"universityId" validate:"required,min=1"`
	Name            string `json:"name" validate:"required,min=1,max=255"`
	Code            string `json:"code" validate:"omitempty,max=50"`
	Type            string `json:"type" validate:"omitempty,max=50"`
	Address         string `json:"address" validate:"required,min=1"`
	City            string `json:"city" validate:"omitempty,max=100"`
	State           string `json:"state" validate:"omitempty,max=100"`
	Country         string `json:"country" validate:"omitempty,max=100"`
	PostalCode      string `json:"postalCode" validate:"omitempty,max=20"`
	Email           string `json:"email" validate:"omitempty,email,max=255"`
	Phone           string `json:"phone" validate:"omitempty,max=50"`
	EstablishedYear *int   `json:"establishedYear" validate:"omitempty,gte=1000,lte=2100"`
}

// CreateCollege handles POST /api/college/create-college
// The create is aborted when the address cannot be geocoded; a college is
// never stored without coordinates.
func (h *CollegeHandler) CreateCollege(c *fiber.Ctx) error {
	var req CreateCollegeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.Name = validation.SanitizeString(req.Name)
	req.Address = validation.SanitizeString(req.Address)

	var university model.University
	if err := h.db.Where("is_deleted = ?", false).
		First(&university, req.UniversityID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "University not found")
		}
		return response.InternalServerError(c, "Failed to verify university")
	}

	fullAddress := fmt.Sprintf("%s, %s, %s, %s %s",
		req.Address, req.City, req.State, req.Country, req.PostalCode)

	located, err := h.geocoder.Lookup(c.Context(), fullAddress)
	if err != nil {
		return response.BadRequest(c, "Could not get coordinates for the provided address")
	}

	college := model.College{
		UniversityID:    university.ID,
		Name:            req.Name,
		Code:            req.Code,
		Type:            req.Type,
		Address:         req.Address,
		City:            req.City,
		State:           req.State,
		Country:         req.Country,
		PostalCode:      req.PostalCode,
		Latitude:        &located.Latitude,
		Longitude:       &located.Longitude,
		GeocodeResult:   datatypes.JSON(located.Raw),
		Email:           req.Email,
		Phone:           req.Phone,
		EstablishedYear: req.EstablishedYear,
	}

	if err := h.db.Create(&college).Error; err != nil {
		return response.InternalServerError(c, "Failed to create college")
	}

	return response.Created(c, "College created successfully with geolocation", college)
}

// ListColleges handles GET /api/college
func (h *CollegeHandler) ListColleges(c *fiber.Ctx) error {
	var colleges []model.College
	if err := h.db.Where("is_deleted = ?", false).
		Order("name ASC").
		Find(&colleges).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch colleges")
	}

	return response.Success(c, colleges)
}
