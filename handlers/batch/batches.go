package batch

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/campushub/campus-api/model"
	"github.com/campushub/campus-api/utils/response"
	"github.com/campushub/campus-api/utils/validation"
)

// BatchHandler handles batch-related requests
type BatchHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewBatchHandler creates a new batch handler
func NewBatchHandler(db *gorm.DB) *BatchHandler {
	return &BatchHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateBatchRequest represents the request body for creating a batch.
// StartYear/EndYear accept a bare year ("2024") or a full date ("2024-07-01").
type CreateBatchRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=255"`
	StartYear string `json:"startYear" validate:"required"`
	EndYear   string `json:"endYear" validate:"required"`
	CourseID  uint   `json:"courseId" validate:"required,min=1"`
	CollegeID uint   `json:"collegeId" validate:"required,min=1"`
}

// CreateBatch handles POST /api/batches/create-batch
// The supplied collegeId must match the course's owning college.
func (h *BatchHandler) CreateBatch(c *fiber.Ctx) error {
	var req CreateBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	startYear, err := parseYear(req.StartYear)
	if err != nil {
		return response.BadRequest(c, "Invalid startYear: expected a year or a date")
	}
	endYear, err := parseYear(req.EndYear)
	if err != nil {
		return response.BadRequest(c, "Invalid endYear: expected a year or a date")
	}
	if endYear.Before(startYear) {
		return response.BadRequest(c, "endYear must not be before startYear")
	}

	var course model.Course
	if err := h.db.Where("is_deleted = ?", false).
		First(&course, req.CourseID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to verify course")
	}

	if course.CollegeID != req.CollegeID {
		return response.BadRequest(c, "Course does not belong to the specified college")
	}

	batch := model.Batch{
		CourseID:  course.ID,
		Name:      validation.SanitizeString(req.Name),
		StartYear: startYear,
		EndYear:   endYear,
	}

	if err := h.db.Create(&batch).Error; err != nil {
		return response.InternalServerError(c, "Failed to create batch")
	}

	return response.Created(c, "Batch created successfully", batch)
}

// parseYear turns "2024", "2024-07-01" or an RFC3339 timestamp into a date.
// Bare years resolve to January 1st UTC.
func parseYear(value string) (time.Time, error) {
	if year, err := strconv.Atoi(value); err == nil {
		if year < 1000 || year > 9999 {
			return time.Time{}, errors.New("year out of range")
		}
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), nil
	}

	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, errors.New("unrecognized year format")
}
