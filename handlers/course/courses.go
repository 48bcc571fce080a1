package course

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/campushub/campus-api/model"
	"github.com/campushub/campus-api/utils/response"
	"github.com/campushub/campus-api/utils/validation"
)

// CourseHandler handles course-related requests
type CourseHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(db *gorm.DB) *CourseHandler {
	return &CourseHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateCourseRequest represents the request body for creating a course
type CreateCourseRequest struct {
	CollegeID uint   `json:"collegeId" validate:"required,min=1"`
	Name      string `json:"name" validate:"required,min=1,max=255"`
	Code      string `json:"code" validate:"omitempty,max=50"`
}

// CreateCourse handles POST /api/courses/create-course
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	var req CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.Name = validation.SanitizeString(req.Name)
	req.Code = validation.SanitizeString(req.Code)

	var college model.College
	if err := h.db.Where("is_deleted = ?", false).
		First(&college, req.CollegeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "College not found")
		}
		return response.InternalServerError(c, "Failed to verify college")
	}

	course := model.Course{
		CollegeID: college.ID,
		Name:      req.Name,
		Code:      req.Code,
	}

	if err := h.db.Create(&course).Error; err != nil {
		return response.InternalServerError(c, "Failed to create course")
	}

	return response.Created(c, "Course created successfully", course)
}

// ListCourses handles GET /api/courses
// Soft-deleted courses are filtered like every other listing.
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	var courses []model.Course
	if err := h.db.Where("is_deleted = ?", false).
		Preload("College").
		Order("created_at DESC").
		Find(&courses).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch courses")
	}

	return response.Success(c, courses)
}
