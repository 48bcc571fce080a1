package university

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/campushub/campus-api/model"
	"github.com/campushub/campus-api/utils/response"
	"github.com/campushub/campus-api/utils/validation"
)

// UniversityHandler handles university-related requests
type UniversityHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewUniversityHandler creates a new university handler
func NewUniversityHandler(db *gorm.DB) *UniversityHandler {
	return &UniversityHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateUniversityRequest represents the request body for creating a university
type CreateUniversityRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
	Code string `json:"code" validate:"required,min=1,max=50"`
}

// UpdateCollegeItem is a nested college entry in a university update. An
// entry with an ID patches that college; one without an ID but with a name
// creates a new college under the university.
type UpdateCollegeItem struct {
	ID   *uint  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// UpdateUniversityRequest represents the request body for updating a
// university. Only supplied fields overwrite existing ones.
type UpdateUniversityRequest struct {
	Name     string              `json:"name" validate:"omitempty,min=1,max=255"`
	Code     string              `json:"code" validate:"omitempty,min=1,max=50"`
	Colleges []UpdateCollegeItem `json:"colleges"`
}

// UniversityDetail is a university with its non-deleted colleges trimmed to
// summaries
type UniversityDetail struct {
	ID        uint                   `json:"id"`
	Name      string                 `json:"name"`
	Code      string                 `json:"code"`
	IsActive  bool                   `json:"isActive"`
	IsDeleted bool                   `json:"isDeleted"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
	Colleges  []model.CollegeSummary `json:"colleges"`
}

// CreateUniversity handles POST /api/university/create-university
func (h *UniversityHandler) CreateUniversity(c *fiber.Ctx) error {
	var req CreateUniversityRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.Name = validation.SanitizeString(req.Name)
	req.Code = validation.SanitizeString(req.Code)

	// The code must be unused by any row, soft-deleted ones included, so a
	// restore can never resurrect a duplicate
	var existing model.University
	if err := h.db.Where("code = ?", req.Code).First(&existing).Error; err == nil {
		return response.Conflict(c, "University with this code already exists")
	} else if err != gorm.ErrRecordNotFound {
		return response.InternalServerError(c, "Failed to check university code")
	}

	university := model.University{
		Name:     req.Name,
		Code:     req.Code,
		IsActive: true,
	}

	if err := h.db.Create(&university).Error; err != nil {
		return response.InternalServerError(c, "Failed to create university")
	}

	return response.Created(c, "University created successfully", university)
}

// ListUniversities handles GET /api/university
// With an id or code query parameter it returns the single matching
// non-deleted university; otherwise all non-deleted ones, newest first.
func (h *UniversityHandler) ListUniversities(c *fiber.Ctx) error {
	idParam := c.Query("id", "")
	codeParam := c.Query("code", "")

	if idParam != "" || codeParam != "" {
		query := h.db.Where("is_deleted = ?", false)
		if idParam != "" {
			id, err := strconv.Atoi(idParam)
			if err != nil {
				return response.BadRequest(c, "Invalid university id")
			}
			query = query.Where("id = ?", id)
		}
		if codeParam != "" {
			query = query.Where("code = ?", codeParam)
		}

		var university model.University
		if err := query.First(&university).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return response.NotFound(c, "University not found")
			}
			return response.InternalServerError(c, "Failed to fetch university")
		}

		detail, err := h.loadDetail(university, true)
		if err != nil {
			return response.InternalServerError(c, "Failed to fetch colleges")
		}

		return response.SuccessWithMessage(c, "University fetched successfully", detail)
	}

	var universities []model.University
	if err := h.db.Where("is_deleted = ?", false).
		Order("created_at DESC").
		Find(&universities).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch universities")
	}

	details := make([]UniversityDetail, 0, len(universities))
	for _, u := range universities {
		detail, err := h.loadDetail(u, false)
		if err != nil {
			return response.InternalServerError(c, "Failed to fetch colleges")
		}
		details = append(details, *detail)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":      true,
		"message":      "Universities fetched successfully",
		"count":        len(details),
		"universities": details,
	})
}

// UpdateUniversity handles PUT /api/university/:id
// Patch semantics on name/code, plus an optional nested college upsert.
func (h *UniversityHandler) UpdateUniversity(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid university id")
	}

	var req UpdateUniversityRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var university model.University
	if err := h.db.First(&university, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "University not found or deleted")
		}
		return response.InternalServerError(c, "Failed to fetch university")
	}
	if university.IsDeleted {
		return response.NotFound(c, "University not found or deleted")
	}

	if req.Code != "" && req.Code != university.Code {
		var existing model.University
		if err := h.db.Where("code = ? AND id != ?", req.Code, id).First(&existing).Error; err == nil {
			return response.Conflict(c, "Another university with this code already exists")
		} else if err != gorm.ErrRecordNotFound {
			return response.InternalServerError(c, "Failed to check university code")
		}
		university.Code = validation.SanitizeString(req.Code)
	}
	if req.Name != "" {
		university.Name = validation.SanitizeString(req.Name)
	}

	if err := h.db.Save(&university).Error; err != nil {
		return response.InternalServerError(c, "Failed to update university")
	}

	// Nested college upsert
	for _, item := range req.Colleges {
		if item.ID != nil {
			updates := map[string]interface{}{}
			if item.Name != "" {
				updates["name"] = validation.SanitizeString(item.Name)
			}
			if item.Code != "" {
				updates["code"] = validation.SanitizeString(item.Code)
			}
			if len(updates) == 0 {
				continue
			}
			// Scoped to this university: a college id belonging to another
			// university is ignored rather than updated
			if err := h.db.Model(&model.College{}).
				Where("id = ? AND university_id = ?", *item.ID, university.ID).
				Updates(updates).Error; err != nil {
				return response.InternalServerError(c, "Failed to update college")
			}
		} else if item.Name != "" {
			college := model.College{
				UniversityID: university.ID,
				Name:         validation.SanitizeString(item.Name),
				Code:         validation.SanitizeString(item.Code),
			}
			if err := h.db.Create(&college).Error; err != nil {
				return response.InternalServerError(c, "Failed to create college")
			}
		}
	}

	detail, err := h.loadDetail(university, true)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch colleges")
	}

	return response.SuccessWithMessage(c, "University updated successfully", detail)
}

// DeleteUniversity handles DELETE /api/university/:id (soft delete)
func (h *UniversityHandler) DeleteUniversity(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid university id")
	}

	var university model.University
	if err := h.db.First(&university, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "University not found or already deleted")
		}
		return response.InternalServerError(c, "Failed to fetch university")
	}
	if university.IsDeleted {
		return response.NotFound(c, "University not found or already deleted")
	}

	university.IsDeleted = true
	university.IsActive = false

	if err := h.db.Save(&university).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete university")
	}

	return response.SuccessWithMessage(c, "University deactivated successfully", university)
}

// RestoreUniversity handles PATCH /api/university/:id/restore
func (h *UniversityHandler) RestoreUniversity(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid university id")
	}

	var university model.University
	if err := h.db.First(&university, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "University not found")
		}
		return response.InternalServerError(c, "Failed to fetch university")
	}

	if !university.IsDeleted {
		return response.BadRequest(c, "University is already active")
	}

	university.IsDeleted = false
	university.IsActive = true

	if err := h.db.Save(&university).Error; err != nil {
		return response.InternalServerError(c, "Failed to restore university")
	}

	return response.SuccessWithMessage(c, "University restored successfully", university)
}

// loadDetail fetches the university's non-deleted colleges as summaries.
// withCreatedAt controls whether college creation timestamps are exposed
// (single fetch does, the list does not).
func (h *UniversityHandler) loadDetail(university model.University, withCreatedAt bool) (*UniversityDetail, error) {
	columns := "id, name, code"
	if withCreatedAt {
		columns = "id, name, code, created_at"
	}

	var colleges []model.CollegeSummary
	if err := h.db.Model(&model.College{}).
		Select(columns).
		Where("university_id = ? AND is_deleted = ?", university.ID, false).
		Find(&colleges).Error; err != nil {
		return nil, err
	}

	return &UniversityDetail{
		ID:        university.ID,
		Name:      university.Name,
		Code:      university.Code,
		IsActive:  university.IsActive,
		IsDeleted: university.IsDeleted,
		CreatedAt: university.CreatedAt,
		UpdatedAt: university.UpdatedAt,
		Colleges:  colleges,
	}, nil
}
