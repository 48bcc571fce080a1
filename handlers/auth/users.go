package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campushub/campus-api/model"
	"github.com/campushub/campus-api/utils/response"
	"github.com/campushub/campus-api/utils/validation"
)

// AuthHandler handles user bootstrap and profile requests
type AuthHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateUserRequest represents the request body for bootstrapping a user.
// The ID comes from the identity provider, never generated here.
type CreateUserRequest struct {
	ID    string `json:"id" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"omitempty,max=255"`
	Role  string `json:"role" validate:"omitempty,oneof=STUDENT TEACHER"`
}

// CreateUser handles POST /api/auth/create-user
// Idempotent: a second call with the same id returns the original row.
func (h *AuthHandler) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if _, err := uuid.Parse(req.ID); err != nil {
		return response.BadRequest(c, "id must be a valid UUID")
	}

	var existing model.User
	if err := h.db.Where("id = ?", req.ID).First(&existing).Error; err == nil {
		return response.SuccessWithMessage(c, "User already exists", existing)
	} else if err != gorm.ErrRecordNotFound {
		return response.InternalServerError(c, "Failed to check existing user")
	}

	role := req.Role
	if role == "" {
		role = model.RoleStudent
	}

	user := model.User{
		ID:    req.ID,
		Email: req.Email,
		Name:  validation.SanitizeString(req.Name),
		Role:  role,
	}

	if err := h.db.Create(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to create user")
	}

	return response.Created(c, "User created successfully", user)
}
