package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/campushub/campus-api/model"
	"github.com/campushub/campus-api/utils/middleware"
	"github.com/campushub/campus-api/utils/response"
)

// ProfileResponse is the user with exactly one role-specific detail attached:
// students get their batch (with course) and college, teachers their college
// and subject links. Users without a profile get neither.
type ProfileResponse struct {
	ID        string                `json:"id"`
	Email     string                `json:"email"`
	Name      string                `json:"name"`
	Role      string                `json:"role"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
	Student   *model.StudentProfile `json:"student,omitempty"`
	Teacher   *model.TeacherProfile `json:"teacher,omitempty"`
}

// GetProfile handles GET /api/auth/profile
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok || principal == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var user model.User
	if err := h.db.Where("id = ?", principal.ID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "User profile not found")
		}
		return response.InternalServerError(c, "Failed to fetch profile")
	}

	profile := ProfileResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	switch user.Role {
	case model.RoleStudent:
		var student model.StudentProfile
		err := h.db.Where("user_id = ?", user.ID).
			Preload("Batch.Course").
			Preload("College").
			First(&student).Error
		if err == nil {
			profile.Student = &student
		} else if err != gorm.ErrRecordNotFound {
			return response.InternalServerError(c, "Failed to fetch student profile")
		}
	case model.RoleTeacher:
		var teacher model.TeacherProfile
		err := h.db.Where("user_id = ?", user.ID).
			Preload("College").
			Preload("SubjectLinks.Subject").
			First(&teacher).Error
		if err == nil {
			profile.Teacher = &teacher
		} else if err != gorm.ErrRecordNotFound {
			return response.InternalServerError(c, "Failed to fetch teacher profile")
		}
	}

	return response.Success(c, profile)
}
