package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/campushub/campus-api/services/identity"
	"github.com/campushub/campus-api/utils/response"
)

const principalKey = "principal"

// AuthMiddleware gates requests on bearer tokens verified by the external
// identity provider
type AuthMiddleware struct {
	identity *identity.Client
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(identityClient *identity.Client) *AuthMiddleware {
	return &AuthMiddleware{
		identity: identityClient,
	}
}

// Required verifies the Authorization header and attaches the resolved
// principal to the request context
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "Missing or invalid Authorization header")
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return response.Unauthorized(c, "Missing or invalid Authorization header")
		}

		principal, err := m.identity.VerifyToken(c.Context(), parts[1])
		if err != nil {
			if errors.Is(err, identity.ErrInvalidToken) {
				return response.Unauthorized(c, "Invalid or expired token")
			}
			// Provider unreachable or misbehaving is our failure, not the caller's
			return response.InternalServerError(c, "Failed to verify token")
		}

		c.Locals(principalKey, principal)

		return c.Next()
	}
}

// GetPrincipal extracts the verified principal from the request context
func GetPrincipal(c *fiber.Ctx) (*identity.Principal, bool) {
	value := c.Locals(principalKey)
	if value == nil {
		return nil, false
	}
	p, ok := value.(*identity.Principal)
	return p, ok
}
