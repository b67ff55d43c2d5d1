package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/project-service/internal/domain"
	apperrors "github.com/spec-kit/project-service/pkg/util"
)

// RequireRole ensures the principal holds one of the allowed roles.
// Route-level gating mirrors the policy engine's coarse role rules so
// obviously unauthorized requests are rejected before a handler runs;
// the engine stays the source of truth for anything team-scoped.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role()]; !exists {
			return apperrors.NewForbidden(apperrors.ReasonNotAuthorized)
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures a caller is present regardless of role.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
