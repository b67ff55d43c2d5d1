package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/project-service/internal/auth"
	"github.com/spec-kit/project-service/internal/authz"
	apperrors "github.com/spec-kit/project-service/pkg/util"
)

// requirePrincipal pulls the authenticated caller from the request and
// shapes it for the policy engine.
func requirePrincipal(c *fiber.Ctx) (authz.Principal, *auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return authz.Principal{}, nil, apperrors.NewUnauthorized("authentication required")
	}
	return authz.Principal{UserID: principal.ID(), Role: principal.Role()}, principal, nil
}
