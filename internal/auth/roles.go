package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/eshaafi/appointment-service/internal/domain"
	apperrors "github.com/eshaafi/appointment-service/pkg/util"
)

// RequireAuthenticated admits any principal regardless of role.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewNoCredential()
		}
		return c.Next()
	}
}

// RequireRole admits principals holding one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewNoCredential()
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireAdmin gates the platform admin surface.
func RequireAdmin() fiber.Handler {
	return RequireRole(domain.RoleAdmin)
}

// RequireDoctor gates doctor self-service routes.
func RequireDoctor() fiber.Handler {
	return RequireRole(domain.RoleDoctor)
}

// RequireClinicAdmin gates the clinic admin subtree. SUPER_ADMIN passes every
// clinic gate; tenancy is still re-checked in the services.
func RequireClinicAdmin() fiber.Handler {
	return RequireRole(domain.RoleClinicAdmin, domain.RoleSuperAdmin)
}

// RequireSuperAdmin gates system-wide operations.
func RequireSuperAdmin() fiber.Handler {
	return RequireRole(domain.RoleSuperAdmin)
}
