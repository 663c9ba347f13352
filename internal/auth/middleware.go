package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/eshaafi/appointment-service/internal/domain"
	apperrors "github.com/eshaafi/appointment-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal is the decoded identity assertion attached to a request after the
// gate admits it.
type Principal struct {
	SubjectID int64
	Role      domain.Role
}

// Middleware extracts the credential from the token cookie and verifies it.
// Authorization failures are resolved here and never reach handlers.
type Middleware struct {
	tokens     *TokenManager
	denylist   Denylist
	cookieName string
}

// NewMiddleware constructs the gate. denylist may be nil when revocation is
// not wired (tests).
func NewMiddleware(tokens *TokenManager, denylist Denylist, cookieName string) *Middleware {
	if cookieName == "" {
		cookieName = "token"
	}
	return &Middleware{tokens: tokens, denylist: denylist, cookieName: cookieName}
}

// Authenticate enforces the credential for protected routes. A missing cookie
// and a failed verification are reported as distinct 401 codes.
func (m *Middleware) Authenticate(c *fiber.Ctx) error {
	raw := c.Cookies(m.cookieName)
	if raw == "" {
		return apperrors.NewNoCredential()
	}

	claims, err := m.tokens.Verify(raw)
	if err != nil {
		return apperrors.NewInvalidCredential()
	}

	if m.denylist != nil {
		revoked, err := m.denylist.IsRevoked(c.Context(), claims.ID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if revoked {
			return apperrors.NewInvalidCredential()
		}
	}

	subjectID, err := claims.SubjectID()
	if err != nil {
		return apperrors.NewInvalidCredential()
	}

	c.Locals(principalKey, &Principal{SubjectID: subjectID, Role: claims.Role})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated identity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
