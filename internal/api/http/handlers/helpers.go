package handlers

import (
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"

	"github.com/eshaafi/appointment-service/internal/auth"
	apperrors "github.com/eshaafi/appointment-service/pkg/util"
)

// principalFrom returns the gate-attached identity. Routes behind the gate
// always have one; a miss means the route was wired without it.
func principalFrom(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewNoCredential()
	}
	return principal, nil
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+name, map[string]any{name: c.Params(name)})
	}
	return id, nil
}

func queryID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+name, map[string]any{name: c.Query(name)})
	}
	return id, nil
}

func queryIntDefault(c *fiber.Ctx, name string, fallback int) int {
	val := c.Query(name)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

// validateBody parses and validates a JSON payload, translating ozzo field
// errors into the standard error envelope.
func validateBody(c *fiber.Ctx, req interface{ Validate() error }) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		details := map[string]any{}
		if fieldErrs, ok := err.(validation.Errors); ok {
			for field, ferr := range fieldErrs {
				details[field] = ferr.Error()
			}
		}
		return apperrors.NewValidationError("validation failed", details)
	}
	return nil
}
