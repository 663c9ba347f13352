package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/eshaafi/appointment-service/internal/api/dto"
	"github.com/eshaafi/appointment-service/internal/config"
	"github.com/eshaafi/appointment-service/internal/service"
)

// UsersHandler exposes registration, login and profile endpoints.
type UsersHandler struct {
	auth    *service.AuthService
	authCfg config.AuthConfig
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, authCfg config.AuthConfig) *UsersHandler {
	return &UsersHandler{auth: authService, authCfg: authCfg}
}

// Register handles POST /api/users/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := validateBody(c, &req); err != nil {
		return err
	}

	user, token, exp, err := h.auth.Register(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setCredentialCookie(c, token, exp)
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewUserResponse(user),
	})
}

// Login handles POST /api/users/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := validateBody(c, &req); err != nil {
		return err
	}

	user, token, exp, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setCredentialCookie(c, token, exp)
	return c.JSON(fiber.Map{
		"data": dto.NewUserResponse(user),
	})
}

// Logout handles POST /api/users/logout. Works for anonymous callers too.
func (h *UsersHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.Context(), c.Cookies(h.authCfg.CookieName)); err != nil {
		return err
	}
	h.clearCredentialCookie(c)
	return c.JSON(fiber.Map{"data": fiber.Map{"logged_out": true}})
}

// Profile handles GET /api/users/profile.
func (h *UsersHandler) Profile(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	user, err := h.auth.Profile(c.Context(), principal.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// UpdateProfile handles PUT /api/users/profile.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := validateBody(c, &req); err != nil {
		return err
	}
	user, err := h.auth.UpdateProfile(c.Context(), principal.SubjectID, service.ProfileUpdateInput{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// setCredentialCookie attaches the signed credential. SameSite=None plus
// Secure lets the browser include it on cross-origin credentialed requests
// from the allow-listed frontend.
func (h *UsersHandler) setCredentialCookie(c *fiber.Ctx, token string, exp time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     h.authCfg.CookieName,
		Value:    token,
		Expires:  exp,
		HTTPOnly: true,
		Secure:   h.authCfg.CookieSecure,
		SameSite: fiber.CookieSameSiteNoneMode,
		Path:     "/",
	})
}

func (h *UsersHandler) clearCredentialCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.authCfg.CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.authCfg.CookieSecure,
		SameSite: fiber.CookieSameSiteNoneMode,
		Path:     "/",
	})
}
