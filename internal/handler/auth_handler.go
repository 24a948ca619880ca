package handler

import (
	"retail-backoffice/internal/middleware"
	"retail-backoffice/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login exchanges an employee id and PIN for a bearer token
// POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Me echoes the caller's token claims
// GET /auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, err := h.authService.Authenticate(c.UserContext(), middleware.BearerToken(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"employeeId": claims.EmployeeID,
		"name":       claims.Name,
		"roles":      claims.Roles,
		"expiresAt":  claims.ExpiresAt.Time,
	})
}
