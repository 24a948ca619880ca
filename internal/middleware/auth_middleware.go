package middleware

import (
	"strings"

	"retail-backoffice/internal/model"
	"retail-backoffice/internal/service"
	"retail-backoffice/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

const (
	LocalEmployeeID    = "employee_id"
	LocalEmployeeName  = "employee_name"
	LocalEmployeeRoles = "employee_roles"
)

// Guards are the per-route checks. With auth disabled every guard lets the request through.
type Guards struct {
	// Authenticated requires a valid bearer token
	Authenticated fiber.Handler
	// Admin requires the ADMIN role
	Admin fiber.Handler
	// Seller requires SALESPERSON or ADMIN
	Seller fiber.Handler
}

func NewGuards(authService service.AuthService, required bool) Guards {
	if !required {
		pass := func(c *fiber.Ctx) error { return c.Next() }
		return Guards{Authenticated: pass, Admin: pass, Seller: pass}
	}
	return Guards{
		Authenticated: RequireAuth(authService),
		Admin:         RequireAuth(authService, model.RoleAdmin),
		Seller:        RequireAuth(authService, model.RoleSalesperson, model.RoleAdmin),
	}
}

// BearerToken extracts the token from "Authorization: Bearer <token>", or "" if absent
func BearerToken(c *fiber.Ctx) string {
	parts := strings.Fields(c.Get(fiber.HeaderAuthorization))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// RequireAuth validates the JWT and stores the employee in locals.
// When roles are given the employee must hold at least one of them.
func RequireAuth(authService service.AuthService, roles ...model.EmployeeRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Missing authorization token")
		}
		token := BearerToken(c)
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid authorization format. Use: Bearer <token>")
		}

		claims, err := authService.Authenticate(c.UserContext(), token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, jwt.ErrInvalidToken.Error())
		}

		if len(roles) > 0 && !hasAnyRole(claims.Roles, roles) {
			names := make([]string, len(roles))
			for i, r := range roles {
				names[i] = string(r)
			}
			return fiber.NewError(fiber.StatusForbidden, "Forbidden: requires one of "+strings.Join(names, ", ")+" roles")
		}

		c.Locals(LocalEmployeeID, claims.EmployeeID.String())
		c.Locals(LocalEmployeeName, claims.Name)
		c.Locals(LocalEmployeeRoles, claims.Roles)

		return c.Next()
	}
}

func hasAnyRole(have []string, want []model.EmployeeRole) bool {
	for _, h := range have {
		for _, w := range want {
			if h == string(w) {
				return true
			}
		}
	}
	return false
}
