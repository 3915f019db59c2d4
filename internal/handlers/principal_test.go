package handlers

import (
	"context"

	"github.com/RaheelArfeen/FitFlow-Server/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

// stubUserResolver backs the handler tests with a fixed principal, so the
// token middleware can be replaced by a Locals-setting stub.
type stubUserResolver struct {
	user *models.User
}

func (s *stubUserResolver) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, pgx.ErrNoRows
	}
	return s.user, nil
}

func withPrincipal(email string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("email", email)
		return c.Next()
	}
}
