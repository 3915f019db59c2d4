package handlers

import (
	"context"
	"errors"

	"github.com/RaheelArfeen/FitFlow-Server/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

// principalResolver turns the authenticated email from the token into the
// current user record. The database role is authoritative: a token minted
// before a trainer decision would otherwise carry a stale role.
type principalResolver interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

var errUnauthenticated = errors.New("unauthenticated")

func currentPrincipal(c *fiber.Ctx, users principalResolver) (*models.User, error) {
	email, ok := c.Locals("email").(string)
	if !ok || email == "" {
		return nil, errUnauthenticated
	}
	user, err := users.GetByEmail(c.Context(), email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

func respondUnauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
}
