package handlers

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/RaheelArfeen/FitFlow-Server/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
)

type NewsletterHandler struct {
	subscriberRepo *repository.SubscriberRepository
}

func NewNewsletterHandler(subscriberRepo *repository.SubscriberRepository) *NewsletterHandler {
	return &NewsletterHandler{subscriberRepo: subscriberRepo}
}

type subscribeRequest struct {
	Email string `json:"email"`
}

func (h *NewsletterHandler) Subscribe(c *fiber.Ctx) error {
	var req subscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	parsedEmail, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid email format"})
	}

	subscriber, err := h.subscriberRepo.Create(c.Context(), strings.ToLower(parsedEmail.Address))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Already subscribed"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to subscribe"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"subscriber": subscriber})
}

func (h *NewsletterHandler) ListSubscribers(c *fiber.Ctx) error {
	subscribers, err := h.subscriberRepo.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list subscribers"})
	}
	return c.JSON(fiber.Map{"subscribers": subscribers})
}
