package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/RaheelArfeen/FitFlow-Server/internal/models"
	"github.com/RaheelArfeen/FitFlow-Server/internal/services"
	"github.com/gofiber/fiber/v2"
)

type slotManagementService interface {
	CreateSlot(ctx context.Context, userID int64, input services.CreateSlotInput) (*models.Slot, error)
	ListOwnSlots(ctx context.Context, userID int64) ([]models.SlotWithMembers, error)
	DeleteSlot(ctx context.Context, userID, slotID int64) error
}

type SlotHandler struct {
	service  slotManagementService
	userRepo principalResolver
}

func NewSlotHandler(service *services.TrainerService, userRepo principalResolver) *SlotHandler {
	return &SlotHandler{service: service, userRepo: userRepo}
}

type createSlotRequest struct {
	Name            string   `json:"name"`
	Time            string   `json:"time"`
	Days            []string `json:"days"`
	DurationMinutes int      `json:"duration_minutes"`
	MaxParticipants int      `json:"max_participants"`
}

func (h *SlotHandler) CreateSlot(c *fiber.Ctx) error {
	user, err := currentPrincipal(c, h.userRepo)
	if err != nil {
		return respondUnauthenticated(c)
	}

	var req createSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	slot, err := h.service.CreateSlot(c.Context(), user.ID, services.CreateSlotInput{
		Name:            req.Name,
		Time:            req.Time,
		Days:            req.Days,
		DurationMinutes: req.DurationMinutes,
		MaxParticipants: req.MaxParticipants,
	})
	if err != nil {
		return mapSlotError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"slot": slot})
}

func (h *SlotHandler) ListOwnSlots(c *fiber.Ctx) error {
	user, err := currentPrincipal(c, h.userRepo)
	if err != nil {
		return respondUnauthenticated(c)
	}

	slots, err := h.service.ListOwnSlots(c.Context(), user.ID)
	if err != nil {
		return mapSlotError(c, err)
	}
	return c.JSON(fiber.Map{"slots": slots})
}

func (h *SlotHandler) DeleteSlot(c *fiber.Ctx) error {
	user, err := currentPrincipal(c, h.userRepo)
	if err != nil {
		return respondUnauthenticated(c)
	}

	slotID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || slotID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid slot id"})
	}

	if err := h.service.DeleteSlot(c.Context(), user.ID, slotID); err != nil {
		return mapSlotError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func mapSlotError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrTrainerNotFound), errors.Is(err, services.ErrTrainerNotActive):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not an accepted trainer"})
	case errors.Is(err, services.ErrSlotNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Slot not found"})
	case errors.Is(err, services.ErrSlotHasBookings):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process slot request"})
	}
}
