package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/RaheelArfeen/FitFlow-Server/internal/models"
	"github.com/RaheelArfeen/FitFlow-Server/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type bookingApplicationService interface {
	ReserveSlot(ctx context.Context, userID int64, principalEmail string, input services.ReserveSlotInput) (*models.Booking, error)
	ListBookings(ctx context.Context, actorID int64, role string, status string) ([]models.Booking, error)
	GetBooking(ctx context.Context, actorID int64, role string, bookingID int64) (*models.Booking, error)
	UpdatePayment(ctx context.Context, actorID int64, role string, bookingID int64, status string, transactionID *string) (*models.Booking, error)
}

type BookingHandler struct {
	service  bookingApplicationService
	payments services.PaymentProvider
	userRepo principalResolver
}

func NewBookingHandler(
	service *services.BookingService,
	payments services.PaymentProvider,
	userRepo principalResolver,
) *BookingHandler {
	return &BookingHandler{service: service, payments: payments, userRepo: userRepo}
}

type reserveSlotRequest struct {
	TrainerID     int64   `json:"trainer_id"`
	SlotID        int64   `json:"slot_id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Package       string  `json:"package"`
	Price         float64 `json:"price"`
	TransactionID string  `json:"transaction_id"`
}

type updatePaymentRequest struct {
	PaymentStatus string  `json:"payment_status"`
	TransactionID *string `json:"transaction_id"`
}

type paymentIntentRequest struct {
	Price float64 `json:"price"`
}

func (h *BookingHandler) ReserveSlot(c *fiber.Ctx) error {
	user, err := currentPrincipal(c, h.userRepo)
	if err != nil {
		return respondUnauthenticated(c)
	}

	var req reserveSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Price <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "price must be greater than 0"})
	}
	if strings.TrimSpace(req.TransactionID) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "transaction_id is required"})
	}

	booking, err := h.service.ReserveSlot(c.Context(), user.ID, user.Email, services.ReserveSlotInput{
		TrainerID:     req.TrainerID,
		SlotID:        req.SlotID,
		MemberName:    req.Name,
		MemberEmail:   req.Email,
		Package:       req.Package,
		Price:         req.Price,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		return mapBookingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"booking": booking})
}

func (h *BookingHandler) ListBookings(c *fiber.Ctx) error {
	user, err := currentPrincipal(c, h.userRepo)
	if err != nil {
		return respondUnauthenticated(c)
	}

	bookings, err := h.service.ListBookings(c.Context(), user.ID, user.Role, strings.TrimSpace(c.Query("status")))
	if err != nil {
		return mapBookingError(c, err)
	}
	return c.JSON(fiber.Map{"bookings": bookings})
}

func (h *BookingHandler) GetBooking(c *fiber.Ctx) error {
	user, err := currentPrincipal(c, h.userRepo)
	if err != nil {
		return respondUnauthenticated(c)
	}

	bookingID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || bookingID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	booking, err := h.service.GetBooking(c.Context(), user.ID, user.Role, bookingID)
	if err != nil {
		return mapBookingError(c, err)
	}
	return c.JSON(fiber.Map{"booking": booking})
}

func (h *BookingHandler) UpdatePayment(c *fiber.Ctx) error {
	user, err := currentPrincipal(c, h.userRepo)
	if err != nil {
		return respondUnauthenticated(c)
	}

	bookingID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || bookingID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	var req updatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	booking, err := h.service.UpdatePayment(
		c.Context(),
		user.ID,
		user.Role,
		bookingID,
		strings.ToLower(strings.TrimSpace(req.PaymentStatus)),
		req.TransactionID,
	)
	if err != nil {
		return mapBookingError(c, err)
	}
	return c.JSON(fiber.Map{"booking": booking})
}

func (h *BookingHandler) CreatePaymentIntent(c *fiber.Ctx) error {
	if _, err := currentPrincipal(c, h.userRepo); err != nil {
		return respondUnauthenticated(c)
	}

	var req paymentIntentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	intent, err := h.payments.CreateIntent(c.Context(), req.Price)
	if err != nil {
		return mapBookingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"intent": intent})
}

func mapBookingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrTrainerNotActive):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrTrainerNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trainer not found"})
	case errors.Is(err, services.ErrSlotNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Slot not found"})
	case errors.Is(err, services.ErrSlotFull):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Slot full"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process booking request"})
	}
}
