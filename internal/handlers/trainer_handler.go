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

type trainerApplicationService interface {
	Apply(ctx context.Context, userID int64, bio *string) (*models.Trainer, error)
	Decide(ctx context.Context, trainerID int64, decision string) (*models.Trainer, error)
	ListAccepted(ctx context.Context) ([]models.TrainerDetail, error)
	GetTrainer(ctx context.Context, trainerID int64) (*models.TrainerDetail, error)
}

type trainerRatingService interface {
	SubmitRating(ctx context.Context, raterID, trainerID int64, value int) (*models.RatingSummary, error)
	SubmitReview(ctx context.Context, reviewerID, trainerID int64, rating int, comment *string) (*models.Review, error)
	ListReviews(ctx context.Context, trainerID int64) ([]models.Review, error)
}

type TrainerHandler struct {
	service  trainerApplicationService
	ratings  trainerRatingService
	userRepo principalResolver
}

func NewTrainerHandler(
	service *services.TrainerService,
	ratings *services.RatingService,
	userRepo principalResolver,
) *TrainerHandler {
	return &TrainerHandler{service: service, ratings: ratings, userRepo: userRepo}
}

type applyRequest struct {
	Bio *string `json:"bio"`
}

type decideRequest struct {
	Status string `json:"status"`
}

type rateRequest struct {
	Value int `json:"value"`
}

type reviewRequest struct {
	Rating  int     `json:"rating"`
	Comment *string `json:"comment"`
}

func (h *TrainerHandler) Apply(c *fiber.Ctx) error {
	user, err := currentPrincipal(c, h.userRepo)
	if err != nil {
		return respondUnauthenticated(c)
	}
	if user.Role != models.RoleMember {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only members can apply"})
	}

	var req applyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Bio != nil && strings.TrimSpace(*req.Bio) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bio must not be empty"})
	}

	trainer, err := h.service.Apply(c.Context(), user.ID, req.Bio)
	if err != nil {
		return mapTrainerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"trainer": trainer})
}

func (h *TrainerHandler) ListTrainers(c *fiber.Ctx) error {
	trainers, err := h.service.ListAccepted(c.Context())
	if err != nil {
		return mapTrainerError(c, err)
	}
	return c.JSON(fiber.Map{"trainers": trainers})
}

func (h *TrainerHandler) GetTrainer(c *fiber.Ctx) error {
	trainerID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || trainerID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid trainer id"})
	}

	trainer, err := h.service.GetTrainer(c.Context(), trainerID)
	if err != nil {
		return mapTrainerError(c, err)
	}
	return c.JSON(fiber.Map{"trainer": trainer})
}

// Decide is the admin decision endpoint; the admin check happens in routing.
func (h *TrainerHandler) Decide(c *fiber.Ctx) error {
	trainerID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || trainerID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid trainer id"})
	}

	var req decideRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	trainer, err := h.service.Decide(c.Context(), trainerID, strings.ToLower(strings.TrimSpace(req.Status)))
	if err != nil {
		return mapTrainerError(c, err)
	}
	return c.JSON(fiber.Map{"trainer": trainer})
}

func (h *TrainerHandler) RateTrainer(c *fiber.Ctx) error {
	user, err := currentPrincipal(c, h.userRepo)
	if err != nil {
		return respondUnauthenticated(c)
	}

	trainerID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || trainerID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid trainer id"})
	}

	var req rateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	summary, err := h.ratings.SubmitRating(c.Context(), user.ID, trainerID, req.Value)
	if err != nil {
		return mapTrainerError(c, err)
	}
	return c.JSON(summary)
}

func (h *TrainerHandler) SubmitReview(c *fiber.Ctx) error {
	user, err := currentPrincipal(c, h.userRepo)
	if err != nil {
		return respondUnauthenticated(c)
	}

	trainerID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || trainerID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid trainer id"})
	}

	var req reviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	review, err := h.ratings.SubmitReview(c.Context(), user.ID, trainerID, req.Rating, req.Comment)
	if err != nil {
		return mapTrainerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"review": review})
}

func (h *TrainerHandler) ListReviews(c *fiber.Ctx) error {
	trainerID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || trainerID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid trainer id"})
	}

	reviews, err := h.ratings.ListReviews(c.Context(), trainerID)
	if err != nil {
		return mapTrainerError(c, err)
	}
	return c.JSON(fiber.Map{"reviews": reviews})
}

func mapTrainerError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrTrainerNotActive):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrTrainerNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trainer not found"})
	case errors.Is(err, services.ErrAlreadyApplied),
		errors.Is(err, services.ErrAlreadyDecided),
		errors.Is(err, services.ErrDuplicateRating),
		errors.Is(err, services.ErrDuplicateReview),
		errors.Is(err, services.ErrNoEligibleBooking):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trainer not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process trainer request"})
	}
}
