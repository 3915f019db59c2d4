package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/RaheelArfeen/FitFlow-Server/internal/models"
	"github.com/RaheelArfeen/FitFlow-Server/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type communityApplicationService interface {
	CreatePost(ctx context.Context, authorID int64, title, content string) (*models.Post, error)
	ListPosts(ctx context.Context, page, limit int) ([]models.Post, int, error)
	GetPost(ctx context.Context, postID int64) (*models.PostDetail, error)
	CastVote(ctx context.Context, voterID, postID int64, voteType string) (*models.VoteCounts, error)
	AddComment(ctx context.Context, authorID, postID int64, text string) (*models.Comment, error)
	DeleteComment(ctx context.Context, actorID int64, role string, commentID int64) error
}

type CommunityHandler struct {
	service  communityApplicationService
	userRepo principalResolver
}

func NewCommunityHandler(service *services.CommunityService, userRepo principalResolver) *CommunityHandler {
	return &CommunityHandler{service: service, userRepo: userRepo}
}

type createPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type castVoteRequest struct {
	PostID int64  `json:"post_id"`
	Type   string `json:"type"`
}

type addCommentRequest struct {
	Text string `json:"text"`
}

func (h *CommunityHandler) CreatePost(c *fiber.Ctx) error {
	user, err := currentPrincipal(c, h.userRepo)
	if err != nil {
		return respondUnauthenticated(c)
	}

	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	post, err := h.service.CreatePost(c.Context(), user.ID, req.Title, req.Content)
	if err != nil {
		return mapCommunityError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"post": post})
}

func (h *CommunityHandler) ListPosts(c *fiber.Ctx) error {
	page, limit := parsePageParams(c)

	posts, total, err := h.service.ListPosts(c.Context(), page, limit)
	if err != nil {
		return mapCommunityError(c, err)
	}
	return c.JSON(fiber.Map{
		"posts":      posts,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

func (h *CommunityHandler) GetPost(c *fiber.Ctx) error {
	postID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || postID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid post id"})
	}

	post, err := h.service.GetPost(c.Context(), postID)
	if err != nil {
		return mapCommunityError(c, err)
	}
	return c.JSON(fiber.Map{"post": post})
}

func (h *CommunityHandler) CastVote(c *fiber.Ctx) error {
	user, err := currentPrincipal(c, h.userRepo)
	if err != nil {
		return respondUnauthenticated(c)
	}

	var req castVoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	counts, err := h.service.CastVote(c.Context(), user.ID, req.PostID, req.Type)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "nothing to toggle"})
		}
		return mapCommunityError(c, err)
	}
	return c.JSON(counts)
}

func (h *CommunityHandler) AddComment(c *fiber.Ctx) error {
	user, err := currentPrincipal(c, h.userRepo)
	if err != nil {
		return respondUnauthenticated(c)
	}

	postID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || postID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid post id"})
	}

	var req addCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	comment, err := h.service.AddComment(c.Context(), user.ID, postID, req.Text)
	if err != nil {
		return mapCommunityError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"comment": comment})
}

func (h *CommunityHandler) DeleteComment(c *fiber.Ctx) error {
	user, err := currentPrincipal(c, h.userRepo)
	if err != nil {
		return respondUnauthenticated(c)
	}

	commentID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || commentID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid comment id"})
	}

	if err := h.service.DeleteComment(c.Context(), user.ID, user.Role, commentID); err != nil {
		return mapCommunityError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func mapCommunityError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrPostNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Comment not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process community request"})
	}
}
