package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/RaheelArfeen/FitFlow-Server/internal/models"
	"github.com/RaheelArfeen/FitFlow-Server/internal/services"
	"github.com/gofiber/fiber/v2"
)

type stubTrainerService struct {
	applyResult   *models.Trainer
	applyErr      error
	decideResult  *models.Trainer
	decideErr     error
	listResult    []models.TrainerDetail
	listErr       error
	getResult     *models.TrainerDetail
	getErr        error
	lastUserID    int64
	lastBio       *string
	lastTrainerID int64
	lastDecision  string
}

func (s *stubTrainerService) Apply(_ context.Context, userID int64, bio *string) (*models.Trainer, error) {
	s.lastUserID = userID
	s.lastBio = bio
	return s.applyResult, s.applyErr
}

func (s *stubTrainerService) Decide(_ context.Context, trainerID int64, decision string) (*models.Trainer, error) {
	s.lastTrainerID = trainerID
	s.lastDecision = decision
	return s.decideResult, s.decideErr
}

func (s *stubTrainerService) ListAccepted(_ context.Context) ([]models.TrainerDetail, error) {
	return s.listResult, s.listErr
}

func (s *stubTrainerService) GetTrainer(_ context.Context, trainerID int64) (*models.TrainerDetail, error) {
	s.lastTrainerID = trainerID
	return s.getResult, s.getErr
}

type stubRatingService struct {
	rateResult    *models.RatingSummary
	rateErr       error
	reviewResult  *models.Review
	reviewErr     error
	reviewsResult []models.Review
	reviewsErr    error
	lastRaterID   int64
	lastTrainerID int64
	lastValue     int
	lastComment   *string
}

func (s *stubRatingService) SubmitRating(_ context.Context, raterID, trainerID int64, value int) (*models.RatingSummary, error) {
	s.lastRaterID = raterID
	s.lastTrainerID = trainerID
	s.lastValue = value
	return s.rateResult, s.rateErr
}

func (s *stubRatingService) SubmitReview(_ context.Context, reviewerID, trainerID int64, rating int, comment *string) (*models.Review, error) {
	s.lastRaterID = reviewerID
	s.lastTrainerID = trainerID
	s.lastValue = rating
	s.lastComment = comment
	return s.reviewResult, s.reviewErr
}

func (s *stubRatingService) ListReviews(_ context.Context, trainerID int64) ([]models.Review, error) {
	s.lastTrainerID = trainerID
	return s.reviewsResult, s.reviewsErr
}

func newTrainerTestApp(service trainerApplicationService, ratings trainerRatingService, role string) *fiber.App {
	handler := &TrainerHandler{
		service: service,
		ratings: ratings,
		userRepo: &stubUserResolver{
			user: &models.User{ID: 42, Name: "Mia", Email: "mia@example.com", Role: role},
		},
	}

	app := fiber.New()
	app.Use(withPrincipal("mia@example.com"))
	app.Post("/api/v1/trainers/apply", handler.Apply)
	app.Get("/api/v1/trainers", handler.ListTrainers)
	app.Get("/api/v1/trainers/:id", handler.GetTrainer)
	app.Patch("/api/v1/trainers/:id/status", handler.Decide)
	app.Post("/api/v1/trainers/:id/rating", handler.RateTrainer)
	app.Post("/api/v1/trainers/:id/reviews", handler.SubmitReview)
	app.Get("/api/v1/trainers/:id/reviews", handler.ListReviews)
	return app
}

func TestApplyReturnsPendingApplication(t *testing.T) {
	service := &stubTrainerService{
		applyResult: &models.Trainer{ID: 11, UserID: 42, Status: models.TrainerStatusPending},
	}
	app := newTrainerTestApp(service, &stubRatingService{}, models.RoleMember)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trainers/apply", strings.NewReader(`{"bio":"ten years of coaching"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastUserID != 42 {
		t.Fatalf("expected applicant 42, got %d", service.lastUserID)
	}
	if service.lastBio == nil || *service.lastBio != "ten years of coaching" {
		t.Fatalf("bio not forwarded: %v", service.lastBio)
	}
}

func TestApplyForbiddenForNonMembers(t *testing.T) {
	service := &stubTrainerService{}
	app := newTrainerTestApp(service, &stubRatingService{}, models.RoleTrainer)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trainers/apply", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if service.lastUserID != 0 {
		t.Fatalf("service should not be called")
	}
}

func TestApplyReturnsConflictWhenAlreadyApplied(t *testing.T) {
	service := &stubTrainerService{applyErr: services.ErrAlreadyApplied}
	app := newTrainerTestApp(service, &stubRatingService{}, models.RoleMember)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trainers/apply", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestDecideNormalizesAndForwardsStatus(t *testing.T) {
	service := &stubTrainerService{
		decideResult: &models.Trainer{ID: 11, Status: models.TrainerStatusAccepted},
	}
	app := newTrainerTestApp(service, &stubRatingService{}, models.RoleAdmin)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/trainers/11/status", strings.NewReader(`{"status":" Accepted "}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastTrainerID != 11 || service.lastDecision != models.TrainerStatusAccepted {
		t.Fatalf("unexpected forwarding: id=%d decision=%q", service.lastTrainerID, service.lastDecision)
	}
}

func TestDecideConflictOnTerminalState(t *testing.T) {
	service := &stubTrainerService{decideErr: services.ErrAlreadyDecided}
	app := newTrainerTestApp(service, &stubRatingService{}, models.RoleAdmin)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/trainers/11/status", strings.NewReader(`{"status":"rejected"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestListTrainersReturnsDirectory(t *testing.T) {
	service := &stubTrainerService{
		listResult: []models.TrainerDetail{
			{Trainer: models.Trainer{ID: 1, Status: models.TrainerStatusAccepted}},
			{Trainer: models.Trainer{ID: 2, Status: models.TrainerStatusAccepted}},
		},
	}
	app := newTrainerTestApp(service, &stubRatingService{}, models.RoleMember)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trainers", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Trainers []models.TrainerDetail `json:"trainers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(body.Trainers) != 2 {
		t.Fatalf("expected 2 trainers, got %d", len(body.Trainers))
	}
}

func TestGetTrainerReturnsNotFound(t *testing.T) {
	service := &stubTrainerService{getErr: services.ErrTrainerNotFound}
	app := newTrainerTestApp(service, &stubRatingService{}, models.RoleMember)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trainers/999", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestRateTrainerReturnsSummary(t *testing.T) {
	ratings := &stubRatingService{
		rateResult: &models.RatingSummary{AverageRating: 4.5, TotalRatings: 2},
	}
	app := newTrainerTestApp(&stubTrainerService{}, ratings, models.RoleMember)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trainers/3/rating", strings.NewReader(`{"value":5}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ratings.lastRaterID != 42 || ratings.lastTrainerID != 3 || ratings.lastValue != 5 {
		t.Fatalf("unexpected forwarding: %+v", ratings)
	}

	var summary models.RatingSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if summary.AverageRating != 4.5 || summary.TotalRatings != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestRateTrainerConflictOnDuplicate(t *testing.T) {
	ratings := &stubRatingService{rateErr: services.ErrDuplicateRating}
	app := newTrainerTestApp(&stubTrainerService{}, ratings, models.RoleMember)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trainers/3/rating", strings.NewReader(`{"value":4}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestSubmitReviewRequiresEligibleBooking(t *testing.T) {
	ratings := &stubRatingService{reviewErr: services.ErrNoEligibleBooking}
	app := newTrainerTestApp(&stubTrainerService{}, ratings, models.RoleMember)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trainers/3/reviews", strings.NewReader(`{"rating":5,"comment":"great"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	if ratings.lastComment == nil || *ratings.lastComment != "great" {
		t.Fatalf("comment not forwarded: %v", ratings.lastComment)
	}
}
