package routes

import (
	"github.com/RaheelArfeen/FitFlow-Server/internal/cache"
	"github.com/RaheelArfeen/FitFlow-Server/internal/config"
	"github.com/RaheelArfeen/FitFlow-Server/internal/handlers"
	"github.com/RaheelArfeen/FitFlow-Server/internal/middleware"
	"github.com/RaheelArfeen/FitFlow-Server/internal/repository"
	"github.com/RaheelArfeen/FitFlow-Server/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool, logger *zap.Logger) {
	userRepo := repository.NewUserRepository(db)
	trainerRepo := repository.NewTrainerRepository(db)
	slotRepo := repository.NewSlotRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	postRepo := repository.NewPostRepository(db)
	subscriberRepo := repository.NewSubscriberRepository(db)

	var trainerCache services.TrainerCache
	if cfg.RedisAddr != "" {
		trainerCache = cache.NewRedisTrainerCache(cfg.RedisAddr, cfg.RedisPassword, cfg.TrainerCacheTTL)
	}

	trainerService := services.NewTrainerService(db, trainerRepo, slotRepo, userRepo, trainerCache, logger)
	ratingService := services.NewRatingService(db, trainerRepo, reviewRepo)
	bookingService := services.NewBookingService(db, bookingRepo, trainerRepo, logger)
	communityService := services.NewCommunityService(db, postRepo)
	paymentProvider := services.NewLocalPaymentProvider()

	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	trainerHandler := handlers.NewTrainerHandler(trainerService, ratingService, userRepo)
	slotHandler := handlers.NewSlotHandler(trainerService, userRepo)
	bookingHandler := handlers.NewBookingHandler(bookingService, paymentProvider, userRepo)
	communityHandler := handlers.NewCommunityHandler(communityService, userRepo)
	newsletterHandler := handlers.NewNewsletterHandler(subscriberRepo)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	api.Post("/newsletter/subscribe", newsletterHandler.Subscribe)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	trainers := authProtected.Group("/trainers")
	trainers.Get("", trainerHandler.ListTrainers)
	trainers.Post("/apply", trainerHandler.Apply)
	trainers.Post("/slots", slotHandler.CreateSlot)
	trainers.Get("/slots", slotHandler.ListOwnSlots)
	trainers.Delete("/slots/:id", slotHandler.DeleteSlot)
	trainers.Get("/:id", trainerHandler.GetTrainer)
	trainers.Patch("/:id/status", middleware.AdminOnly(), trainerHandler.Decide)
	trainers.Post("/:id/rating", trainerHandler.RateTrainer)
	trainers.Get("/:id/reviews", trainerHandler.ListReviews)
	trainers.Post("/:id/reviews", trainerHandler.SubmitReview)

	bookings := authProtected.Group("/bookings")
	bookings.Post("", bookingHandler.ReserveSlot)
	bookings.Get("", bookingHandler.ListBookings)
	bookings.Get("/:id", bookingHandler.GetBooking)
	bookings.Patch("/:id", bookingHandler.UpdatePayment)

	authProtected.Post("/payments/intent", bookingHandler.CreatePaymentIntent)

	community := authProtected.Group("/community")
	community.Get("/posts", communityHandler.ListPosts)
	community.Post("/posts", communityHandler.CreatePost)
	community.Get("/posts/:id", communityHandler.GetPost)
	community.Post("/posts/:id/comments", communityHandler.AddComment)
	community.Delete("/comments/:id", communityHandler.DeleteComment)
	community.Post("/vote", communityHandler.CastVote)

	authProtected.Get("/newsletter/subscribers", middleware.AdminOnly(), newsletterHandler.ListSubscribers)

	if cfg.DocsEnabled() {
		registerDocs(app)
	}
}
