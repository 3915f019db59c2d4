package routes

import (
	"github.com/gofiber/fiber/v2"
)

type docsEndpoint struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Auth   string `json:"auth"`
	Notes  string `json:"notes"`
}

var docsEndpoints = []docsEndpoint{
	{"GET", "/health", "none", "liveness probe"},
	{"POST", "/api/auth/register", "none", "register as member"},
	{"POST", "/api/auth/login", "none", "obtain bearer token"},
	{"GET", "/api/auth/me", "bearer", "current principal"},
	{"POST", "/api/newsletter/subscribe", "none", "newsletter signup"},
	{"GET", "/api/v1/trainers", "bearer", "accepted trainers with slots"},
	{"POST", "/api/v1/trainers/apply", "bearer", "member applies as trainer"},
	{"GET", "/api/v1/trainers/:id", "bearer", "trainer detail"},
	{"PATCH", "/api/v1/trainers/:id/status", "admin", "accept or reject application"},
	{"POST", "/api/v1/trainers/:id/rating", "bearer", "rate an accepted trainer once"},
	{"GET", "/api/v1/trainers/:id/reviews", "bearer", "trainer reviews"},
	{"POST", "/api/v1/trainers/:id/reviews", "bearer", "review a booked trainer once"},
	{"POST", "/api/v1/trainers/slots", "bearer", "accepted trainer adds a slot"},
	{"GET", "/api/v1/trainers/slots", "bearer", "own slots with rosters"},
	{"DELETE", "/api/v1/trainers/slots/:id", "bearer", "delete an unbooked slot"},
	{"POST", "/api/v1/bookings", "bearer", "reserve a seat in a slot"},
	{"GET", "/api/v1/bookings", "bearer", "own bookings (trainer: own-slot, admin: all)"},
	{"GET", "/api/v1/bookings/:id", "bearer", "booking detail"},
	{"PATCH", "/api/v1/bookings/:id", "bearer", "payment status update"},
	{"POST", "/api/v1/payments/intent", "bearer", "create a payment handle"},
	{"GET", "/api/v1/community/posts", "bearer", "paginated forum posts"},
	{"POST", "/api/v1/community/posts", "bearer", "create a post"},
	{"GET", "/api/v1/community/posts/:id", "bearer", "post with comments"},
	{"POST", "/api/v1/community/posts/:id/comments", "bearer", "comment on a post"},
	{"DELETE", "/api/v1/community/comments/:id", "bearer", "author or admin deletes"},
	{"POST", "/api/v1/community/vote", "bearer", "toggle like/dislike"},
	{"GET", "/api/v1/newsletter/subscribers", "admin", "subscriber list"},
}

// registerDocs serves a machine-readable endpoint index for development.
func registerDocs(app *fiber.App) {
	app.Get("/docs", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service":   "FitFlow Server",
			"endpoints": docsEndpoints,
		})
	})
}
