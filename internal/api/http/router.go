package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/parts-store/internal/api/http/handlers"
	"github.com/spec-kit/parts-store/internal/auth"
	"github.com/spec-kit/parts-store/internal/observability"
	"github.com/spec-kit/parts-store/internal/ratelimit"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Parts     *handlers.PartsHandler
	Reviews   *handlers.ReviewsHandler
	Orders    *handlers.OrdersHandler
	Users     *handlers.UsersHandler
	Payments  *handlers.PaymentsHandler
	Guard     *auth.Guard
	Verifier  *auth.Verifier
	AdminGate *auth.AdminGate
	Limiter   *ratelimit.Limiter
	Metrics   *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	verified := cfg.Guard.Require(cfg.Verifier)
	adminOnly := cfg.Guard.Require(cfg.Verifier, cfg.AdminGate)
	ownOrders := cfg.Guard.Require(cfg.Verifier, auth.RequireOwner(auth.QueryClaim("user")))
	ownProfile := cfg.Guard.Require(cfg.Verifier, auth.RequireOwner(auth.ParamClaim("email")))

	app.Get("/", cfg.Health.Greeting)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	app.Get("/car-parts", cfg.Parts.List)
	app.Get("/car-parts/:id", cfg.Parts.Get)
	app.Post("/car-part", verified, cfg.Parts.Create)
	app.Put("/car-parts/:id", cfg.Parts.UpdateQuantity)
	app.Delete("/car-parts/:id", cfg.Parts.Delete)

	app.Get("/reviews", cfg.Reviews.List)
	app.Post("/reviews", cfg.Reviews.Create)

	app.Get("/orders", adminOnly, cfg.Orders.List)
	app.Get("/order", ownOrders, cfg.Orders.ListMine)
	app.Get("/order/:id", verified, cfg.Orders.Get)
	app.Post("/order", cfg.Orders.Create)
	app.Patch("/order/:id", verified, cfg.Orders.Pay)
	app.Put("/order/:id", adminOnly, cfg.Orders.Ship)
	app.Delete("/order/:id", cfg.Orders.Delete)

	app.Get("/users", verified, cfg.Users.List)
	app.Get("/user/:email", ownProfile, cfg.Users.Get)
	app.Put("/user/admin/:email", adminOnly, cfg.Users.Promote)
	app.Put("/user/:email", cfg.Limiter.Middleware("credentials"), cfg.Users.Upsert)
	app.Get("/admin/:email", cfg.Users.AdminStatus)

	app.Post("/create-payment-intent", verified, cfg.Limiter.Middleware("payments"), cfg.Payments.CreateIntent)
}
