package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/parts-store/internal/api/http/handlers"
	"github.com/spec-kit/parts-store/internal/auth"
	"github.com/spec-kit/parts-store/internal/config"
	"github.com/spec-kit/parts-store/internal/domain"
	"github.com/spec-kit/parts-store/internal/events"
	"github.com/spec-kit/parts-store/internal/observability"
	"github.com/spec-kit/parts-store/internal/persistence"
	"github.com/spec-kit/parts-store/internal/ratelimit"
	"github.com/spec-kit/parts-store/internal/repository"
	"github.com/spec-kit/parts-store/internal/service"
)

// Dependencies are the long-lived handles the server is built from. They are
// created once at startup and owned by the caller.
type Dependencies struct {
	Config     *config.Config
	Store      repository.Store
	Redis      *persistence.Redis
	Payments   service.PaymentProvider
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// NewServer wires services, admission stages and handlers into a fiber app.
func NewServer(deps Dependencies) *fiber.App {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	users := deps.Store.Collection(domain.CollectionUsers)

	accounts := service.NewAccountService(service.AccountDependencies{
		Users:      users,
		Tokens:     tokens,
		Upsert:     cfg.Upsert,
		Dispatcher: deps.Dispatcher,
		Logger:     logger,
	})
	catalog := service.NewCatalogService(service.CatalogDependencies{
		Parts:   deps.Store.Collection(domain.CollectionParts),
		Reviews: deps.Store.Collection(domain.CollectionReviews),
		Upsert:  cfg.Upsert,
	})
	orders := service.NewOrderService(service.OrderDependencies{
		Orders:     deps.Store.Collection(domain.CollectionOrders),
		Upsert:     cfg.Upsert,
		Dispatcher: deps.Dispatcher,
		Logger:     logger,
	})
	payments := service.NewPaymentService(deps.Payments, cfg.Payment)

	var redisClient *redis.Client
	if deps.Redis != nil {
		redisClient = deps.Redis.Client
	}

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, logger, deps.Metrics, cfg.App.RequestTimeout())
	RegisterRoutes(app, RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps.Store, deps.Redis),
		Parts:     handlers.NewPartsHandler(catalog),
		Reviews:   handlers.NewReviewsHandler(catalog),
		Orders:    handlers.NewOrdersHandler(orders),
		Users:     handlers.NewUsersHandler(accounts),
		Payments:  handlers.NewPaymentsHandler(payments),
		Guard:     auth.NewGuard(deps.Metrics),
		Verifier:  auth.NewVerifier(tokens),
		AdminGate: auth.NewAdminGate(users),
		Limiter:   ratelimit.NewLimiter(redisClient, cfg.RateLimit, logger),
		Metrics:   deps.Metrics,
	})
	return app
}
