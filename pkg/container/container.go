package container

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"storefront-checkout/internal/config"
	basketRepo "storefront-checkout/internal/domains/basket/repository"
	checkoutHandler "storefront-checkout/internal/domains/checkout/handler"
	checkoutService "storefront-checkout/internal/domains/checkout/service"
	orderRepo "storefront-checkout/internal/domains/order/repository"
	orderService "storefront-checkout/internal/domains/order/service"
	"storefront-checkout/internal/domains/payment/gateway"
	mockGateway "storefront-checkout/internal/domains/payment/gateway/mock"
	paymentRepo "storefront-checkout/internal/domains/payment/repository"
	paymentService "storefront-checkout/internal/domains/payment/service"
	userRepo "storefront-checkout/internal/domains/user/repository"
	userService "storefront-checkout/internal/domains/user/service"
	"storefront-checkout/internal/infrastructure/database"
	"storefront-checkout/internal/infrastructure/email"
	"storefront-checkout/internal/infrastructure/session"
	"storefront-checkout/internal/shared/middleware"
	"storefront-checkout/pkg/jwt"
)

const (
	paymentMethodCacheTTL = 5 * time.Minute
	rateLimiterIdle       = 10 * time.Minute
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds the whole dependency graph, built once at startup.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	DB          *database.PostgresDB
	Redis       *redis.Client
	AsynqClient *asynq.Client
	RedisOpt    asynq.RedisClientOpt
	JWTManager  *jwt.Manager
	Sessions    session.Store
	ErrorQueue  *session.ErrorQueue
	Mailer      *email.OrderMailer
	Gateway     gateway.Gateway

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	BasketRepo  basketRepo.RepositoryInterface
	UserRepo    userRepo.Repository
	OrderRepo   orderRepo.Repository
	PaymentRepo paymentRepo.Repository

	// ========================================
	// SERVICE LAYER
	// ========================================
	UserService      userService.Service
	OrderService     orderService.OrderService
	PaymentValidator *paymentService.Validator
	CheckoutService  checkoutService.CheckoutService

	// ========================================
	// HANDLER LAYER
	// ========================================
	CheckoutHandler *checkoutHandler.CheckoutHandler
	SubmitLimiter   *middleware.SessionRateLimiter
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer wires everything in dependency order:
// infrastructure, repositories, services, handlers.
func NewContainer(cfg *config.Config) (*Container, error) {
	log.Info().Msg("🔧 Initializing DI Container...")

	c := &Container{Config: cfg}

	// ========================================
	// STEP 1: DATABASE
	// ========================================
	log.Info().Msg("🗄️  Connecting to PostgreSQL...")

	dbConfig, err := config.LoadDatabaseConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	log.Info().Msg("✅ Database connected")

	// ========================================
	// STEP 2: REDIS + ASYNQ CLIENT
	// ========================================
	log.Info().Msg("🔴 Connecting to Redis...")

	c.Redis = session.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Redis.Ping(ctx).Err(); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	c.RedisOpt = asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	c.AsynqClient = asynq.NewClient(c.RedisOpt)
	log.Info().Msg("✅ Redis connected")

	c.initInfrastructure()

	// ========================================
	// STEP 3: REPOSITORIES
	// ========================================
	c.initRepositories()
	log.Info().Msg("✅ Repositories initialized")

	// ========================================
	// STEP 4: SERVICES
	// ========================================
	c.initServices()
	log.Info().Msg("✅ Services initialized")

	// ========================================
	// STEP 5: HANDLERS
	// ========================================
	c.initHandlers()
	log.Info().Msg("✅ Handlers initialized")

	log.Info().Msg("🎉 DI Container initialized successfully")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initInfrastructure() {
	cfg := c.Config

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	switch cfg.Session.Store {
	case "memory":
		c.Sessions = session.NewMemoryStore(cfg.Session.TTL, 10*time.Minute)
		log.Warn().Msg("⚠️  Using in-process session store")
	default:
		c.Sessions = session.NewRedisStore(c.Redis, cfg.Session.TTL)
	}
	c.ErrorQueue = session.NewErrorQueue(c.Sessions)

	c.Mailer = email.NewDevOrderMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, cfg.App.Name)
	c.Gateway = mockGateway.NewMockGateway("MOCK-")
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.BasketRepo = basketRepo.NewPostgresRepository(pool, c.Config.Shop.BasketReservationTimeout)
	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.OrderRepo = orderRepo.NewPostgresRepository(pool)
	c.PaymentRepo = paymentRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	cfg := c.Config

	c.UserService = userService.NewUserService(
		c.UserRepo,
		c.AsynqClient,
		cfg.Worker.OrderExecutedQueue,
		cfg.Worker.OrderExecutedRetry,
		cfg.Shop.LoyaltyThresholds,
	)

	c.OrderService = orderService.NewOrderService(
		c.OrderRepo,
		c.UserService,
		c.Gateway,
		c.Mailer,
		cfg.Shop.MinOrderPrice,
	)

	c.PaymentValidator = paymentService.NewValidator(c.PaymentRepo, paymentMethodCacheTTL)

	c.CheckoutService = checkoutService.NewCheckoutService(
		c.Sessions,
		c.BasketRepo,
		c.UserService,
		c.OrderService,
		c.UserService,
		c.PaymentValidator,
		c.ErrorQueue,
		checkoutService.Settings{
			ConfirmAGB:                    cfg.Shop.ConfirmAGB,
			EnableIntangibleProdAgreement: cfg.Shop.EnableIntangibleProdAgreement,
			BasketReservationEnabled:      cfg.Shop.BasketReservationEnabled,
			ShowOrderButtonOnTop:          cfg.Shop.ShowOrderButtonOnTop,
		},
	)
}

func (c *Container) initHandlers() {
	c.CheckoutHandler = checkoutHandler.NewCheckoutHandler(c.CheckoutService)
	c.SubmitLimiter = middleware.NewSessionRateLimiter(
		c.Config.RateLimit.SubmitPerSecond,
		c.Config.RateLimit.SubmitBurst,
		rateLimiterIdle,
	)
}

// SessionCookie is the cookie setup for middleware.SessionMiddleware.
func (c *Container) SessionCookie() middleware.SessionCookieConfig {
	return middleware.SessionCookieConfig{
		Name:     c.Config.Session.CookieName,
		Domain:   c.Config.Session.CookieDomain,
		Secure:   c.Config.Session.CookieSecure,
		MaxAge:   int(c.Config.Session.TTL / time.Second),
		SameSite: http.SameSiteLaxMode,
	}
}

// Cleanup releases connections; safe on a partially built container.
func (c *Container) Cleanup() {
	log.Info().Msg("🧹 Cleaning up container resources...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("⚠️  Failed to close asynq client")
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("⚠️  Failed to close Redis")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}

	log.Info().Msg("✅ Container cleanup completed")
}
