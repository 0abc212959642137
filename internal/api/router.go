package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rs/zerolog"

	_ "github.com/packbroker/supply-system/docs"
	"github.com/packbroker/supply-system/internal/api/handler"
	"github.com/packbroker/supply-system/internal/api/middleware"
	"github.com/packbroker/supply-system/internal/core/domain"
	"github.com/packbroker/supply-system/internal/core/service"
	mongodb "github.com/packbroker/supply-system/internal/infrastructure/db/mongo"
	redisdb "github.com/packbroker/supply-system/internal/infrastructure/db/redis"
	httphandlers "github.com/packbroker/supply-system/internal/infrastructure/http/handlers"
)

// Deps carries the shared infrastructure the router wires handlers to.
type Deps struct {
	Mongo     *mongo.Database
	Redis     *redis.Client
	JWTSecret string
	Recorder  service.ActivityRecorder
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
// Every protected route declares its (requiredRoles, ownershipFields) pair
// here; the guard middleware feeds both to the policy engine.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("supply"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(deps.Mongo)
	productRepo := mongodb.NewProductRepository(deps.Mongo)
	orderRepo := mongodb.NewOrderRepository(deps.Mongo)
	interestRepo := mongodb.NewInterestRepository(deps.Mongo)
	idemStore := redisdb.NewIdempotencyStore(deps.Redis)

	authService := service.NewAuthService(userRepo, deps.JWTSecret, 24*time.Hour)
	userService := service.NewUserService(userRepo, deps.Logger)
	productService := service.NewProductService(productRepo, deps.Logger)
	orderService := service.NewOrderService(orderRepo, productRepo, userRepo, interestRepo, idemStore, deps.Logger)
	interestService := service.NewInterestService(interestRepo, orderRepo, userRepo, deps.Recorder, deps.Logger)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	productHandler := handler.NewProductHandler(productService)
	orderHandler := handler.NewOrderHandler(orderService)
	interestHandler := handler.NewInterestHandler(interestService)

	auth := middleware.Auth(deps.JWTSecret)

	admin := []domain.Role{domain.RoleAdmin}

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Users ---
	users := e.Group("/v1/users", auth)
	users.GET("", userHandler.List, middleware.Guard(admin))
	users.GET("/:id", userHandler.Get, middleware.Guard(admin, middleware.FromParam("id")))

	// --- Products ---
	products := e.Group("/v1/products", auth)
	products.GET("", productHandler.List)
	products.POST("", productHandler.Create, middleware.Guard(admin))
	products.PATCH("/:id/active", productHandler.SetActive, middleware.Guard(admin))
	products.DELETE("/:id", productHandler.Delete, middleware.Guard(admin))

	// --- Orders ---
	orders := e.Group("/v1/orders", auth)
	orders.POST("", orderHandler.Create, middleware.Guard(admin, middleware.FromBody("customerId")))
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.DELETE("/:id", orderHandler.Delete)

	// --- Supplier interests ---
	interests := e.Group("/v1/supplier-interests", auth)
	interests.PUT("", interestHandler.Upsert, middleware.Guard(admin, middleware.FromBody("supplierId")))
	interests.GET("/order/:orderId", interestHandler.ListByOrder)
	interests.GET("/supplier/:supplierId", interestHandler.ListBySupplier,
		middleware.Guard(admin, middleware.FromParam("supplierId")))

	// --- Observability and docs (no auth required) ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := httphandlers.NewHealthHandler()
	healthDepsHandler := httphandlers.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
