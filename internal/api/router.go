package api

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/studybuddy/accounts-service/docs"
	"github.com/studybuddy/accounts-service/internal/api/handler"
	"github.com/studybuddy/accounts-service/internal/api/middleware"
	"github.com/studybuddy/accounts-service/internal/core/domain"
	"github.com/studybuddy/accounts-service/internal/core/service"
	"github.com/studybuddy/accounts-service/internal/infrastructure/config"
	"github.com/studybuddy/accounts-service/internal/infrastructure/db/postgres"
	redisdb "github.com/studybuddy/accounts-service/internal/infrastructure/db/redis"
	"github.com/studybuddy/accounts-service/internal/infrastructure/hash"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(pool *pgxpool.Pool, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("accounts"))

	// --- Dependencies ---
	userRepo := postgres.NewUserRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	hasher := hash.NewBcryptHasher(cfg.BcryptCost)
	sessions := redisdb.NewSessionStore(rdb, cfg.SessionTTL)

	signupService := service.NewSignupService(userRepo, roleRepo, hasher, cfg.DefaultRole, log)
	authService := service.NewAuthService(userRepo, sessions, hasher, cfg.SessionTTL, log)
	roleService := service.NewRoleService(userRepo, roleRepo, log)
	userService := service.NewUserService(userRepo, hasher, log)

	authHandler := handler.NewAuthHandler(signupService, authService, cfg.SessionTTL)
	userHandler := handler.NewUserHandler(userService, roleService)
	sessionRequired := middleware.Session(authService)

	// --- Auth routes ---
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/me", authHandler.Me, sessionRequired)

	// --- User management (admin only) ---
	users := e.Group("/users", sessionRequired, middleware.RBAC(domain.RoleAdmin))
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.PUT("/:id/password", userHandler.ChangePassword)
	users.DELETE("/:id", userHandler.Delete)
	users.GET("/:id/roles", userHandler.ListRoles)
	users.POST("/:id/roles", userHandler.GrantRole)
	users.DELETE("/:id/roles/:role", userHandler.RevokeRole)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(pool, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
