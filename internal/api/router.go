package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"gorm.io/gorm"

	_ "github.com/homenotes/homenotes/docs"
	"github.com/homenotes/homenotes/internal/api/handler"
	"github.com/homenotes/homenotes/internal/api/middleware"
	"github.com/homenotes/homenotes/internal/core/domain"
	"github.com/homenotes/homenotes/internal/core/service"
	"github.com/homenotes/homenotes/internal/infrastructure/config"
	"github.com/homenotes/homenotes/internal/infrastructure/db/postgres"
	redisstore "github.com/homenotes/homenotes/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *gorm.DB, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("homenotes"))

	// --- Dependencies ---
	userRepo := postgres.NewUserRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	noteRepo := postgres.NewNoteRepository(db)
	sessions := redisstore.NewSessionStore(rdb)
	authService := service.NewAuthService(
		userRepo, roleRepo, sessions,
		cfg.SecretKey, cfg.SessionTTL, cfg.Admins, log,
	)
	noteService := service.NewNoteService(noteRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	noteHandler := handler.NewNoteHandler(noteService)
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	requireAuth := middleware.Auth(cfg.SecretKey, sessions)
	anonymousOnly := middleware.AnonymousOnly(cfg.SecretKey, sessions)
	requireWrite := middleware.RequirePermission(domain.PermissionWrite)

	// --- Auth flow ---
	e.GET("/login", authHandler.LoginForm, anonymousOnly)
	e.POST("/login", authHandler.Login, anonymousOnly)
	e.GET("/logout", authHandler.Logout)
	e.GET("/register", authHandler.RegisterForm, anonymousOnly)
	e.POST("/register", authHandler.Register, anonymousOnly)

	// --- Notes flow (authenticated) ---
	e.GET("/", noteHandler.List, requireAuth)
	e.GET("/index", noteHandler.List, requireAuth)
	e.POST("/", noteHandler.Create, requireAuth, requireWrite)
	e.POST("/index", noteHandler.Create, requireAuth, requireWrite)

	// --- Probes, metrics, docs ---
	e.GET("/hello", healthHandler.Hello)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
