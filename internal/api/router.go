package api

import (
	"fmt"
	"html/template"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/dailykharcha/kharcha/docs"
	"github.com/dailykharcha/kharcha/internal/api/handler"
	"github.com/dailykharcha/kharcha/internal/api/middleware"
	"github.com/dailykharcha/kharcha/internal/api/session"
	"github.com/dailykharcha/kharcha/internal/core/ports"
	"github.com/dailykharcha/kharcha/internal/infrastructure/config"
	"github.com/dailykharcha/kharcha/web"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, accounts ports.AccountService, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) (*echo.Echo, error) {
	templates, err := template.ParseFS(web.TemplateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("kharcha"))

	// --- Dependencies ---
	sessionMgr := session.NewManager(cfg.SessionSecret, cfg.SessionMaxAge, cfg.Production())
	authHandler := handler.NewAuthHandler(accounts, cfg.JWTSecret, cfg.JWTTTL)
	pagesHandler := handler.NewPagesHandler(accounts, sessionMgr, templates, log)
	authMiddleware := middleware.Auth(cfg.JWTSecret)
	sessionMiddleware := middleware.RequireSession(sessionMgr)

	// --- HTML screens ---
	e.GET("/", pagesHandler.Home)
	e.GET("/login", pagesHandler.LoginPage)
	e.POST("/login", pagesHandler.LoginSubmit)
	e.GET("/register", pagesHandler.RegisterPage)
	e.POST("/register", pagesHandler.RegisterSubmit)
	e.POST("/logout", pagesHandler.Logout)
	e.GET("/expenses/today", pagesHandler.TodaysExpenses, sessionMiddleware)
	e.GET("/expenses/previous", pagesHandler.PreviousExpenses, sessionMiddleware)

	// --- JSON API ---
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)
	e.GET("/api/me", authHandler.Me, authMiddleware)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e, nil
}
