package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/cra-adv/cra-backend/docs"
	"github.com/cra-adv/cra-backend/internal/api/handler"
	"github.com/cra-adv/cra-backend/internal/api/middleware"
	"github.com/cra-adv/cra-backend/internal/core/domain"
	"github.com/cra-adv/cra-backend/internal/core/service"
	"github.com/cra-adv/cra-backend/internal/core/token"
	mongodb "github.com/cra-adv/cra-backend/internal/infrastructure/db/mongo"
	redisdb "github.com/cra-adv/cra-backend/internal/infrastructure/db/redis"
	"github.com/cra-adv/cra-backend/internal/pkg/config"
)

// staffRoles are the roles allowed on the case-management resources.
var staffRoles = []string{domain.RoleAdmin, domain.RoleLawyer, domain.RoleCorrespondent}

// GateRules is the ordered route/role table enforced after authentication.
// First match wins; anything unmatched requires an authenticated caller.
func GateRules() []middleware.Rule {
	return []middleware.Rule{
		{Prefix: "/health", Public: true},
		{Prefix: "/metrics", Public: true},
		{Prefix: "/swagger", Public: true},
		{Method: http.MethodPost, Prefix: "/api/auth/login", Public: true},
		{Method: http.MethodPost, Prefix: "/api/auth/refresh", Public: true},
		{Method: http.MethodPost, Prefix: "/api/auth/logout", Public: true},
		{Prefix: "/api/auth/validate", Public: true},
		{Method: http.MethodPost, Prefix: "/api/auth/register", Roles: []string{domain.RoleAdmin}},
		{Prefix: "/api/auth/me", Authenticated: true},
		{Method: http.MethodDelete, Prefix: "/api/usuarios/", Roles: []string{domain.RoleAdmin}},
		{Method: http.MethodPut, Prefix: "/api/usuarios/", Roles: []string{domain.RoleAdmin}},
		{Prefix: "/api/usuarios", Roles: staffRoles},
		{Prefix: "/api/correspondentes", Roles: staffRoles},
		{Prefix: "/api/solicitacoes", Roles: staffRoles},
	}
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Dependencies ---
	codec := token.NewCodec(cfg.JWTSecret, log)
	hasher := service.NewPasswordHasher(cfg.BcryptCost)
	users := mongodb.NewUserRepository(db)
	correspondents := mongodb.NewCorrespondentRepository(db)
	requests := mongodb.NewRequestRepository(db)
	limiter := redisdb.NewLoginLimiter(rdb, cfg.LoginRateLimit, cfg.LoginRateWindow)

	authService := service.NewAuthService(users, correspondents, codec, hasher, cfg.JWTAccessTTL, cfg.JWTRefreshTTL, log)
	requestService := service.NewRequestService(requests, log)

	authHandler := handler.NewAuthHandler(authService, limiter, log)
	userHandler := handler.NewUserHandler(users)
	correspondentHandler := handler.NewCorrespondentHandler(correspondents)
	requestHandler := handler.NewRequestHandler(requestService)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("cra_http"))
	e.Use(middleware.Authenticate(codec, users, log))
	e.Use(middleware.Gate(GateRules()))

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/register", authHandler.Register)
	auth.POST("/refresh", authHandler.Refresh)
	auth.GET("/me", authHandler.Me)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/validate", authHandler.Validate)

	// --- User administration ---
	usuarios := e.Group("/api/usuarios")
	usuarios.GET("", userHandler.List)
	usuarios.GET("/:id", userHandler.Get)
	usuarios.DELETE("/:id", userHandler.Delete)
	usuarios.PUT("/:id/ativar", userHandler.Activate)
	usuarios.PUT("/:id/desativar", userHandler.Deactivate)

	// --- Correspondents ---
	correspondentes := e.Group("/api/correspondentes")
	correspondentes.GET("", correspondentHandler.List)
	correspondentes.GET("/:id", correspondentHandler.Get)
	correspondentes.POST("", correspondentHandler.Create)

	// --- Legal requests ---
	solicitacoes := e.Group("/api/solicitacoes")
	solicitacoes.GET("", requestHandler.List)
	solicitacoes.GET("/:id", requestHandler.Get)
	solicitacoes.POST("", requestHandler.Create)
	solicitacoes.PUT("/:id/status/:nome", requestHandler.SetStatus)

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	return e
}
