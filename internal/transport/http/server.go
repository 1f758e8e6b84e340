package http

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"evalhub/internal/ai"
	appsvc "evalhub/internal/app"
	"evalhub/internal/bootstrap"
	"evalhub/internal/ratelimit"
	"evalhub/internal/repository"
	"evalhub/internal/storage"
	"evalhub/internal/transport/http/handler"
	"evalhub/internal/transport/http/middleware"
)

// Fixed-window limits for the abuse-prone endpoints.
const (
	registerLimit  = 3
	registerWindow = 300 * time.Second

	loginLimit  = 5
	loginWindow = 60 * time.Second

	verifyInviteLimit  = 10
	verifyInviteWindow = 60 * time.Second

	evalLimit  = 5
	evalWindow = 60 * time.Second
)

func NewRouter(app *bootstrap.App) (*gin.Engine, error) {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), middleware.Metrics())

	jwtSecret := app.Config.Auth.JWTSecret
	secureCookie := app.Config.IsProduction()

	var counter ratelimit.Counter
	if app.Redis != nil {
		counter = ratelimit.NewRedisCounter(app.Redis)
	} else {
		counter = ratelimit.NewMemoryCounter()
	}
	limiter := ratelimit.New(counter)

	blobs, err := storage.NewLocalStore(app.Config.Files.Dir, "/uploads")
	if err != nil {
		return nil, fmt.Errorf("init blob store failed: %w", err)
	}

	userRepo := repository.NewUserRepository(app.MySQL)
	inviteRepo := repository.NewInviteCodeRepository(app.MySQL)
	modelRepo := repository.NewAIModelRepository(app.MySQL)
	promptRepo := repository.NewPromptTemplateRepository(app.MySQL)
	fileRepo := repository.NewKnowledgeFileRepository(app.MySQL)
	configRepo := repository.NewSystemConfigRepository(app.MySQL)
	evalStore := repository.NewEvalStore(app.MySQL)

	authService := appsvc.NewAuthService(
		userRepo,
		inviteRepo,
		app.AuditPublisher,
		app.Logger,
		jwtSecret,
		time.Duration(app.Config.Auth.TokenTTLHour)*time.Hour,
		app.Config.Eval.SignupCredits,
	)
	userService := appsvc.NewUserService(userRepo, app.AuditPublisher, app.Logger)
	evalService := appsvc.NewEvalService(evalStore, ai.NewOpenAICompatibleClient(), app.AuditPublisher, app.Logger)
	inviteService := appsvc.NewInviteService(inviteRepo)
	modelService := appsvc.NewModelService(modelRepo)
	promptService := appsvc.NewPromptService(promptRepo, fileRepo)
	knowledgeService := appsvc.NewKnowledgeService(
		fileRepo,
		blobs,
		app.Logger,
		app.Config.Files.MaxUploadMB,
		app.Config.Files.ExtractPDFText,
	)
	configService := appsvc.NewConfigService(configRepo, app.Logger)

	authHandler := handler.NewAuthHandler(authService, secureCookie)
	userHandler := handler.NewUserHandler(userService)
	evalHandler := handler.NewEvalHandler(evalService)
	configHandler := handler.NewConfigHandler(configService)
	healthHandler := handler.NewHealthHandler(app)
	adminUserHandler := handler.NewAdminUserHandler(userService)
	adminInviteHandler := handler.NewAdminInviteHandler(inviteService)
	adminModelHandler := handler.NewAdminModelHandler(modelService)
	adminPromptHandler := handler.NewAdminPromptHandler(promptService)
	adminFileHandler := handler.NewAdminFileHandler(knowledgeService)
	adminConfigHandler := handler.NewAdminConfigHandler(configService)

	// Pages. Login and register stay open; everything else requires a
	// session and the admin console additionally requires the admin flag.
	router.StaticFile("/login", "web/login.html")
	router.StaticFile("/register", "web/register.html")
	router.GET("/", middleware.PageAuth(jwtSecret, false), func(c *gin.Context) {
		c.File("web/index.html")
	})
	router.GET("/settings", middleware.PageAuth(jwtSecret, false), func(c *gin.Context) {
		c.File("web/settings.html")
	})
	router.GET("/admin/*page", middleware.PageAuth(jwtSecret, true), func(c *gin.Context) {
		page := strings.Trim(c.Param("page"), "/")
		if page == "" {
			c.File("web/admin.html")
			return
		}
		c.File(filepath.Join("web", "admin", filepath.Base(page)+".html"))
	})

	router.Static("/uploads", app.Config.Files.Dir)
	router.GET("/healthz", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	api.GET("/config", configHandler.Public)

	authGroup := api.Group("/auth")
	authGroup.POST("/register",
		middleware.RateLimit(limiter, "register", registerLimit, registerWindow),
		authHandler.Register,
	)
	authGroup.POST("/login",
		middleware.RateLimit(limiter, "login", loginLimit, loginWindow),
		authHandler.Login,
	)
	authGroup.POST("/verify-invite",
		middleware.RateLimit(limiter, "verify_invite", verifyInviteLimit, verifyInviteWindow),
		authHandler.VerifyInvite,
	)
	authGroup.POST("/logout", middleware.OptionalAuth(jwtSecret), authHandler.Logout)
	authGroup.GET("/me", middleware.AuthRequired(jwtSecret), authHandler.Me)

	api.POST("/eval",
		middleware.AuthRequired(jwtSecret),
		middleware.RateLimit(limiter, "eval", evalLimit, evalWindow),
		evalHandler.Stream,
	)

	userGroup := api.Group("/user")
	userGroup.Use(middleware.AuthRequired(jwtSecret))
	userGroup.GET("/profile", userHandler.Profile)
	userGroup.PATCH("/profile", userHandler.UpdateName)
	userGroup.PATCH("/password", userHandler.ChangePassword)

	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	adminGroup.GET("/users", adminUserHandler.List)
	adminGroup.PATCH("/users/:id", adminUserHandler.Patch)
	adminGroup.GET("/invites", adminInviteHandler.List)
	adminGroup.POST("/invites", adminInviteHandler.Generate)
	adminGroup.GET("/models", adminModelHandler.List)
	adminGroup.POST("/models", adminModelHandler.Create)
	adminGroup.PATCH("/models/:id", adminModelHandler.SetActive)
	adminGroup.DELETE("/models/:id", adminModelHandler.Delete)
	adminGroup.GET("/prompts", adminPromptHandler.List)
	adminGroup.POST("/prompts", adminPromptHandler.Create)
	adminGroup.PUT("/prompts/:id", adminPromptHandler.Update)
	adminGroup.DELETE("/prompts/:id", adminPromptHandler.Delete)
	adminGroup.GET("/files", adminFileHandler.List)
	adminGroup.POST("/files", adminFileHandler.Upload)
	adminGroup.DELETE("/files/:id", adminFileHandler.Delete)
	adminGroup.GET("/config", adminConfigHandler.List)
	adminGroup.POST("/config", adminConfigHandler.Upsert)

	return router, nil
}
