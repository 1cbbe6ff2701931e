package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sanigest/sanigest/internal/apiserver/database"
	"github.com/sanigest/sanigest/internal/apiserver/handler"
	"github.com/sanigest/sanigest/internal/apiserver/middleware"
	"github.com/sanigest/sanigest/internal/apiserver/notify"
	"github.com/sanigest/sanigest/internal/apiserver/ratelimit"
	"github.com/sanigest/sanigest/internal/auth/jwt"
	"github.com/sanigest/sanigest/internal/auth/storage"
	"github.com/sanigest/sanigest/internal/common/config"
	"github.com/sanigest/sanigest/internal/i18n"
	"github.com/sanigest/sanigest/pkg/logger"
	"github.com/sanigest/sanigest/pkg/metrics"
	"github.com/sanigest/sanigest/pkg/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of apiserver",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("apiserver version %s\n", version.Get())
		},
	}

	rootCmd = &cobra.Command{
		Use:   "apiserver",
		Short: "SaniGest API Server",
		Long:  `SaniGest API Server provides the REST API for sanitary self-control records`,
		Run: func(cmd *cobra.Command, args []string) {
			run()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "conf", "configs/apiserver.yaml", "path to configuration file")
	rootCmd.AddCommand(versionCmd)
}

func run() {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&cfg.Logger)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("starting apiserver", zap.String("version", version.Get()))

	if cfg.I18n.Path != "" {
		if err := i18n.InitTranslator(cfg.I18n.Path); err != nil {
			log.Warn("failed to load translations, message IDs will be returned as-is",
				zap.String("path", cfg.I18n.Path),
				zap.Error(err))
		}
	}

	db, err := database.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("failed to initialize database",
			zap.String("type", cfg.Database.Type),
			zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}()

	jwtService, err := jwt.NewService(jwt.Config{
		SecretKey: cfg.JWT.SecretKey,
		Duration:  cfg.JWT.AccessDuration,
	})
	if err != nil {
		log.Fatal("failed to initialize JWT service", zap.Error(err))
	}

	tokens, err := storage.NewStore(log, &cfg.RateLimit)
	if err != nil {
		log.Fatal("failed to initialize refresh token storage", zap.Error(err))
	}

	limiter, err := ratelimit.NewLimiter(log, &cfg.RateLimit)
	if err != nil {
		log.Fatal("failed to initialize rate limiter", zap.Error(err))
	}
	defer limiter.Close()

	mailer := notify.NewMailer(&cfg.SMTP, log)
	m := metrics.New("sanigest")

	router := newRouter(cfg, log, db, jwtService, tokens, limiter, mailer, m)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info("listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
}

func newRouter(
	cfg *config.APIServerConfig,
	log *zap.Logger,
	db database.Database,
	jwtService *jwt.Service,
	tokens storage.Store,
	limiter ratelimit.Limiter,
	mailer notify.Mailer,
	m *metrics.Metrics,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(m.GinMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.Get()})
	})
	router.GET("/metrics", m.Handler())

	authHandler := handler.NewAuth(db, jwtService, tokens, mailer, cfg, log)
	orgHandler := handler.NewOrganization(db, log)
	deliveryHandler := handler.NewDelivery(db, log)
	storageHandler := handler.NewStorageTemp(db, log)
	incidentHandler := handler.NewIncident(db, log)
	sheetHandler := handler.NewTechSheet(db, log)

	throttled := middleware.RateLimitMiddleware(limiter, log)

	auth := router.Group("/api/auth")
	{
		auth.POST("/register", throttled, authHandler.Register)
		auth.POST("/login", throttled, authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
		auth.POST("/verify-email", authHandler.VerifyEmail)
		auth.POST("/forgot-password", throttled, authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}

	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(jwtService, db, log))
	{
		api.GET("/profile", authHandler.GetProfile)
		api.PUT("/profile", authHandler.UpdateProfile)
		api.PUT("/profile/password", authHandler.ChangePassword)

		org := api.Group("/organization")
		{
			org.GET("", orgHandler.Get)
			org.PUT("", middleware.RequireAdmin(), orgHandler.Update)
			org.GET("/limits", orgHandler.GetLimits)

			users := org.Group("/users", middleware.RequireAdmin())
			{
				users.GET("", orgHandler.ListUsers)
				users.POST("", orgHandler.CreateUser)
				users.PUT("/:id", orgHandler.UpdateUser)
				users.DELETE("/:id", orgHandler.DeleteUser)
			}
		}

		records := api.Group("/records")
		{
			write := middleware.RequireWrite()

			deliveries := records.Group("/deliveries")
			{
				deliveries.GET("", deliveryHandler.List)
				deliveries.GET("/:id", deliveryHandler.Get)
				deliveries.POST("", write, deliveryHandler.Create)
				deliveries.PUT("/:id", write, deliveryHandler.Update)
				deliveries.DELETE("/:id", write, deliveryHandler.Delete)
			}

			storageRecs := records.Group("/storage")
			{
				storageRecs.GET("", storageHandler.List)
				storageRecs.GET("/:id", storageHandler.Get)
				storageRecs.POST("", write, storageHandler.Create)
				storageRecs.PUT("/:id", write, storageHandler.Update)
				storageRecs.DELETE("/:id", write, storageHandler.Delete)
			}

			incidents := records.Group("/incidents")
			{
				incidents.GET("", incidentHandler.List)
				incidents.GET("/:id", incidentHandler.Get)
				incidents.POST("", write, incidentHandler.Create)
				incidents.PUT("/:id", write, incidentHandler.Update)
				incidents.DELETE("/:id", write, incidentHandler.Delete)
				incidents.POST("/:id/actions", write, incidentHandler.AddAction)
				incidents.PUT("/:id/actions/:actionId", write, incidentHandler.UpdateAction)
				incidents.POST("/:id/resolve", write, incidentHandler.Resolve)
			}

			sheets := records.Group("/technical-sheets")
			{
				sheets.GET("", sheetHandler.List)
				sheets.GET("/:id", sheetHandler.Get)
				sheets.POST("", write, sheetHandler.Create)
				sheets.PUT("/:id", write, sheetHandler.Update)
				sheets.DELETE("/:id", write, sheetHandler.Delete)
			}
		}
	}

	return router
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
