package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foliolab/folio-api/adapters/event"
	httpAdapter "github.com/foliolab/folio-api/adapters/http"
	"github.com/foliolab/folio-api/adapters/media_storage"
	"github.com/foliolab/folio-api/adapters/persistence"
	"github.com/foliolab/folio-api/adapters/remote"
	authUC "github.com/foliolab/folio-api/internal/application/usecase/auth"
	profileUC "github.com/foliolab/folio-api/internal/application/usecase/profile"
	"github.com/foliolab/folio-api/internal/config"
	"github.com/foliolab/folio-api/internal/ingest"
	"github.com/foliolab/folio-api/pkg/auth"
	"github.com/foliolab/folio-api/pkg/logger"
	"github.com/foliolab/folio-api/pkg/tracing"
)

func main() {
	fmt.Println("Start Folio API Server...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)

	if cfg.Jaeger.OTLPEndpoint != "" {
		tp, err := tracing.NewTracerProvider(cfg, appLogger, "folio-api")
		if err != nil {
			log.Fatalf("FATAL: cannot init tracing: %v", err)
		}
		defer tp.Shutdown(context.Background())
	}

	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Postgres: %v", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Redis: %v", err)
	}
	defer redisClient.Close()

	kafkaClient, err := event.NewKafkaProducerClient(cfg)
	if err != nil {
		log.Fatalf("FATAL: cannot init Kafka: %v", err)
	}
	defer kafkaClient.Close()

	// Repositories
	userRepo := persistence.NewPostgresUserRepo(dbPool)
	profileRepo := persistence.NewPostgresProfileRepo(dbPool, appLogger)
	guestRepo := persistence.NewRedisGuestRepo(redisClient, cfg.Guest.TTL, appLogger)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	relocator, err := media_storage.NewCloudinaryRelocator(cfg)
	if err != nil {
		log.Fatalf("FATAL: cannot init media storage: %v", err)
	}
	remoteSource := remote.NewRapidAPISource(cfg, appLogger)
	verifier := remote.NewTurnstileVerifier(cfg, appLogger)
	transformer := ingest.NewTransformer(relocator, appLogger, ingest.Options{
		MaxAttempts:  cfg.Ingest.MaxRetries,
		RetryDelay:   cfg.Ingest.RetryDelay,
		MediaDomains: cfg.Ingest.MediaDomains,
	})

	// Use Cases
	profileService := profileUC.NewProfileService(
		profileRepo, guestRepo, userRepo,
		remoteSource, transformer, relocator, verifier,
		cfg.Ingest.MediaDomains, kafkaClient, appLogger,
	)
	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger)
	signupUseCase := authUC.NewSignupUseCase(userRepo, jwtSvc, appLogger)

	// HTTP Handlers
	profileHandler := httpAdapter.NewProfileHandler(profileService, appLogger)
	authHandler := httpAdapter.NewAuthHandler(loginUseCase, signupUseCase)

	// Middleware
	authMiddleware := httpAdapter.AuthMiddleware(jwtSvc, userRepo)
	optionalAuthMiddleware := httpAdapter.OptionalAuthMiddleware(jwtSvc, userRepo)

	router := gin.Default()
	router.Use(httpAdapter.ErrorMiddleware(appLogger))

	v1 := router.Group("/v1")
	{
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/signup", authHandler.Signup)
			authRoutes.POST("/login", authHandler.Login)
		}

		profileRoutes := v1.Group("/profile")
		{
			profileRoutes.GET("/healthz", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"status": "UP"})
			})
			profileRoutes.GET("/published", profileHandler.ListPublishedProfiles)
			profileRoutes.GET("/published/:slug", profileHandler.GetPublishedProfile)

			profileRoutes.POST("", optionalAuthMiddleware, profileHandler.CreateProfile)
			profileRoutes.GET("/:username", optionalAuthMiddleware, profileHandler.GetProfile)
			profileRoutes.PATCH("/:username", optionalAuthMiddleware, profileHandler.UpdateProfile)

			private := profileRoutes.Group("")
			private.Use(authMiddleware)
			{
				private.GET("/user/list", profileHandler.ListUserProfiles)
				private.DELETE("/user/list", profileHandler.DeleteUserProfiles)
				private.DELETE("/:username", profileHandler.DeleteProfile)
				private.PATCH("/:username/publish", profileHandler.PublishProfile)
				private.GET("/:username/unpublish", profileHandler.UnpublishProfile)
				private.GET("/:username/transfer", profileHandler.TransferProfile)
			}
		}
	}

	log.Printf("Server running on port %s", cfg.App.Port)
	if err := router.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Cannot run server: %v", err)
	}
}
