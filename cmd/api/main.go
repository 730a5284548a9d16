// @title Quiz AI API
// @version 1.0
// @description Quiz service with language model generated questions.
// @host localhost:3000
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize. Browsers send the token cookie instead.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"

	_ "quiz-ai/cmd/api/docs"
	"quiz-ai/internal/adapter"
	"quiz-ai/internal/adapter/quizgen"
	"quiz-ai/internal/cache"
	"quiz-ai/internal/config"
	"quiz-ai/internal/database"
	"quiz-ai/internal/domain"
	"quiz-ai/internal/handler"
	"quiz-ai/internal/logger"
	"quiz-ai/internal/middleware"
	"quiz-ai/internal/repository"
	"quiz-ai/internal/service"
	"quiz-ai/internal/validation"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		appLogger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	if err := database.RunMigrations(ctx, db); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	quizRepository := repository.NewQuizDatabaseAdapter(db)
	answerRepository := repository.NewAnswerDatabaseAdapter(db)
	userRepository := repository.NewSQLXUserRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Redis is optional; without it the topic cache and the generation quota are off.
	var appCache domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			appLogger.Warn("Redis unavailable, continuing without cache", zap.Error(err))
		} else {
			defer redisClient.Close()
			appCache = adapter.NewRedisCacheAdapter(redisClient)
			appLogger.Info("Successfully connected to Redis")
		}
	}

	generator, err := quizgen.NewGeneratorFromConfig(cfg.LLM, appLogger.Named("quizgen"))
	if err != nil {
		appLogger.Fatal("Failed to create quiz generator", zap.Error(err))
	}
	appLogger.Info("Quiz generator initialized", zap.String("provider", cfg.LLM.Provider))

	generationService := service.NewGenerationService(generator, service.GenerationConfigFrom(cfg), appLogger.Named("generation"))
	quota := service.NewGenerationQuota(appCache, cfg.Quota)
	quizService := service.NewQuizService(quizRepository, answerRepository, generationService, quota, appCache)

	authService, err := service.NewAuthService(userRepository, cfg.JWT)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	userService := service.NewUserService(userRepository, answerRepository, txManager)

	validator := validation.NewValidator()

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
		MaxAge:           300,
	}))
	app.Use("/api", limiter.New(limiter.Config{
		Max:        100,
		Expiration: 15 * time.Minute,
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)

	handler.RegisterRoutes(app, handler.Handlers{
		Quiz: handler.NewQuizHandler(quizService, validator),
		Auth: handler.NewAuthHandler(authService, validator, handler.CookieOptions{
			Secure: cfg.IsProduction(),
			TTL:    cfg.JWT.TTL,
		}),
		User:      handler.NewUserHandler(userService, validator),
		Health:    handler.NewHealthHandler(generationService),
		Validator: authService,
	})

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
