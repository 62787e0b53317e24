package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quiz-master/internal/adapter"
	"quiz-master/internal/cache"
	"quiz-master/internal/config"
	"quiz-master/internal/database"
	"quiz-master/internal/handler"
	"quiz-master/internal/idgen"
	"quiz-master/internal/logger"
	"quiz-master/internal/middleware"
	"quiz-master/internal/repository"
	"quiz-master/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

const migrationsSource = "file://database/migrations"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	if err := database.RunMigrations(migrationsSource, cfg.GetDSN()); err != nil {
		appLogger.Fatal("failed to run migrations", zap.Error(err))
	}

	db, err := database.NewSQLXPostgresDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()
	cacheClient := adapter.NewRedisCacheAdapter(redisClient)

	// Repositories
	userRepo := repository.NewSQLXUserRepository(db)
	subjectRepo := repository.NewSQLXSubjectRepository(db)
	chapterRepo := repository.NewSQLXChapterRepository(db)
	quizRepo := repository.NewSQLXQuizRepository(db)
	questionRepo := repository.NewSQLXQuestionRepository(db)
	scoreRepo := repository.NewSQLXScoreRepository(db)
	statsRepo := repository.NewSQLXStatsRepository(db)

	// ID allocation and transaction plumbing
	txManager := repository.NewTransactionManagerAdapter(db)
	allocator := idgen.NewAllocator(repository.NewProbeStore(db))
	sequences := repository.NewSequenceReconciler(db)

	// Services
	authService, err := service.NewAuthService(userRepo, cfg)
	if err != nil {
		appLogger.Fatal("failed to create auth service", zap.Error(err))
	}
	userService := service.NewUserService(userRepo, scoreRepo, txManager, allocator, sequences, cfg)
	contentService := service.NewContentService(subjectRepo, chapterRepo, quizRepo, questionRepo, scoreRepo, cacheClient, txManager, allocator, sequences)
	attemptService := service.NewAttemptService(quizRepo, questionRepo, scoreRepo, txManager, allocator, sequences)
	statsService := service.NewStatsService(statsRepo, cacheClient)

	if err := userService.EnsureAdminAccount(context.Background()); err != nil {
		appLogger.Fatal("failed to ensure admin account", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: middleware.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := db.PingContext(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	handler.RegisterRoutes(
		app,
		authService,
		handler.NewAuthHandler(authService, userService),
		handler.NewUserHandler(userService),
		handler.NewContentHandler(contentService),
		handler.NewAttemptHandler(attemptService),
		handler.NewAdminHandler(statsService),
	)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		appLogger.Info("starting server", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
