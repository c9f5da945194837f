package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/quizdesk/quizdesk-api/internal/config"
	"github.com/quizdesk/quizdesk-api/internal/database"
	"github.com/quizdesk/quizdesk-api/internal/handler"
	"github.com/quizdesk/quizdesk-api/internal/middleware"
	"github.com/quizdesk/quizdesk-api/internal/models"
	"github.com/quizdesk/quizdesk-api/internal/repository"
	"github.com/quizdesk/quizdesk-api/internal/router"
	"github.com/quizdesk/quizdesk-api/internal/service"
	"github.com/quizdesk/quizdesk-api/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Subject{},
		&models.ClassGroup{},
		&models.Enrollment{},
		&models.TeacherAssignment{},
		&models.Quiz{},
		&models.Question{},
		&models.Option{},
		&models.MatchingPair{},
		&models.Attempt{},
		&models.Answer{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
	} else {
		logger.Warn().Msg("nats url not configured, events disabled")
	}

	var suggester ai.Suggester
	if cfg.OpenAIAPIKey != "" {
		openAISuggester, err := ai.NewOpenAISuggester(ai.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
			Logger: logger,
		})
		if err != nil {
			log.Fatalf("failed to create score suggester: %v", err)
		}
		suggester = openAISuggester
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	quizRepo := repository.NewQuizRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	events := service.NewEventPublisher(natsConn, logger)

	enrollmentService := service.NewEnrollmentService(enrollmentRepo, assignmentRepo, logger)
	quizService := service.NewQuizService(quizRepo, enrollmentService, redisClient, cfg.CacheTTL, validate, logger)
	questionService := service.NewQuestionService(questionRepo, quizRepo, validate, logger)
	attemptService := service.NewAttemptService(attemptRepo, quizRepo, enrollmentService, validate, events, logger)
	gradingService := service.NewGradingService(attemptRepo, quizRepo, validate, events, suggester, logger)
	dashboardService := service.NewDashboardService(dashboardRepo, redisClient, cfg.DashboardCacheTTL, logger)

	quizHandler := handler.NewQuizHandler(quizService, logger)
	questionHandler := handler.NewQuestionHandler(questionService, logger)
	attemptHandler := handler.NewAttemptHandler(attemptService, logger)
	gradingHandler := handler.NewGradingHandler(gradingService, logger)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, logger)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		QuizHandler:       quizHandler,
		QuestionHandler:   questionHandler,
		AttemptHandler:    attemptHandler,
		GradingHandler:    gradingHandler,
		DashboardHandler:  dashboardHandler,
		EnrollmentHandler: enrollmentHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
