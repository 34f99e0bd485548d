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
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/config"
	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/database"
	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/handler"
	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/middleware"
	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/models"
	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/repository"
	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/router"
	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/service"
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

	if err := db.AutoMigrate(&models.Student{}, &models.Schedule{}, &models.Assignment{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Redis and NATS are revalidation transports; the API itself runs without
	// them, so an unset URL just disables that transport.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	studentRepo := repository.NewStudentRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)

	revalidator := service.NewRevalidationService(redisClient, cfg.RevalidateChannel, natsConn, logger)

	studentService := service.NewStudentService(studentRepo, validate, logger)
	scheduleService := service.NewScheduleService(scheduleRepo, validate, revalidator, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, scheduleRepo, validate, revalidator, logger)
	dashboardService := service.NewDashboardService(scheduleRepo, assignmentRepo, redisClient, cfg.DashboardCacheTTL, logger)

	studentHandler := handler.NewStudentHandler(studentService, logger)
	scheduleHandler := handler.NewScheduleHandler(scheduleService, logger)
	assignmentHandler := handler.NewAssignmentHandler(assignmentService, logger)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		StudentHandler:    studentHandler,
		ScheduleHandler:   scheduleHandler,
		AssignmentHandler: assignmentHandler,
		DashboardHandler:  dashboardHandler,
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
