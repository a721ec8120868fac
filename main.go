package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"catalogbench/internal/config"
	"catalogbench/internal/generator"
	"catalogbench/internal/handlers"
	"catalogbench/internal/logger"
	"catalogbench/internal/middleware"
	"catalogbench/internal/models"
	"catalogbench/internal/repositories"
	"catalogbench/internal/services"
	"catalogbench/pkg/database"
	"catalogbench/pkg/rabbitmq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	// "token <subject>" prints a bearer token for the API and exits.
	if len(os.Args) > 2 && os.Args[1] == "token" {
		token, err := services.NewAuthService(cfg.APIJWTSecret).IssueToken(os.Args[2])
		if err != nil {
			log.Error("Failed to issue token", zap.Error(err))
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	if err := run(cfg, log, os.Stdout); err != nil {
		log.Error("Benchmark failed", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}

// run opens both stores, runs one benchmark, prints its timing lines to out
// and, when SERVE_ADDR is set, serves the API until interrupted.
func run(cfg *config.Config, log *zap.Logger, out io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, err := database.ConnectMongo(ctx, cfg.MongoURI, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.CloseMongo(mongoClient, log); err != nil {
			log.Warn("Error closing MongoDB", zap.Error(err))
		}
	}()

	db, err := database.ConnectPostgres(cfg.Postgres, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.ClosePostgres(db, log); err != nil {
			log.Warn("Error closing PostgreSQL", zap.Error(err))
		}
	}()
	if err := database.Migrate(db); err != nil {
		return err
	}

	var publisher services.ReportPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue}, log)
		if err != nil {
			return err
		}
		defer mqClient.Close()
		publisher = mqClient
	}

	collection := mongoClient.Database(cfg.MongoDB).Collection(cfg.MongoCollection)
	docRepo := repositories.NewMongoProductRepository(collection, cfg.DeleteMode)
	relRepo := repositories.NewGORMProductRepository(db, cfg.DeleteMode)

	benchmarkService := services.NewBenchmarkService(
		services.NewDocumentController(docRepo, generator.New(0), log),
		services.NewRelationalController(relRepo, generator.New(0), log),
		publisher,
		services.BenchmarkOptions{
			ExportDir:          cfg.ExportDir,
			DocumentExportFile: cfg.MongoExportFile,
			XLSXExportFile:     cfg.WorkbookFile(),
			DeleteMode:         cfg.DeleteMode,
		},
		log,
	)

	report, err := benchmarkService.Run(ctx, cfg.Records)
	if err != nil {
		return err
	}
	printReport(out, report)

	if cfg.ServeAddr == "" {
		return nil
	}
	runLimit := rate.Every(time.Minute / time.Duration(cfg.APIRunsPerMinute))
	app := NewApp(benchmarkService, services.NewAuthService(cfg.APIJWTSecret), runLimit, log)
	return serve(ctx, app, cfg.ServeAddr, log)
}

// NewApp builds the Fiber app serving health and benchmark routes. Runs are
// admitted at runLimit with a burst of one.
func NewApp(benchmarkService *services.BenchmarkService, authService *services.AuthService, runLimit rate.Limit, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(requestid.New())
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		Output: os.Stderr,
	}))

	apiV1 := app.Group("/api/v1")
	handlers.NewBenchmarkHandler(benchmarkService, log).RegisterRoutes(apiV1,
		middleware.AuthRequired(authService, log),
		middleware.RateLimit(rate.NewLimiter(runLimit, 1)),
	)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	return app
}

func serve(ctx context.Context, app *fiber.App, addr string, log *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("addr", addr))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("error during Fiber shutdown: %w", err)
	}
	log.Info("Server gracefully stopped")
	return nil
}

func printReport(out io.Writer, report *models.BenchmarkReport) {
	for _, line := range report.Lines() {
		fmt.Fprintln(out, line)
	}
}
