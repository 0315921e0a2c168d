package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/tropical-nights/internal/api/http"
	"github.com/i474232898/tropical-nights/internal/config"
	"github.com/i474232898/tropical-nights/internal/scheduler"
	"github.com/i474232898/tropical-nights/internal/store"
	"github.com/i474232898/tropical-nights/internal/weather"
	"github.com/i474232898/tropical-nights/internal/weather/providers"
)

func main() {
	// Progress lines and the summary both go to stdout.
	log.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for archive calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	fileStore := store.NewFileStore(cfg.DataDir)
	provider := providers.NewOpenMeteoArchiveProvider(httpClient, cfg.ArchiveURL, cfg.FetchMaxRetries)

	service := weather.NewService(fileStore, provider, weather.Options{
		Location:   cfg.Location,
		StartYear:  cfg.StartYear,
		StaleAfter: cfg.StaleAfter,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := service.Run(ctx, os.Stdout); err != nil {
		log.Fatalf("weather sync failed: %v", err)
	}

	if !cfg.Serve {
		return
	}
	serve(ctx, cfg, service)
}

// serve keeps the datasets fresh with a daily sync and exposes them over HTTP
// until ctx is cancelled.
func serve(ctx context.Context, cfg *config.AppConfig, service *weather.Service) {
	tz, err := time.LoadLocation(cfg.Location.Timezone)
	if err != nil {
		log.Fatalf("failed to load timezone: %v", err)
	}

	sched := scheduler.New(service, cfg.SyncAt, tz)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "tropical-nights",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		// A manual sync may fetch several years sequentially.
		WriteTimeout: 5 * time.Minute,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"service":  "tropical-nights",
			"location": service.Location().Key(),
		})
	})

	httpapi.RegisterRoutes(app, service)

	go func() {
		log.Printf("INFO: listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
