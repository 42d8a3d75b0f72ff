// main.go
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"event-registration/config"
	"event-registration/internal/handlers"
	"event-registration/internal/services"
	_ "event-registration/migrations"
	"event-registration/monitoring"
	"event-registration/security"
	"event-registration/utils"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	pubnub "github.com/pubnub/go"
)

func main() {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	redisClient := utils.NewRedisClient(cfg.RedisURL)
	defer redisClient.Close()

	// Initialize PubNub
	pnConfig := pubnub.NewConfig()
	pnConfig.PublishKey = cfg.PubNubPublishKey
	pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
	pnConfig.SecretKey = cfg.PubNubSecretKey

	pn := pubnub.NewPubNub(pnConfig)

	// Initialize services
	store := services.NewPBStore(app)
	dashboardService := services.NewDashboardService(store, redisClient, cfg)
	notifyService := services.NewNotifyService(pn)

	// Initialize handlers
	dashboardHandler := handlers.NewDashboardHandler(app, dashboardService, cfg)
	eventHandler := handlers.NewEventHandler(app)
	registrationHandler := handlers.NewRegistrationHandler(app, dashboardService, notifyService, cfg)

	limiter := security.NewRateLimiter(redisClient, cfg.RateLimitPerMinute)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	// Create context for background tasks
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start background tasks
	monitor := monitoring.NewMonitor(redisClient)
	go monitor.Run(ctx)

	if cfg.EnableMetrics {
		go monitoring.StartMetricsServer(cfg.MetricsPort, redisClient)
	}

	// Setup graceful shutdown
	go handleShutdown(cancel)

	// Register routes
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// Staff endpoints
		se.Router.GET("/api/staff/dashboard", dashboardHandler.EventRegistrations)
		se.Router.GET("/api/staff/events", eventHandler.ListMine)

		// Event endpoints
		se.Router.GET("/api/events", eventHandler.Browse)
		se.Router.POST("/api/events", eventHandler.Create)
		se.Router.GET("/api/events/{id}", eventHandler.Get)
		se.Router.PATCH("/api/events/{id}", eventHandler.Update)
		se.Router.DELETE("/api/events/{id}", eventHandler.Delete)
		se.Router.GET("/api/events/{id}/calendar", eventHandler.Calendar)

		// Registration endpoints
		se.Router.POST("/api/events/{id}/registrations", registrationHandler.Register).
			BindFunc(limiter.MutationLimit())
		se.Router.GET("/api/registrations", registrationHandler.Mine)
		se.Router.POST("/api/registrations/{id}/cancel", registrationHandler.Cancel).
			BindFunc(limiter.MutationLimit())

		// Health check
		se.Router.GET("/health", func(e *core.RequestEvent) error {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				return e.JSON(http.StatusServiceUnavailable, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return e.JSON(http.StatusOK, map[string]string{"status": "healthy"})
		})

		slog.Info("Server routes registered")

		return se.Next()
	})

	// Start server
	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

// handleShutdown handles graceful shutdown
func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	slog.Info("Shutdown signal received, cleaning up...")
	cancel()
}
