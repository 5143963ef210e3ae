// Package main is the entry point for the API server. It connects the
// databases, registers routes, starts the background loops, and serves
// HTTP until interrupted.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gungun88/merchant-platform-sub002/internal/config"
	"github.com/gungun88/merchant-platform-sub002/internal/repositories"
	"github.com/gungun88/merchant-platform-sub002/internal/routes"
	"github.com/gungun88/merchant-platform-sub002/internal/services/reward"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadEnv()

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("failed to initialize databases: %v", err)
	}
	defer repositories.CloseDB()

	// Cached merchant rows from a previous run may predate a schema
	// migration, drop them.
	if repositories.CacheService != nil {
		if err := repositories.CacheService.FlushAll(context.Background()); err != nil {
			log.Printf("failed to flush redis cache: %v", err)
		}
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	background := routes.SetupRoutes(app)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Reward dispatcher grants due point plans; the banner sweep
	// disables expired banners.
	dispatcher := reward.NewDispatcher(
		background.Reward,
		config.GetDurationEnv("REWARD_DISPATCH_INTERVAL", time.Minute),
	)
	go dispatcher.Run(ctx)
	go background.Content.RunBannerSweep(ctx, config.GetDurationEnv("BANNER_SWEEP_INTERVAL", 5*time.Minute))

	// Graceful shutdown on SIGINT/SIGTERM.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("shutting down")
		cancel()
		if err := app.Shutdown(); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	if err := app.Listen(":" + config.GetEnv("PORT", "3000")); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
