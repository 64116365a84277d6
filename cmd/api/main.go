package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	// Application Layer
	appService "github.com/mishcoders/rafiq-salah-extension/internal/application/service"

	// Infrastructure Layer
	"github.com/mishcoders/rafiq-salah-extension/internal/infrastructure/aladhan"
	"github.com/mishcoders/rafiq-salah-extension/internal/infrastructure/alarm"
	"github.com/mishcoders/rafiq-salah-extension/internal/infrastructure/database/sqlite"
	lineClient "github.com/mishcoders/rafiq-salah-extension/internal/infrastructure/line"

	// Interfaces Layer
	"github.com/mishcoders/rafiq-salah-extension/internal/interfaces/api/handler"
	"github.com/mishcoders/rafiq-salah-extension/internal/interfaces/api/router"

	// Packages
	appLogger "github.com/mishcoders/rafiq-salah-extension/internal/pkg/logger"

	_ "github.com/joho/godotenv/autoload" // Automatically load .env file
)

func gracefulShutdown(apiServer *http.Server, alarms *alarm.Service, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Println("Shutting down gracefully, press Ctrl+C again to force")

	// Stop the alarm service first so no fire races the teardown
	log.Println("Stopping alarm service...")
	alarms.Stop()

	// Close database connection
	log.Println("Closing database connection...")
	if err := sqlite.CloseDB(); err != nil {
		log.Printf("Error closing database: %v", err)
	} else {
		log.Println("Database connection closed.")
	}

	// Shutdown HTTP server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	log.Println("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

func main() {
	// --- Initialization ---
	appLog := appLogger.New()
	appLog.Info("Logger initialized.")

	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080" // Default port
		appLog.Warn("PORT environment variable not set, defaulting to 8080")
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		appLog.Error("Invalid PORT environment variable", err)
		os.Exit(1)
	}

	// --- Infrastructure ---
	db := sqlite.NewDB()
	stateRepo := sqlite.NewStateRepository(db)
	appLog.Info("Database and state repository initialized.")

	line := lineClient.NewClient(appLog)
	provider := aladhan.NewClient(appLog)
	alarms := alarm.NewService(appLog)

	// --- Application Services ---
	schedulerSvc := appService.NewSchedulerService(alarms, stateRepo, appLog)
	postponeSvc := appService.NewPostponeService(alarms, stateRepo, line, appLog)
	dispatcherSvc := appService.NewDispatcherService(stateRepo, schedulerSvc, postponeSvc, provider, line, appLog)
	appLog.Info("Application services initialized.")

	// Route alarm fires into the dispatcher. Set after construction to break
	// the circular dependency between the alarm service and the dispatcher.
	alarms.SetHandler(func(name string) {
		if err := dispatcherSvc.OnAlarmFired(context.Background(), name); err != nil {
			appLog.Error(fmt.Sprintf("Alarm %s handling failed", name), err)
		}
	})

	// --- Restore persisted alarms ---
	// The process may have been down past pending snoozes; recover them
	// before re-arming the daily schedule.
	startupCtx := context.Background()
	if err := postponeSvc.RestorePostponedReminders(startupCtx); err != nil {
		appLog.Error("Failed to restore postponed reminders on startup", err)
	}
	if err := schedulerSvc.RestoreOnStartup(startupCtx); err != nil {
		appLog.Error("Failed to restore prayer alarms on startup", err)
	}
	appLog.Info("Alarm state restored from storage.")

	// First run: greet the user until a location is selected.
	if loc, err := stateRepo.GetLocation(startupCtx); err == nil && !loc.Complete() {
		if err := line.ShowWelcome(startupCtx); err != nil {
			appLog.Warn(fmt.Sprintf("Could not send welcome message: %v", err))
		}
	}

	// --- API Handlers ---
	extensionHandler := handler.NewExtensionHandler(schedulerSvc, stateRepo, appLog)
	lineHandler := handler.NewLineHandler(line, postponeSvc, appLog)
	appLog.Info("API handlers initialized.")

	// --- Router ---
	routerCfg := &router.Config{
		ExtensionHandler: extensionHandler,
		LineHandler:      lineHandler,
		Logger:           appLog,
	}
	echoRouter := router.NewRouter(routerCfg)

	// --- HTTP Server ---
	apiServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      echoRouter,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// --- Start Server & Shutdown Handling ---
	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, alarms, done)

	appLog.Info(fmt.Sprintf("Server starting on port %d", port))
	err = apiServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		appLog.Error("HTTP server ListenAndServe error", err)
		panic(fmt.Sprintf("http server error: %s", err))
	}

	// Wait for graceful shutdown signal
	<-done
	appLog.Info("Graceful shutdown complete.")
}
