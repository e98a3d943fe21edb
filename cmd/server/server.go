package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/Deepak-techy/QuickLink-Url-Shortner/cmd"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/api"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/config"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/listsync"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/models"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/registry"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/repository"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/services"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/workers"
)

// RunServerCmd starts the HTTP server together with the click workers and
// the list synchronizer.
var RunServerCmd = &cobra.Command{
	Use:   "run-server",
	Short: "Starts the QuickLink API server and its background processes.",
	Long: `This command initializes the registry database, wires the link services,
starts the asynchronous click workers and the polling list synchronizer,
then serves HTTP until interrupted.`,
	Run: func(cobraCmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		db, err := gorm.Open(sqlite.Open(cfg.Database.Name), &gorm.Config{})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := db.AutoMigrate(&models.LinkRecord{}); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}

		repo := repository.NewLinkRepository(db)
		log.Println("Local registry store initialized.")

		// Core components use the local store unless a remote registry is
		// configured; the CRUD endpoints always serve the local one.
		var store registry.Store = repo
		if cfg.Registry.BaseURL != "" {
			store = registry.NewClient(cfg.Registry.BaseURL, time.Duration(cfg.Registry.TimeoutSeconds)*time.Second)
			log.Printf("Using remote registry at %s", cfg.Registry.BaseURL)
		}

		linkService := services.NewLinkService(store)
		tracker := services.NewClickTracker(store)
		log.Println("Link services initialized.")

		// Background work is owned by this context and stops with it.
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		clickEvents := make(chan models.ClickEvent, cfg.Analytics.BufferSize)
		workers.StartClickWorkers(ctx, cfg.Analytics.WorkerCount, clickEvents, tracker)
		resolver := services.NewResolver(store, workers.NewChannelSink(clickEvents))
		log.Printf("Click pipeline initialized with a buffer of %d and %d worker(s).",
			cfg.Analytics.BufferSize, cfg.Analytics.WorkerCount)

		syncInterval := time.Duration(cfg.Sync.IntervalSeconds) * time.Second
		syncer := listsync.NewSynchronizer(store, syncInterval)
		go syncer.Run(ctx)

		router := gin.Default()
		api.SetupRoutes(router, repo, linkService, resolver, syncer, cfg.Server.BaseURL)
		log.Println("API routes configured.")

		serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
		srv := &http.Server{
			Addr:    serverAddr,
			Handler: router,
		}

		go func() {
			log.Printf("Starting server on %s", serverAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Failed to start server: %v", err)
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutdown signal received. Stopping server...")

		// Stop the synchronizer and the workers, then drain the HTTP server.
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}

		log.Println("Server stopped cleanly.")
	},
}

func init() {
	cmd.RootCmd.AddCommand(RunServerCmd)
}
