package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/wedding-feed/app/api"
	"github.com/lysyi3m/wedding-feed/app/cfg"
	"github.com/lysyi3m/wedding-feed/app/database"
	"github.com/lysyi3m/wedding-feed/app/guestbook"
	"github.com/lysyi3m/wedding-feed/app/invitation"
	"github.com/lysyi3m/wedding-feed/app/rsvp"
	"github.com/lysyi3m/wedding-feed/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	slog.Info("Starting Wedding Feed server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	invitationCache := invitation.NewCache(appCfg.InvitationFile)
	config, err := invitationCache.Reload()
	if err != nil {
		slog.Error("Failed to load invitation", "path", appCfg.InvitationFile, "error", err)
		os.Exit(1)
	}
	slog.Info("Invitation loaded", "title", config.DisplayTitle(), "date", config.Date, "rsvp_open", config.RSVP.IsOpen(time.Now()))

	hub := guestbook.NewHub(appCfg.SubscriberBuffer)
	store := guestbook.NewStore(database.NewEntryRepository(db), hub, invitationCache, guestbook.NewPasswordHasher())
	rsvpService := rsvp.NewService(database.NewRSVPRepository(db), invitationCache)

	scheduler := tasks.NewScheduler(store, rsvpService)
	scheduler.Start()

	apiHandler := api.NewHandler(store, rsvpService, invitationCache, scheduler)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	// No WriteTimeout: websocket and SSE responses stay open
	httpServer := &http.Server{
		Addr:              ":" + appCfg.Port,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port, "url", appCfg.SelfURL("/"))

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	// Ending subscriptions first lets stream handlers return before Shutdown waits on them
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	scheduler.Stop()

	slog.Info("Wedding Feed server shutdown complete")
}
