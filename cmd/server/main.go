package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"github.com/Alex7k/websocket-chat/api"
	"github.com/Alex7k/websocket-chat/identity"
	"github.com/Alex7k/websocket-chat/internal"
	"github.com/Alex7k/websocket-chat/moderation"
	"github.com/Alex7k/websocket-chat/ratelimit"
	"github.com/Alex7k/websocket-chat/repositories"
	"github.com/Alex7k/websocket-chat/runtime"
	"github.com/Alex7k/websocket-chat/runtime/workers"
	"github.com/Alex7k/websocket-chat/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting. This pattern is preferred over calling
// os.Exit or panic directly because:
// 1. It ensures all 'defer' statements (like database cleanup) are executed before the program exits.
// 2. It improves testability by decoupling the initialization logic from the main entry point.
// 3. It provides a structured way to handle graceful shutdowns for the HTTP server and background workers.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Core components
	repository := repositories.NewMessageRepository(db, log)
	limiter := ratelimit.NewLimiter(config.RateLimitMax, config.RateLimitWindow)
	registry := runtime.NewRegistry()
	broadcaster := runtime.NewBroadcaster(config.EventBufferSize, log)
	resolver := identity.NewResolver([]byte(config.CookieSecret), config.CookieMaxAge, log)

	var censor *moderation.Censor
	if words := config.Words(); len(words) > 0 {
		replacement, err := config.ReplacementRune()
		if err != nil {
			return err
		}
		censor, err = moderation.NewCensor(words, replacement, log)
		if err != nil {
			return fmt.Errorf("moderation setup failed: %w", err)
		}
	}

	chat := services.NewChatService(repository, limiter, broadcaster, registry, censor, log)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Background workers under supervision
	sup := workers.NewSupervisor(log)
	sup.Add(
		workers.NewEventFanout(log, broadcaster.Events(), registry),
		workers.NewRateLimitJanitor(log, limiter, config.RateLimitWindow),
	)
	supDone := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(supDone)
	}()

	// 6. HTTP server
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := &http.Server{
		Addr: address,
		Handler: api.NewServer(chat, resolver, repository, api.ServerOptions{
			AllowedOrigins:       config.Origins(),
			CookieSecure:         config.CookieSecure,
			CookieMaxAge:         config.CookieMaxAge,
			ConnectionBufferSize: config.ConnectionBufferSize,
		}, log),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // long-lived websocket responses
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 7. Wait for stop or error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown incomplete", "error", err)
	}
	<-supDone
	return nil
}
