package main // Entry point package

import (
	"context"   // Context cancelled on shutdown signals
	"errors"    // Distinguishes a clean server close
	"log"       // Logging library
	"net/http"  // http.ErrServerClosed
	"os"        // Signal types
	"os/signal" // Shutdown on SIGINT/SIGTERM
	"syscall"   // SIGTERM
	"time"      // Sweep interval and shutdown grace

	"github.com/labstack/echo/v4"                   // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware" // Echo request logger and recovery

	"github.com/iliyamo/seatmap-studio/internal/config"     // Internal config loader
	"github.com/iliyamo/seatmap-studio/internal/database"   // Database connection and schema
	"github.com/iliyamo/seatmap-studio/internal/handler"    // HTTP handlers
	"github.com/iliyamo/seatmap-studio/internal/middleware" // Cache and rate limit middleware
	"github.com/iliyamo/seatmap-studio/internal/queue"      // seatmap.saved consumer
	"github.com/iliyamo/seatmap-studio/internal/repository" // Seat map persistence
	"github.com/iliyamo/seatmap-studio/internal/router"     // Internal router setup
	"github.com/iliyamo/seatmap-studio/internal/service"    // seatmap.saved publisher
	"github.com/iliyamo/seatmap-studio/internal/session"    // Editor session store
)

func main() {
	cfg := config.Load() // Load environment config

	editorCfg, err := config.LoadEditorConfig(cfg.EditorConfig) // Optional YAML editor defaults
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Open(cfg) // Connect to mysql or sqlite
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, db, cfg.DBDriver); err != nil { // Create tables when missing
		log.Fatal(err)
	}

	rdb := config.NewRedisClient() // nil when redis is unreachable; cache and rate limit then pass through
	cacheCfg := config.LoadCacheConfig()
	rateCfg := config.LoadRateLimitConfig()

	if cfg.RabbitURL != "" { // The consumer logs every saved seat map
		go func() {
			if err := queue.StartSeatMapConsumer(ctx, cfg.RabbitURL); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("seatmap consumer stopped: %v", err)
			}
		}()
	}

	seatMaps := repository.NewSeatMapRepo(db)
	sessions := session.NewStore()
	go sweepSessions(ctx, sessions, cfg.SessionIdleTTL) // Close abandoned editor sessions

	editorHandler := handler.NewEditorHandler(
		sessions,
		seatMaps,
		service.NewAMQPPublisher(cfg.RabbitURL),
		middleware.NewCachePurger(cacheCfg, rdb),
		editorCfg,
	)
	publicHandler := handler.NewPublicHandler(seatMaps, repository.NewTicketTypeRepo(db))

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Use(echomw.Logger())  // One log line per request
	e.Use(echomw.Recover()) // Turn handler panics into 500s

	router.RegisterRoutes(e, db)                           // Health and template catalogue
	router.RegisterEditor(e, editorHandler, cfg.JWTSecret) // Owner authoring API
	router.RegisterPublic(e, publicHandler,                // Guest seat map
		middleware.NewTokenBucket(rateCfg, rdb),
		middleware.NewRedisCache(cacheCfg, rdb),
	)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) { // Start HTTP server
			log.Fatal(err) // Log and exit if server fails
		}
	}()

	<-ctx.Done() // Wait for a shutdown signal
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// sweepSessions closes editor sessions idle for longer than ttl until ctx
// is cancelled.
func sweepSessions(ctx context.Context, sessions *session.Store, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	t := time.NewTicker(ttl / 4)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := sessions.Sweep(ttl); n > 0 {
				log.Printf("closed %d idle editor sessions", n)
			}
		}
	}
}
