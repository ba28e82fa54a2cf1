package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"daily-riddle-service/internal/app"
	"daily-riddle-service/internal/config"
	"daily-riddle-service/internal/infra/memory"
	pgstore "daily-riddle-service/internal/infra/postgres"
	redisstore "daily-riddle-service/internal/infra/redis"
	transport "daily-riddle-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the riddle server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	zone := time.UTC
	if cfg.Server.Timezone != "" {
		zone, err = time.LoadLocation(cfg.Server.Timezone)
		if err != nil {
			return fmt.Errorf("load timezone %q: %w", cfg.Server.Timezone, err)
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	// Puzzles live in Postgres when configured, otherwise in memory; either
	// way the schedule listing is cached, through Redis when available.
	var puzzles app.PuzzleStore = memory.NewPuzzleStore()
	if pool != nil {
		puzzles = pgstore.NewPuzzleStore(pool)
	}
	cacheTTL := config.TTLDuration(cfg.Puzzle.CacheTTL, 10*time.Minute)
	if redisClient != nil {
		puzzles = redisstore.NewPuzzleCache(redisClient, puzzles, cacheTTL)
	} else {
		puzzles = memory.NewPuzzleCache(puzzles, cacheTTL)
	}

	// Attempts prefer the durable store: Postgres for accounts, Redis for
	// anonymous identities when Postgres is absent, memory as the fallback.
	var attempts app.AttemptStore = memory.NewAttemptStore()
	if pool != nil {
		attempts = pgstore.NewAttemptStore(pool)
	} else if redisClient != nil {
		attempts = redisstore.NewAttemptStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 0))
	}

	service := app.NewPuzzleService(puzzles, app.NewLedger(attempts), zone)
	handler := transport.NewHandler(service)
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	handler.Register(mux)
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting riddle service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
