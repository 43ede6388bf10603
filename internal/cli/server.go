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

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"techify-quiz/internal/app"
	"techify-quiz/internal/config"
	"techify-quiz/internal/infra/csvfile"
	"techify-quiz/internal/infra/memory"
	"techify-quiz/internal/infra/postgres"
	redisstore "techify-quiz/internal/infra/redis"
	"techify-quiz/internal/infra/remote"
	transport "techify-quiz/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the quiz server. Its port
// comes from --port, then PORT, then server.port.
func NewStartCmd(configPath *string) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, port)
		},
	}
	cmd.Flags().StringVar(&port, "port", os.Getenv("PORT"), "port to listen on (overrides server.port)")
	return cmd
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	needsPostgres := cfg.Questions.Backend == config.BackendPostgres || cfg.Leaderboard.Backend == config.LeaderboardPostgres
	if needsPostgres && cfg.Postgres.URL != "" {
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

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	var pool *pgxpool.Pool
	if needsPostgres {
		if cfg.Postgres.URL == "" {
			return fmt.Errorf("postgres url not configured")
		}
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	questions, err := buildQuestionRepository(cfg, pool, redisClient)
	if err != nil {
		return err
	}
	leaderboard, err := buildLeaderboardStore(cfg, pool, redisClient)
	if err != nil {
		return err
	}

	var sessions app.SessionRepository
	if redisClient != nil {
		sessions = redisstore.NewSessionStore(redisClient, config.Duration(cfg.Redis.TTL, 30*time.Minute))
	} else {
		sessions = memory.NewSessionStore()
	}

	service := app.NewQuizService(sessions, questions, leaderboard)
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	transport.NewAPIHandler(service).Register(mux)
	mux.HandleFunc("/ws/leaderboard", wsHandler.ServeLeaderboard)

	log.Printf("questions from %s backend, leaderboard in %s backend", cfg.Questions.Backend, cfg.Leaderboard.Backend)
	return serve(ctx, "quiz service", finalPort, mux)
}

// buildQuestionRepository picks the configured question source and wraps it
// in a cache: Redis when a client is available, otherwise in process when
// cache_ttl is set.
func buildQuestionRepository(cfg config.Config, pool *pgxpool.Pool, redisClient *redis.Client) (app.QuestionRepository, error) {
	var repo app.QuestionRepository
	switch cfg.Questions.Backend {
	case config.BackendLocal:
		repo = csvfile.NewQuestionRepository(cfg.Questions.Path)
	case config.BackendRemote:
		if cfg.Questions.Remote.BaseURL == "" {
			return nil, fmt.Errorf("remote question backend requires questions.remote.base_url")
		}
		timeout := config.Duration(cfg.Questions.Remote.Timeout, 10*time.Second)
		repo = remote.NewQuestionRepository(cfg.Questions.Remote.BaseURL, timeout, csvfile.NewQuestionRepository(cfg.Questions.Path))
	case config.BackendPostgres:
		repo = postgres.NewQuestionRepository(pool)
	case config.BackendMemory:
		repo = memory.NewQuestionRepository(nil)
	default:
		return nil, fmt.Errorf("unknown question backend %q", cfg.Questions.Backend)
	}

	ttl := config.Duration(cfg.Questions.CacheTTL, 0)
	switch {
	case ttl <= 0:
		return repo, nil
	case redisClient != nil:
		return redisstore.NewQuestionCache(redisClient, repo, ttl), nil
	default:
		return memory.NewCachedQuestionRepository(repo, ttl), nil
	}
}

func buildLeaderboardStore(cfg config.Config, pool *pgxpool.Pool, redisClient *redis.Client) (app.LeaderboardStore, error) {
	switch cfg.Leaderboard.Backend {
	case config.LeaderboardCSV:
		return csvfile.NewLeaderboardStore(cfg.Leaderboard.Path), nil
	case config.LeaderboardRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("redis leaderboard requires redis.addr")
		}
		return redisstore.NewLeaderboardStore(redisClient), nil
	case config.LeaderboardPostgres:
		return postgres.NewLeaderboardStore(pool), nil
	case config.LeaderboardMemory:
		return memory.NewLeaderboardStore(), nil
	default:
		return nil, fmt.Errorf("unknown leaderboard backend %q", cfg.Leaderboard.Backend)
	}
}

// serve runs handler on port until SIGINT/SIGTERM or ctx is done, then shuts
// down gracefully.
func serve(ctx context.Context, name, port string, handler http.Handler) error {
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("starting %s on :%s", name, port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start %s: %w", name, err)
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
