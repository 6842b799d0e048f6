package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"notion-quiz-service/internal/app"
	"notion-quiz-service/internal/config"
	"notion-quiz-service/internal/domain"
	"notion-quiz-service/internal/infra/memory"
	pgsnapshot "notion-quiz-service/internal/infra/postgres"
	redisinfra "notion-quiz-service/internal/infra/redis"
	"notion-quiz-service/internal/notion"
	transport "notion-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
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

	// Question source: live Notion when a credential is present, else
	// pre-baked Postgres snapshots, else the bundled demo quiz.
	var source app.QuestionSource
	switch {
	case cfg.Notion.APIKey != "":
		source = notion.NewClient(cfg.Notion.APIKey, cfg.Notion.BaseURL)
	case pool != nil:
		source = pgsnapshot.NewSnapshotLoader(pool)
	default:
		log.Printf("no notion api key or postgres url configured, serving demo quiz")
		source = memory.NewStaticSource(demoQuizzes())
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var questionRepo app.QuestionRepository
	if redisClient != nil {
		questionRepo = redisinfra.NewQuestionRepository(redisClient, source, quizTTL)
	} else {
		questionRepo = memory.NewQuestionRepository(source, quizTTL)
	}

	sessionTTL := config.TTLDuration(cfg.Session.TTL, 30*time.Minute)
	var snapshots app.SnapshotStore
	if redisClient != nil {
		snapshots = redisinfra.NewSnapshotStore(redisClient, sessionTTL)
	} else {
		snapshots = memory.NewSnapshotStore()
	}

	catalog := notion.ParseCatalog(cfg.Notion.Databases)
	if len(catalog) == 0 {
		if _, demo := source.(*memory.StaticSource); demo {
			catalog = []domain.QuizInfo{{ID: "demo", Name: "Demo Quiz"}}
		} else {
			log.Printf("quiz catalog is empty, check notion.databases config")
		}
	}

	service := app.NewQuizService(memory.NewSessionStore(), questionRepo, snapshots, catalog)
	router := transport.NewRouter(service, cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz service on :%s", finalPort)
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

// demoQuizzes provides a minimal quiz set so the service runs without
// any external configuration.
func demoQuizzes() map[string][]domain.Question {
	return map[string][]domain.Question{
		"demo": {
			{
				ID:   "demo-q1",
				No:   1,
				Text: "What is 2 + 2?",
				Options: map[string]string{
					"A": "3",
					"B": "4",
					"C": "5",
				},
				CorrectKeys: []string{"B"},
				Explanation: "2 + 2 = 4.",
			},
			{
				ID:   "demo-q2",
				No:   2,
				Text: "Which of these are prime numbers?",
				Options: map[string]string{
					"A": "2",
					"B": "4",
					"C": "5",
				},
				CorrectKeys: []string{"A", "C"},
				Explanation: "2 and 5 are prime; 4 is not.",
			},
		},
	}
}
