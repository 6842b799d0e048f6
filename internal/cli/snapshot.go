package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"notion-quiz-service/internal/config"
	"notion-quiz-service/internal/notion"
)

// NewSnapshotCmd fetches a quiz from Notion, transforms it and stores
// the result in Postgres, so the server can run without a live
// credential.
func NewSnapshotCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot <quiz-id>",
		Short: "Fetch a quiz from Notion and store it as a Postgres snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(cmd.Context(), *configPath, args[0])
		},
	}
}

func runSnapshot(ctx context.Context, configPath, quizID string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Notion.APIKey == "" {
		return fmt.Errorf("notion api key not configured")
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	client := notion.NewClient(cfg.Notion.APIKey, cfg.Notion.BaseURL)
	questions, err := client.LoadQuestions(ctx, quizID)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		return fmt.Errorf("quiz %s has no usable questions", quizID)
	}

	data, err := json.Marshal(questions)
	if err != nil {
		return err
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	_, err = db.ExecContext(ctx,
		`INSERT INTO quiz_snapshots (id, data, fetched_at) VALUES (?, ?::jsonb, now())
		 ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data, fetched_at=now()`,
		quizID, string(data))
	if err != nil {
		return err
	}
	log.Printf("snapshot stored for quiz %s (%d questions)", quizID, len(questions))
	return nil
}
