package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"notion-quiz-service/internal/domain"
)

// SnapshotLoader serves question sets pre-baked into Postgres by the
// snapshot command, for deployments without a live Notion credential.
type SnapshotLoader struct {
	pool *pgxpool.Pool
}

func NewSnapshotLoader(pool *pgxpool.Pool) *SnapshotLoader {
	return &SnapshotLoader{pool: pool}
}

func (l *SnapshotLoader) LoadQuestions(ctx context.Context, quizID string) ([]domain.Question, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM quiz_snapshots WHERE id=$1`, quizID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrQuizNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load quiz snapshot: %w", err)
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("unmarshal quiz snapshot: %w", err)
	}
	return questions, nil
}
