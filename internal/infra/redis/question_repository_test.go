package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"notion-quiz-service/internal/app"
	"notion-quiz-service/internal/domain"
	"notion-quiz-service/internal/infra/memory"
)

func TestQuestionRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	source := &countingSource{
		QuestionSource: memory.NewStaticSource(map[string][]domain.Question{
			"quiz-1": sampleQuestions(),
		}),
	}
	repo := NewQuestionRepository(client, source, time.Minute)

	questions, err := repo.GetQuestions(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get questions: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("expected source called once, got %d", source.calls)
	}
	if !mr.Exists("quiz:quiz-1:questions") {
		t.Fatalf("expected cache key to be set")
	}

	// Second call should hit redis, not the source, and keep all
	// question fields intact.
	cached, err := repo.GetQuestions(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get questions 2: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("expected cache hit, source calls=%d", source.calls)
	}
	if len(cached) != len(questions) || cached[0].Text != questions[0].Text {
		t.Fatalf("cached questions must round-trip, got %+v", cached)
	}
	if cached[0].Options["B"] != "4" || cached[0].CorrectKeys[0] != "B" {
		t.Fatalf("expected full question content from cache, got %+v", cached[0])
	}
}

func TestQuestionRepositoryPropagatesSourceErrors(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	repo := NewQuestionRepository(newClient(mr), memory.NewStaticSource(nil), time.Minute)
	if _, err := repo.GetQuestions(context.Background(), "missing"); err != domain.ErrQuizNotFound {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

type countingSource struct {
	app.QuestionSource
	calls int
}

func (s *countingSource) LoadQuestions(ctx context.Context, quizID string) ([]domain.Question, error) {
	s.calls++
	return s.QuestionSource.LoadQuestions(ctx, quizID)
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:   "q1",
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
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
