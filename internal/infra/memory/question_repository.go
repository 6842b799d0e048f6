package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"notion-quiz-service/internal/app"
	"notion-quiz-service/internal/domain"
)

// QuestionRepository caches transformed question sets with a TTL to
// avoid hitting the content API on every load.
type QuestionRepository struct {
	source app.QuestionSource
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedQuestions
}

type cachedQuestions struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionRepository(source app.QuestionSource, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		source: source,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedQuestions),
	}
}

func (r *QuestionRepository) GetQuestions(ctx context.Context, quizID string) ([]domain.Question, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[quizID]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.questions, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[quizID]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.questions, nil
		}
		r.mu.RUnlock()

		questions, err := r.source.LoadQuestions(ctx, quizID)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[quizID] = cachedQuestions{
			questions: questions,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticSource is a map-backed question source (useful for tests/demos).
type StaticSource struct {
	quizzes map[string][]domain.Question
}

func NewStaticSource(quizzes map[string][]domain.Question) *StaticSource {
	return &StaticSource{quizzes: quizzes}
}

func (s *StaticSource) LoadQuestions(_ context.Context, quizID string) ([]domain.Question, error) {
	if questions, ok := s.quizzes[quizID]; ok {
		return questions, nil
	}
	return nil, domain.ErrQuizNotFound
}
