package app

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"notion-quiz-service/internal/domain"
)

// QuestionSource loads quiz content from a backing store (Notion API,
// Postgres snapshot, static map).
type QuestionSource interface {
	LoadQuestions(ctx context.Context, quizID string) ([]domain.Question, error)
}

// QuestionRepository is a cached view over a QuestionSource.
type QuestionRepository interface {
	GetQuestions(ctx context.Context, quizID string) ([]domain.Question, error)
}

// SessionRepository stores live quiz sessions.
type SessionRepository interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// SnapshotStore is the handoff between the quiz-taking flow and the
// score view: one slot per key, overwritten on write, stale after the
// session that wrote it resets.
type SnapshotStore interface {
	Write(ctx context.Context, key string, snapshot domain.SessionSnapshot) error
	Read(ctx context.Context, key string) (domain.SessionSnapshot, error)
	Clear(ctx context.Context, key string) error
}

// QuizService contains the quiz-taking use cases. All session state
// changes are funnelled through it.
type QuizService struct {
	sessions  SessionRepository
	questions QuestionRepository
	snapshots SnapshotStore
	catalog   []domain.QuizInfo
}

func NewQuizService(sessions SessionRepository, questions QuestionRepository, snapshots SnapshotStore, catalog []domain.QuizInfo) *QuizService {
	return &QuizService{
		sessions:  sessions,
		questions: questions,
		snapshots: snapshots,
		catalog:   catalog,
	}
}

// Catalog returns the selectable quiz sets. The catalog is parsed once
// at startup and survives session resets.
func (s *QuizService) Catalog() []domain.QuizInfo {
	return s.catalog
}

// Questions loads the normalized question set for a quiz without
// touching any session, the shape the original content endpoint
// exposes.
func (s *QuizService) Questions(ctx context.Context, quizID string) ([]domain.Question, error) {
	questions, err := s.questions.GetQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, domain.ErrNoQuestions
	}
	return questions, nil
}

// StartSession creates a session for the quiz and loads its questions.
// On load failure the session survives with a user-facing error so the
// client can offer a return-to-start affordance.
func (s *QuizService) StartSession(ctx context.Context, quizID string) (SessionView, error) {
	session := newSession(uuid.NewString())
	s.sessions.Put(session)
	err := s.load(ctx, session, quizID)
	return session.view(), err
}

// SelectQuiz repoints an existing session at a quiz, clearing all
// attempt state and reloading. Repeating a selection fully overwrites
// prior state rather than merging.
func (s *QuizService) SelectQuiz(ctx context.Context, sessionID, quizID string) (SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return SessionView{}, domain.ErrSessionNotFound
	}
	err := s.load(ctx, session, quizID)
	return session.view(), err
}

func (s *QuizService) load(ctx context.Context, session *Session, quizID string) error {
	gen := session.beginLoad(quizID)
	questions, err := s.questions.GetQuestions(ctx, quizID)
	if err != nil {
		log.Printf("load questions for quiz %s: %v", quizID, err)
		session.failLoad(gen, loadErrorMessage(err))
		return err
	}
	if len(questions) == 0 {
		session.failLoad(gen, loadErrorMessage(domain.ErrNoQuestions))
		return domain.ErrNoQuestions
	}
	// A newer selection may have superseded this load, in which case
	// the result is dropped.
	session.completeLoad(gen, questions)
	return nil
}

func loadErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound):
		return "quiz not found"
	case errors.Is(err, domain.ErrNoQuestions):
		return "no quiz data found"
	default:
		return "failed to load quiz data"
	}
}

// Session returns the current read model of a session.
func (s *QuizService) Session(sessionID string) (SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return SessionView{}, domain.ErrSessionNotFound
	}
	return session.view(), nil
}

// SubmitAnswer records a selection for a question and reveals its
// explanation. Empty selections are rejected; the UI is expected to
// prevent them before dispatching.
func (s *QuizService) SubmitAnswer(_ context.Context, sessionID, questionID, rawSelection string) (domain.Answer, SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Answer{}, SessionView{}, domain.ErrSessionNotFound
	}
	answer, err := session.submit(questionID, rawSelection)
	if err != nil {
		return domain.Answer{}, session.view(), err
	}
	return answer, session.view(), nil
}

// MoveToNext advances the session; a no-op at the last question.
func (s *QuizService) MoveToNext(sessionID string) (SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return SessionView{}, domain.ErrSessionNotFound
	}
	session.moveToNext()
	return session.view(), nil
}

// MoveToPrevious steps the session back; a no-op at the first question.
func (s *QuizService) MoveToPrevious(sessionID string) (SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return SessionView{}, domain.ErrSessionNotFound
	}
	session.moveToPrevious()
	return session.view(), nil
}

// Score computes the midway readout over the questions answered so far.
func (s *QuizService) Score(sessionID string) (domain.Score, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Score{}, domain.ErrSessionNotFound
	}
	return session.score(), nil
}

// Finish snapshots the attempt into the handoff store and returns the
// key the score view reads. The session itself stays live until reset.
func (s *QuizService) Finish(ctx context.Context, sessionID string) (string, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return "", domain.ErrSessionNotFound
	}
	if err := s.snapshots.Write(ctx, session.ID(), session.snapshot()); err != nil {
		return "", err
	}
	return session.ID(), nil
}

// FinalScore reads a handoff snapshot and computes the final score,
// with unanswered questions counted as incorrect. A missing snapshot
// surfaces ErrSnapshotNotFound so the caller can redirect to the start
// view.
func (s *QuizService) FinalScore(ctx context.Context, key string) (domain.Score, domain.SessionSnapshot, error) {
	snapshot, err := s.snapshots.Read(ctx, key)
	if err != nil {
		return domain.Score{}, domain.SessionSnapshot{}, err
	}
	return scoreSnapshot(snapshot), snapshot, nil
}

// EndSession drops a live session without touching its handoff
// snapshot, for transports cleaning up after a disconnect. The score
// view must still be able to read a snapshot written before the
// connection closed.
func (s *QuizService) EndSession(sessionID string) {
	s.sessions.Delete(sessionID)
}

// Reset destroys a session and clears its handoff snapshot. The quiz
// catalog is untouched.
func (s *QuizService) Reset(ctx context.Context, sessionID string) {
	if _, ok := s.sessions.Get(sessionID); !ok {
		return
	}
	s.sessions.Delete(sessionID)
	if err := s.snapshots.Clear(ctx, sessionID); err != nil {
		log.Printf("clear snapshot for session %s: %v", sessionID, err)
	}
}
