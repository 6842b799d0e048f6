package app

import (
	"sort"
	"strings"
	"sync"

	"notion-quiz-service/internal/domain"
)

// Session holds one in-progress quiz attempt. All mutation goes
// through its methods; the mutex keeps concurrent transport handlers
// from interleaving writes.
type Session struct {
	id string

	mu                 sync.RWMutex
	quizID             string
	questions          []domain.Question
	currentIndex       int
	answers            map[string]domain.Answer
	explanationVisible bool
	loading            bool
	errMsg             string
	loadGen            uint64
}

// SessionView is the read model handed to transports.
type SessionView struct {
	ID                 string                   `json:"id"`
	QuizID             string                   `json:"quizId"`
	CurrentIndex       int                      `json:"currentIndex"`
	TotalQuestions     int                      `json:"totalQuestions"`
	CurrentQuestion    *domain.Question         `json:"currentQuestion,omitempty"`
	Answers            map[string]domain.Answer `json:"answers"`
	ExplanationVisible bool                     `json:"explanationVisible"`
	Loading            bool                     `json:"loading"`
	Error              string                   `json:"error,omitempty"`
}

func newSession(id string) *Session {
	return &Session{
		id:      id,
		answers: make(map[string]domain.Answer),
	}
}

// NewSession is exported for infrastructure layers and tests that need
// to seed sessions.
func NewSession(id string) *Session {
	return newSession(id)
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// beginLoad points the session at a quiz and clears all attempt state.
// The returned generation ties an in-flight fetch to this selection;
// a fetch started before a newer selection commits nothing.
func (s *Session) beginLoad(quizID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadGen++
	s.quizID = quizID
	s.questions = nil
	s.currentIndex = 0
	s.answers = make(map[string]domain.Answer)
	s.explanationVisible = false
	s.loading = true
	s.errMsg = ""
	return s.loadGen
}

// completeLoad installs fetched questions if the selection that
// started the fetch is still current.
func (s *Session) completeLoad(gen uint64, questions []domain.Question) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.loadGen {
		return false
	}
	s.questions = questions
	s.loading = false
	return true
}

// failLoad records a user-facing load error, unless superseded.
func (s *Session) failLoad(gen uint64, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.loadGen {
		return
	}
	s.questions = nil
	s.loading = false
	s.errMsg = message
}

// submit records an answer for a question in this session and reveals
// the explanation. Re-answering a question overwrites the prior
// answer.
func (s *Session) submit(questionID, rawSelection string) (domain.Answer, error) {
	selected := splitSelection(rawSelection)
	if len(selected) == 0 {
		return domain.Answer{}, domain.ErrEmptySelection
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var question *domain.Question
	for i := range s.questions {
		if s.questions[i].ID == questionID {
			question = &s.questions[i]
			break
		}
	}
	if question == nil {
		return domain.Answer{}, domain.ErrQuestionNotFound
	}

	answer := domain.Answer{
		QuestionID:   questionID,
		SelectedKeys: rawSelection,
		IsCorrect:    sameKeySet(selected, question.CorrectKeys),
	}
	s.answers[questionID] = answer
	s.explanationVisible = true
	return answer, nil
}

// moveToNext advances to the next question, hiding the explanation.
// At the last question it is a no-op; the caller switches to scoring.
func (s *Session) moveToNext() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentIndex >= len(s.questions)-1 {
		return false
	}
	s.currentIndex++
	s.explanationVisible = false
	return true
}

// moveToPrevious steps back one question, floored at zero. The
// explanation is shown again if that question was already answered.
func (s *Session) moveToPrevious() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentIndex == 0 {
		return false
	}
	s.currentIndex--
	question := s.questions[s.currentIndex]
	_, answered := s.answers[question.ID]
	s.explanationVisible = answered
	return true
}

// snapshot captures the handoff payload for the score view.
func (s *Session) snapshot() domain.SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	questions := make([]domain.Question, len(s.questions))
	copy(questions, s.questions)
	answers := make(map[string]domain.Answer, len(s.answers))
	for id, a := range s.answers {
		answers[id] = a
	}
	return domain.SessionSnapshot{
		Version:   domain.SnapshotVersion,
		QuizID:    s.quizID,
		Questions: questions,
		Answers:   answers,
	}
}

// score derives the midway readout, counting only answered questions.
// The final score is computed from the handoff snapshot instead.
func (s *Session) score() domain.Score {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return computeScore(s.answers, len(s.answers))
}

// view builds the transport read model.
func (s *Session) view() SessionView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view := SessionView{
		ID:                 s.id,
		QuizID:             s.quizID,
		CurrentIndex:       s.currentIndex,
		TotalQuestions:     len(s.questions),
		Answers:            make(map[string]domain.Answer, len(s.answers)),
		ExplanationVisible: s.explanationVisible,
		Loading:            s.loading,
		Error:              s.errMsg,
	}
	for id, a := range s.answers {
		view.Answers[id] = a
	}
	if s.currentIndex < len(s.questions) {
		q := s.questions[s.currentIndex]
		view.CurrentQuestion = &q
	}
	return view
}

// splitSelection parses the raw comma-joined user selection, trimming
// whitespace and dropping empty or duplicate keys.
func splitSelection(raw string) []string {
	parts := strings.Split(raw, ",")
	keys := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		key := strings.TrimSpace(part)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

// sameKeySet reports whether two key sets are equal, ignoring order.
// Both must be non-empty; partial matches never count.
func sameKeySet(selected, correct []string) bool {
	if len(selected) == 0 || len(correct) == 0 || len(selected) != len(correct) {
		return false
	}
	a := append([]string(nil), selected...)
	b := append([]string(nil), correct...)
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
