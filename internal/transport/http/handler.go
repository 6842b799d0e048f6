package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"notion-quiz-service/internal/app"
	"notion-quiz-service/internal/domain"
)

// Handler exposes the quiz use cases over REST.
type Handler struct {
	service *app.QuizService
}

func NewHandler(service *app.QuizService) *Handler {
	return &Handler{service: service}
}

// NewRouter assembles the HTTP surface: content endpoints matching the
// original client API, the session state machine, the score view and
// the websocket flow.
func NewRouter(service *app.QuizService, allowedOrigins []string) http.Handler {
	h := NewHandler(service)
	ws := NewWSHandler(service)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(api chi.Router) {
		api.Get("/databases", h.ListDatabases)
		api.Get("/quiz", h.GetQuiz)

		api.Route("/sessions", func(sr chi.Router) {
			sr.Post("/", h.StartSession)
			sr.Get("/{sessionID}", h.GetSession)
			sr.Post("/{sessionID}/quiz", h.SelectQuiz)
			sr.Post("/{sessionID}/answers", h.SubmitAnswer)
			sr.Post("/{sessionID}/next", h.MoveToNext)
			sr.Post("/{sessionID}/previous", h.MoveToPrevious)
			sr.Get("/{sessionID}/score", h.MidwayScore)
			sr.Post("/{sessionID}/finish", h.Finish)
			sr.Delete("/{sessionID}", h.Reset)
		})

		api.Get("/score/{key}", h.FinalScore)
	})

	r.Get("/ws", ws.ServeWS)
	return r
}

// ListDatabases returns the quiz catalog. The catalog never blocks:
// an empty list is a valid response.
func (h *Handler) ListDatabases(w http.ResponseWriter, r *http.Request) {
	catalog := h.service.Catalog()
	if catalog == nil {
		catalog = []domain.QuizInfo{}
	}
	writeJSON(w, http.StatusOK, catalog)
}

// GetQuiz returns the normalized question set for a quiz, the contract
// the quiz-taking view consumes.
func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	if quizID == "" {
		writeError(w, http.StatusBadRequest, "quizId is required")
		return
	}
	questions, err := h.service.Questions(r.Context(), quizID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

type startSessionRequest struct {
	QuizID string `json:"quizId"`
}

func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.QuizID == "" {
		writeError(w, http.StatusBadRequest, "quizId is required")
		return
	}
	view, err := h.service.StartSession(r.Context(), req.QuizID)
	if err != nil {
		// The session exists and carries the user-facing error; return
		// it so the client can render the return-to-start affordance.
		writeJSON(w, statusFor(err), view)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Session(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) SelectQuiz(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.QuizID == "" {
		writeError(w, http.StatusBadRequest, "quizId is required")
		return
	}
	view, err := h.service.SelectQuiz(r.Context(), chi.URLParam(r, "sessionID"), req.QuizID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, statusFor(err), view)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type submitAnswerRequest struct {
	QuestionID string `json:"questionId"`
	Selected   string `json:"selected"`
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	answer, view, err := h.service.SubmitAnswer(r.Context(), chi.URLParam(r, "sessionID"), req.QuestionID, req.Selected)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Answer  domain.Answer   `json:"answer"`
		Session app.SessionView `json:"session"`
	}{answer, view})
}

func (h *Handler) MoveToNext(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.MoveToNext(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) MoveToPrevious(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.MoveToPrevious(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) MidwayScore(w http.ResponseWriter, r *http.Request) {
	score, err := h.service.Score(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, score)
}

func (h *Handler) Finish(w http.ResponseWriter, r *http.Request) {
	key, err := h.service.Finish(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"scoreKey": key})
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.service.Reset(r.Context(), chi.URLParam(r, "sessionID"))
	w.WriteHeader(http.StatusNoContent)
}

// FinalScore serves the score view. A missing snapshot is "no data":
// the client redirects to the start view instead of rendering a broken
// score.
func (h *Handler) FinalScore(w http.ResponseWriter, r *http.Request) {
	score, snapshot, err := h.service.FinalScore(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Score     domain.Score             `json:"score"`
		Questions []domain.Question        `json:"questions"`
		Answers   map[string]domain.Answer `json:"answers"`
	}{score, snapshot.Questions, snapshot.Answers})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrNoQuestions),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrQuestionNotFound),
		errors.Is(err, domain.ErrSnapshotNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmptySelection):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
