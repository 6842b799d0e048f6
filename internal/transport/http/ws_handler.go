package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"notion-quiz-service/internal/app"
	"notion-quiz-service/internal/domain"
)

// WSHandler runs the interactive quiz-taking flow over a websocket.
// The connection is the UI event loop: intents come in one at a time
// and each one is answered with the resulting session state, so there
// is a single logical writer per session.
type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	QuestionID string `json:"questionId"`
	Selected   string `json:"selected"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type finishPayload struct {
	ScoreKey string       `json:"scoreKey"`
	Score    domain.Score `json:"score"`
}

// ServeWS upgrades the request and drives one quiz session until the
// client disconnects or finishes.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	if quizID == "" {
		http.Error(w, "missing quizId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// On load failure the view carries the user-facing message; the
	// connection stays open so the client can select another quiz.
	view, _ := h.service.StartSession(r.Context(), quizID)
	h.sendSession(conn, view)
	sessionID := view.ID
	defer h.service.EndSession(sessionID)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		switch inbound.Type {
		case "select":
			var payload struct {
				QuizID string `json:"quizId"`
			}
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.QuizID == "" {
				h.sendError(conn, "invalid select payload")
				continue
			}
			view, _ := h.service.SelectQuiz(r.Context(), sessionID, payload.QuizID)
			h.sendSession(conn, view)
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.sendError(conn, "invalid answer payload")
				continue
			}
			answer, view, err := h.service.SubmitAnswer(r.Context(), sessionID, payload.QuestionID, payload.Selected)
			if err != nil {
				h.sendError(conn, err.Error())
				continue
			}
			_ = conn.WriteJSON(outboundMessage[domain.Answer]{Type: "answerResult", Payload: answer})
			h.sendSession(conn, view)
		case "next":
			view, err := h.service.MoveToNext(sessionID)
			if err != nil {
				h.sendError(conn, err.Error())
				continue
			}
			h.sendSession(conn, view)
		case "previous":
			view, err := h.service.MoveToPrevious(sessionID)
			if err != nil {
				h.sendError(conn, err.Error())
				continue
			}
			h.sendSession(conn, view)
		case "score":
			score, err := h.service.Score(sessionID)
			if err != nil {
				h.sendError(conn, err.Error())
				continue
			}
			_ = conn.WriteJSON(outboundMessage[domain.Score]{Type: "midwayScore", Payload: score})
		case "finish":
			key, err := h.service.Finish(r.Context(), sessionID)
			if err != nil {
				h.sendError(conn, err.Error())
				continue
			}
			score, _, err := h.service.FinalScore(r.Context(), key)
			if err != nil {
				h.sendError(conn, err.Error())
				continue
			}
			_ = conn.WriteJSON(outboundMessage[finishPayload]{Type: "finished", Payload: finishPayload{ScoreKey: key, Score: score}})
		case "reset":
			h.service.Reset(r.Context(), sessionID)
			_ = conn.WriteJSON(outboundMessage[struct{}]{Type: "reset"})
			return
		default:
			h.sendError(conn, "unsupported message type")
		}
	}
}

func (h *WSHandler) sendSession(conn *websocket.Conn, view app.SessionView) {
	_ = conn.WriteJSON(outboundMessage[app.SessionView]{Type: "session", Payload: view})
}

func (h *WSHandler) sendError(conn *websocket.Conn, message string) {
	_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: message}})
}
