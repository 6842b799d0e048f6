package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"notion-quiz-service/internal/app"
	"notion-quiz-service/internal/domain"
	"notion-quiz-service/internal/infra/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	repo := memory.NewQuestionRepository(memory.NewStaticSource(sampleQuizzes()), time.Minute)
	catalog := []domain.QuizInfo{{ID: "quiz-1", Name: "Sample"}}
	service := app.NewQuizService(memory.NewSessionStore(), repo, memory.NewSnapshotStore(), catalog)
	server := httptest.NewServer(NewRouter(service, nil))
	t.Cleanup(server.Close)
	return server
}

func TestListDatabases(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/databases")
	if err != nil {
		t.Fatalf("get databases: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var catalog []domain.QuizInfo
	if err := json.NewDecoder(resp.Body).Decode(&catalog); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(catalog) != 1 || catalog[0].ID != "quiz-1" {
		t.Fatalf("unexpected catalog %+v", catalog)
	}
}

func TestGetQuiz(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/quiz?quizId=quiz-1")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var questions []domain.Question
	if err := json.NewDecoder(resp.Body).Decode(&questions); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
}

func TestGetQuizErrors(t *testing.T) {
	server := newTestServer(t)

	resp, _ := http.Get(server.URL + "/api/quiz")
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without quizId, got %d", resp.StatusCode)
	}

	resp, err := http.Get(server.URL + "/api/quiz?quizId=missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown quiz, got %d", resp.StatusCode)
	}
	var errBody map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&errBody); err != nil || errBody["error"] == "" {
		t.Fatalf("expected error payload, got %v (err=%v)", errBody, err)
	}
}

func TestSessionFlowOverREST(t *testing.T) {
	server := newTestServer(t)

	view := postJSON[app.SessionView](t, server.URL+"/api/sessions", map[string]string{"quizId": "quiz-1"}, http.StatusCreated)
	if view.TotalQuestions != 2 {
		t.Fatalf("expected 2 questions, got %+v", view)
	}

	base := server.URL + "/api/sessions/" + view.ID

	answered := postJSON[struct {
		Answer  domain.Answer   `json:"answer"`
		Session app.SessionView `json:"session"`
	}](t, base+"/answers", map[string]string{"questionId": "q1", "selected": "B"}, http.StatusOK)
	if !answered.Answer.IsCorrect || !answered.Session.ExplanationVisible {
		t.Fatalf("expected correct answer with explanation, got %+v", answered)
	}

	next := postJSON[app.SessionView](t, base+"/next", nil, http.StatusOK)
	if next.CurrentIndex != 1 {
		t.Fatalf("expected index 1, got %+v", next)
	}

	_ = postJSON[struct {
		Answer  domain.Answer   `json:"answer"`
		Session app.SessionView `json:"session"`
	}](t, base+"/answers", map[string]string{"questionId": "q2", "selected": "A"}, http.StatusOK)

	finish := postJSON[map[string]string](t, base+"/finish", nil, http.StatusOK)
	key := finish["scoreKey"]
	if key == "" {
		t.Fatalf("expected score key, got %v", finish)
	}

	resp, err := http.Get(server.URL + "/api/score/" + key)
	if err != nil {
		t.Fatalf("get score: %v", err)
	}
	defer resp.Body.Close()
	var result struct {
		Score domain.Score `json:"score"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode score: %v", err)
	}
	if result.Score.Correct != 1 || result.Score.Total != 2 || result.Score.Percentage != 50 {
		t.Fatalf("expected 1/2 50%%, got %+v", result.Score)
	}
}

func TestScoreViewWithoutHandoffIs404(t *testing.T) {
	server := newTestServer(t)

	resp, _ := http.Get(server.URL + "/api/score/never-written")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for missing snapshot, got %d", resp.StatusCode)
	}
}

func TestSubmitEmptySelectionIs400(t *testing.T) {
	server := newTestServer(t)

	view := postJSON[app.SessionView](t, server.URL+"/api/sessions", map[string]string{"quizId": "quiz-1"}, http.StatusCreated)

	body, _ := json.Marshal(map[string]string{"questionId": "q1", "selected": ""})
	resp, err := http.Post(server.URL+"/api/sessions/"+view.ID+"/answers", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty selection, got %d", resp.StatusCode)
	}
}

func TestResetDeletesSession(t *testing.T) {
	server := newTestServer(t)

	view := postJSON[app.SessionView](t, server.URL+"/api/sessions", map[string]string{"quizId": "quiz-1"}, http.StatusCreated)

	req, _ := http.NewRequest(http.MethodDelete, server.URL+"/api/sessions/"+view.ID, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	resp, _ = http.Get(server.URL + "/api/sessions/" + view.ID)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after reset, got %d", resp.StatusCode)
	}
}

func postJSON[T any](t *testing.T, url string, body any, wantStatus int) T {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	resp, err := http.Post(url, "application/json", reader)
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("post %s: expected %d, got %d", url, wantStatus, resp.StatusCode)
	}
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func sampleQuizzes() map[string][]domain.Question {
	return map[string][]domain.Question{
		"quiz-1": {
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
			{
				ID:   "q2",
				No:   2,
				Text: "What is 3 + 3?",
				Options: map[string]string{
					"A": "5",
					"B": "6",
					"C": "7",
				},
				CorrectKeys: []string{"B"},
				Explanation: "3 + 3 = 6.",
			},
		},
	}
}
