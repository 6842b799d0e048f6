package notion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"notion-quiz-service/internal/domain"
)

func TestClientLoadQuestions(t *testing.T) {
	var gotAuth, gotVersion string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotVersion = r.Header.Get("Notion-Version")
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		var body map[string]int
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body["page_size"] != 100 {
			t.Errorf("expected page_size 100 body, got %v (err=%v)", body, err)
		}
		_ = json.NewEncoder(w).Encode(QueryResponse{Results: []Page{questionPage("p1", 1, "A")}})
	}))
	defer server.Close()

	client := NewClient("secret-token", server.URL)
	questions, err := client.LoadQuestions(context.Background(), "db-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(questions) != 1 || questions[0].ID != "p1" {
		t.Fatalf("expected one transformed question, got %+v", questions)
	}
	if gotAuth != "Bearer secret-token" {
		t.Fatalf("expected bearer credential, got %q", gotAuth)
	}
	if gotVersion == "" {
		t.Fatalf("expected Notion-Version header")
	}
}

func TestClientMapsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"object":"error"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient("secret-token", server.URL)
	if _, err := client.LoadQuestions(context.Background(), "missing"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestClientRejectsUpstreamErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient("secret-token", server.URL)
	if _, err := client.LoadQuestions(context.Background(), "db-1"); err == nil {
		t.Fatalf("expected error for upstream 500")
	}
}

func TestClientRejectsMissingResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient("secret-token", server.URL)
	if _, err := client.LoadQuestions(context.Background(), "db-1"); err == nil {
		t.Fatalf("expected error for payload without results")
	}
}

func TestClientRequiresCredential(t *testing.T) {
	client := NewClient("", "")
	if _, err := client.LoadQuestions(context.Background(), "db-1"); err == nil {
		t.Fatalf("expected error when credential is missing")
	}
}
