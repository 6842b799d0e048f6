package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"notion-quiz-service/internal/domain"
)

const (
	defaultBaseURL = "https://api.notion.com"
	apiVersion     = "2022-06-28"
	// One content-API page bounds a quiz fetch.
	pageSize = 100
)

// Client queries Notion databases and transforms the results into quiz
// questions. It holds the API credential server-side; the credential is
// never part of any response.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds a Notion client. baseURL may be empty to use the
// public API endpoint.
func NewClient(token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// LoadQuestions fetches one page of database records and normalizes
// them. It implements app.QuestionSource.
func (c *Client) LoadQuestions(ctx context.Context, quizID string) ([]domain.Question, error) {
	if c.token == "" {
		return nil, fmt.Errorf("notion api key not configured")
	}

	body, err := json.Marshal(map[string]int{"page_size": pageSize})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/databases/%s/query", c.baseURL, quizID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query notion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrQuizNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("notion api error: %s", resp.Status)
	}

	var payload QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode notion response: %w", err)
	}
	if payload.Results == nil {
		return nil, fmt.Errorf("notion response missing results")
	}
	return Transform(payload.Results), nil
}
