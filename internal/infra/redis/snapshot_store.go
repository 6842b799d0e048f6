package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"notion-quiz-service/internal/domain"
)

// SnapshotStore holds session handoff snapshots in Redis so the score
// view can read them after a full navigation. Questions and answers
// are stored under separate keys, mirroring the two-entry handoff
// contract:
//
//	SET session:{key}:questions {json} EX {ttl}
//	SET session:{key}:answers   {json} EX {ttl}
//
// A slot is overwritten on write and expires on its own if the client
// never resets.
type SnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSnapshotStore(client *redis.Client, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{client: client, ttl: ttl}
}

func (s *SnapshotStore) Write(ctx context.Context, key string, snapshot domain.SessionSnapshot) error {
	questions, err := json.Marshal(snapshot.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	answers, err := json.Marshal(snapshot.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.questionsKey(key), questions, s.ttl)
	pipe.Set(ctx, s.answersKey(key), answers, s.ttl)
	pipe.Set(ctx, s.metaKey(key), snapshotMeta(snapshot), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) Read(ctx context.Context, key string) (domain.SessionSnapshot, error) {
	questionsData, err := s.client.Get(ctx, s.questionsKey(key)).Bytes()
	if err == redis.Nil {
		return domain.SessionSnapshot{}, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return domain.SessionSnapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	answersData, err := s.client.Get(ctx, s.answersKey(key)).Bytes()
	if err == redis.Nil {
		return domain.SessionSnapshot{}, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return domain.SessionSnapshot{}, fmt.Errorf("read snapshot: %w", err)
	}

	snapshot := domain.SessionSnapshot{Version: domain.SnapshotVersion}
	if err := json.Unmarshal(questionsData, &snapshot.Questions); err != nil {
		return domain.SessionSnapshot{}, fmt.Errorf("unmarshal questions: %w", err)
	}
	if err := json.Unmarshal(answersData, &snapshot.Answers); err != nil {
		return domain.SessionSnapshot{}, fmt.Errorf("unmarshal answers: %w", err)
	}

	var meta struct {
		Version int    `json:"version"`
		QuizID  string `json:"quizId"`
	}
	if metaData, err := s.client.Get(ctx, s.metaKey(key)).Bytes(); err == nil {
		if err := json.Unmarshal(metaData, &meta); err == nil {
			snapshot.QuizID = meta.QuizID
			if meta.Version != 0 {
				snapshot.Version = meta.Version
			}
		}
	}
	return snapshot, nil
}

func (s *SnapshotStore) Clear(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.questionsKey(key), s.answersKey(key), s.metaKey(key)).Err()
}

func snapshotMeta(snapshot domain.SessionSnapshot) string {
	meta, _ := json.Marshal(map[string]any{
		"version": snapshot.Version,
		"quizId":  snapshot.QuizID,
	})
	return string(meta)
}

func (s *SnapshotStore) questionsKey(key string) string {
	return "session:" + key + ":questions"
}

func (s *SnapshotStore) answersKey(key string) string {
	return "session:" + key + ":answers"
}

func (s *SnapshotStore) metaKey(key string) string {
	return "session:" + key + ":meta"
}
