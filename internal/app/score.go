package app

import (
	"math"

	"notion-quiz-service/internal/domain"
)

// computeScore counts correct answers against the given total. The
// total is the answered count for a midway readout and the full
// question count for a final one, where unanswered questions count as
// incorrect.
func computeScore(answers map[string]domain.Answer, total int) domain.Score {
	correct := 0
	for _, a := range answers {
		if a.IsCorrect {
			correct++
		}
	}
	percentage := 0
	if total > 0 {
		percentage = int(math.Round(100 * float64(correct) / float64(total)))
	}
	return domain.Score{
		Answered:   len(answers),
		Correct:    correct,
		Total:      total,
		Percentage: percentage,
	}
}

// scoreSnapshot derives the final score from a handoff snapshot.
func scoreSnapshot(snapshot domain.SessionSnapshot) domain.Score {
	return computeScore(snapshot.Answers, len(snapshot.Questions))
}
