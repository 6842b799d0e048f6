package domain

// OptionKeys is the full set of option keys a question may carry, in
// display order. A, B and C are always present in a question's option
// map; D and E appear only when the source supplied text for them.
var OptionKeys = []string{"A", "B", "C", "D", "E"}

// QuizInfo identifies one selectable quiz set in the catalog.
type QuizInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Question is one normalized quiz item.
type Question struct {
	ID          string            `json:"id"`
	No          int               `json:"no"`
	Text        string            `json:"question"`
	Options     map[string]string `json:"options"`
	CorrectKeys []string          `json:"correctAnswers"`
	Explanation string            `json:"explanation"`
}

// Answer records one user submission for a question. SelectedKeys is
// the raw comma-joined selection as submitted.
type Answer struct {
	QuestionID   string `json:"questionId"`
	SelectedKeys string `json:"selectedOption"`
	IsCorrect    bool   `json:"isCorrect"`
}

// Score is a derived readout, never stored. A midway score counts only
// answered questions in Total; a final score counts every question,
// with unanswered ones implicitly incorrect.
type Score struct {
	Answered   int `json:"answered"`
	Correct    int `json:"correct"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// SnapshotVersion is the current handoff schema version.
const SnapshotVersion = 1

// SessionSnapshot is the serialized handoff between the quiz-taking
// flow and the score view.
type SessionSnapshot struct {
	Version   int               `json:"version"`
	QuizID    string            `json:"quizId"`
	Questions []Question        `json:"questions"`
	Answers   map[string]Answer `json:"answers"`
}
