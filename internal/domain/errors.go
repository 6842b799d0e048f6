package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrNoQuestions is returned when a quiz loads successfully but contains no usable questions.
	ErrNoQuestions = errors.New("no quiz data found")
	// ErrSessionNotFound is returned when a quiz session does not exist or was reset.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrQuestionNotFound indicates a submitted question ID is not part of the session.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrEmptySelection is returned when an answer is submitted with no options selected.
	ErrEmptySelection = errors.New("no option selected")
	// ErrSnapshotNotFound is returned when the score view is reached without a prior handoff.
	ErrSnapshotNotFound = errors.New("session snapshot not found")
)
