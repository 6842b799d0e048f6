package notion

import (
	"sort"
	"strconv"
	"strings"

	"notion-quiz-service/internal/domain"
)

// Transform normalizes raw database pages into quiz questions.
// Pages missing the question or correctAnswer property are dropped, as
// is any page whose shape cannot be read; one malformed page never
// fails the batch. The result is stable-sorted ascending by display
// number.
func Transform(pages []Page) []domain.Question {
	questions := make([]domain.Question, 0, len(pages))
	for i, page := range pages {
		q, ok := transformPage(page, i+1)
		if !ok {
			continue
		}
		questions = append(questions, q)
	}
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].No < questions[j].No
	})
	return questions
}

func transformPage(page Page, position int) (domain.Question, bool) {
	props := page.Properties
	if props == nil {
		return domain.Question{}, false
	}
	questionProp, hasQuestion := props[propQuestion]
	correctProp, hasCorrect := props[propCorrectAnswer]
	if !hasQuestion || !hasCorrect {
		return domain.Question{}, false
	}

	options := make(map[string]string, len(domain.OptionKeys))
	for _, key := range domain.OptionKeys {
		text := props[choicePrefix+key].PlainText()
		// A, B and C are always present; D and E only when supplied.
		if key == "A" || key == "B" || key == "C" || text != "" {
			options[key] = text
		}
	}

	return domain.Question{
		ID:          page.ID,
		No:          displayNumber(props, position),
		Text:        questionProp.PlainText(),
		Options:     options,
		CorrectKeys: SplitAnswerKeys(correctProp.PlainText()),
		Explanation: props[propExplanation].PlainText(),
	}, true
}

// displayNumber prefers the unique_id property, then a numeric id
// property, then the page's 1-based position in the fetch.
func displayNumber(props map[string]Property, position int) int {
	if uid := props[propUniqueID].UniqueID; uid != nil {
		return uid.Number
	}
	if raw := props[propID].PlainText(); raw != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			return n
		}
	}
	return position
}

// SplitAnswerKeys splits a correct-answer field on ASCII and
// full-width commas, trimming whitespace and dropping empty or
// duplicate tokens. Order of first appearance is preserved.
func SplitAnswerKeys(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '、'
	})
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
