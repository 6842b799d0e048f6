package notion

// The Notion database query response, modeled as a tagged union of the
// property shapes this service reads. Unknown shapes decode to zero
// values and degrade to empty text rather than failing.

// QueryResponse is the body of POST /v1/databases/{id}/query.
type QueryResponse struct {
	Results []Page `json:"results"`
}

// Page is one record of a Notion database.
type Page struct {
	ID         string              `json:"id"`
	Properties map[string]Property `json:"properties"`
}

// Property carries at most one of the supported value shapes.
type Property struct {
	Title    []RichText `json:"title,omitempty"`
	RichText []RichText `json:"rich_text,omitempty"`
	Number   *float64   `json:"number,omitempty"`
	UniqueID *UniqueID  `json:"unique_id,omitempty"`
}

// RichText is a single text fragment.
type RichText struct {
	PlainText string `json:"plain_text"`
}

// UniqueID is Notion's auto-incremented identifier property.
type UniqueID struct {
	Number int `json:"number"`
}

// Property names this service expects on quiz database pages.
const (
	propQuestion      = "question"
	propCorrectAnswer = "correctAnswer"
	propExplanation   = "explanation"
	propUniqueID      = "unique_id"
	propID            = "id"
	choicePrefix      = "choice"
)
