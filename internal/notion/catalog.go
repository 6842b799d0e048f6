package notion

import (
	"strings"

	"notion-quiz-service/internal/domain"
)

// ParseCatalog reads the quiz catalog from its configured form:
// DATABASE_ID1:NAME1,DATABASE_ID2:NAME2,... Entries missing an id or a
// name are dropped; a blank input yields an empty catalog.
func ParseCatalog(raw string) []domain.QuizInfo {
	var catalog []domain.QuizInfo
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		id, name, found := strings.Cut(entry, ":")
		id = strings.TrimSpace(id)
		name = strings.TrimSpace(name)
		if !found || id == "" || name == "" {
			continue
		}
		catalog = append(catalog, domain.QuizInfo{ID: id, Name: name})
	}
	return catalog
}
