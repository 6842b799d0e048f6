package notion

import "strings"

// PlainText flattens a property into its plain text. Missing or
// unrecognized properties yield the empty string; extraction never
// fails.
func (p Property) PlainText() string {
	if len(p.RichText) > 0 {
		return joinFragments(p.RichText)
	}
	if len(p.Title) > 0 {
		return joinFragments(p.Title)
	}
	return ""
}

func joinFragments(fragments []RichText) string {
	var b strings.Builder
	for _, f := range fragments {
		b.WriteString(f.PlainText)
	}
	return b.String()
}
