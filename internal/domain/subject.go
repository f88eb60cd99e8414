package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SubjectType is the three-way classification of a sanctioned subject.
// Codes outside the known set pass through title-cased as their own label
// rather than being dropped or collapsed into the placeholder.
type SubjectType string

const (
	SubjectPerson SubjectType = "Person"
	SubjectEntity SubjectType = "Entity"
)

var titleCaser = cases.Title(language.Und)

// ClassifySubject maps a subjectType code from the export to a SubjectType.
// Matching is case-insensitive; an empty code yields the placeholder label.
func ClassifySubject(code string) SubjectType {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "":
		return SubjectType(PlaceholderUnknown)
	case "person":
		return SubjectPerson
	case "enterprise", "entity":
		return SubjectEntity
	default:
		return SubjectType(titleCaser.String(code))
	}
}

// TitleCase normalizes free-text values such as country descriptions.
func TitleCase(value string) string {
	return titleCaser.String(value)
}
