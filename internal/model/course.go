package model

import "strings"

// CourseUpdate is one structured announcement attached to a course.
type CourseUpdate struct {
	Content   string
	Category  string
	Cycle     string
	Module    string
	Section   string
	Timestamp string
}

// CourseDocument is a catalogued file reference; Locator points at external
// storage (s3://bucket/key) or is empty for inline records.
type CourseDocument struct {
	Title     string
	Locator   string
	Category  string
	Cycle     string
	Module    string
	Section   string
	Timestamp string
}

// CourseRecord is the read model for one course: the row plus its updates
// and documents, newest first.
type CourseRecord struct {
	Name       string
	Section    string
	Updates    []CourseUpdate
	Documents  []CourseDocument
	Categories []string
	LastUpdate string
}

// UpdateInput carries a fully collected course update ready to commit.
type UpdateInput struct {
	Course   string
	Section  string
	Content  string
	Category string
	Cycle    string
	Module   string
}

const NoMatch = "NO_MATCH"

// Categories is the closed set an update may be filed under.
var Categories = []string{"EVALUACIÓN", "CLASE", "TAREA", "SÍLABO", "CRONOGRAMA", "GENERAL"}

// ValidCycle reports whether s is an academic term id: YYYY followed by 1
// or 2, year within [2000, 2100].
func ValidCycle(s string) bool {
	if len(s) != 5 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	year := int(s[0]-'0')*1000 + int(s[1]-'0')*100 + int(s[2]-'0')*10 + int(s[3]-'0')
	sem := s[4]
	return year >= 2000 && year <= 2100 && (sem == '1' || sem == '2')
}

// ValidModule reports whether s names one of the two sub-term modules.
func ValidModule(s string) bool {
	up := strings.ToUpper(strings.TrimSpace(s))
	return up == "A" || up == "B"
}

// ValidSection accepts any non-empty trimmed string.
func ValidSection(s string) bool {
	return strings.TrimSpace(s) != ""
}

// NormalizeCategory upper-cases s and returns it when it belongs to the
// closed category set; ok is false otherwise.
func NormalizeCategory(s string) (string, bool) {
	up := strings.ToUpper(strings.TrimSpace(s))
	for _, c := range Categories {
		if up == c {
			return c, true
		}
	}
	return "", false
}
