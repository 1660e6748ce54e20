package filestore

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// sanitizeComponent folds a human-entered path component to the storage
// layout convention: accents stripped, spaces to underscores, lower case.
func sanitizeComponent(s string) string {
	flattened, _, err := transform.String(deaccent, s)
	if err != nil {
		flattened = s
	}
	flattened = strings.ReplaceAll(flattened, " ", "_")
	return strings.ToLower(flattened)
}

// DocumentPrefix builds the storage prefix for a course offering:
// course/cycle/module/section/. The module keeps its upper-case form.
func DocumentPrefix(course, cycle, module, section string) string {
	return strings.Join([]string{
		sanitizeComponent(course),
		strings.TrimSpace(cycle),
		strings.ToUpper(strings.TrimSpace(module)),
		sanitizeComponent(section),
	}, "/") + "/"
}
