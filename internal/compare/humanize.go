package compare

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titler = cases.Title(language.English)

// Humanize turns a column name into legend text: underscores become spaces
// and every word is title-cased.
func Humanize(column string) string {
	return titler.String(strings.ReplaceAll(column, "_", " "))
}
