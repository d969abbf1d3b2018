package spec

import "strings"

// Text is a bilingual string as it appears throughout the course outline.
type Text struct {
	De string `xml:"de"`
	En string `xml:"en"`
}

// Get returns the value for a language code ("de" or "en"). Unknown codes
// fall back to English.
func (t Text) Get(lang string) string {
	if lang == "de" {
		return t.De
	}
	return t.En
}

var fileNameReplacer = strings.NewReplacer(
	"{", "(", "}", ")", "[", "(", "]", ")",
	"/", "_", "\\", "_", "$", "_", "#", "_", "%", "_", "&", "_",
	"<", "_", ">", "_", "*", "_", "=", "_", "^", "_", "€", "_", "|", "_",
	";", "", "!", "", "?", "", "\"", "", "'", "", "`", "", ".", "", ":", "",
)

// SanitizeFileName turns a human-readable title into a string safe to use
// as a file or directory name. Parens-like characters are normalized,
// separators are replaced with underscores and punctuation is dropped.
func SanitizeFileName(text string) string {
	return fileNameReplacer.Replace(strings.TrimSpace(text))
}
