package course

import (
	"regexp"

	"github.com/coursegen/coursegen/internal/spec"
)

var titleRegex = regexp.MustCompile(
	`\{\{\s*header\s*\(\s*["'](.*?)["']\s*,\s*["'](.*?)["']\s*\)\s*\}\}`)

// FindNotebookTitles extracts the bilingual title from a notebook's source
// text. Sources without a header macro fall back to the given default for
// both languages.
func FindNotebookTitles(text, defaultTitle string) spec.Text {
	if match := titleRegex.FindStringSubmatch(text); match != nil {
		return spec.Text{
			De: spec.SanitizeFileName(match[1]),
			En: spec.SanitizeFileName(match[2]),
		}
	}
	return spec.Text{De: defaultTitle, En: defaultTitle}
}

var imgRegex = regexp.MustCompile(`<img\s+src="([^"]+)"`)

// FindImages returns the img-tag source references in a slide source.
func FindImages(text string) []string {
	return findAll(imgRegex, text)
}

var importRegex = regexp.MustCompile(`(?m)(?:from\s+(\S+)\s+import|import\s+(\S+))`)

// FindImports returns the modules referenced by import statements in a
// slide source.
func FindImports(text string) []string {
	return findAll(importRegex, text)
}

func findAll(re *regexp.Regexp, text string) []string {
	seen := make(map[string]bool)
	var results []string
	for _, match := range re.FindAllStringSubmatch(text, -1) {
		value := match[1]
		if value == "" && len(match) > 2 {
			value = match[2]
		}
		if value != "" && !seen[value] {
			seen[value] = true
			results = append(results, value)
		}
	}
	return results
}
