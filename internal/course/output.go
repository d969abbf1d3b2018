package course

import (
	"path/filepath"

	"github.com/coursegen/coursegen/internal/spec"
)

// Language, format and mode identifiers as they appear on the wire and in
// directory-name mappings.
const (
	LangDe = "de"
	LangEn = "en"

	FormatHTML     = "html"
	FormatNotebook = "notebook"
	FormatCode     = "code"

	ModeCodeAlong = "code-along"
	ModeCompleted = "completed"
)

var langDirNames = map[string]string{
	LangDe: "De",
	LangEn: "En",
}

var formatDirNames = map[string]string{
	FormatHTML:     "Html",
	FormatNotebook: "Notebooks",
}

var modeDirNames = map[string]string{
	ModeCodeAlong: "Code-Along",
	ModeCompleted: "Completed",
}

var codeDirNames = map[string]string{
	"python": "Python",
	"cpp":    "Cpp",
	"c":      "C",
	"rust":   "Rust",
	"java":   "Java",
	"csharp": "CSharp",
}

var codeExtensions = map[string]string{
	"python": ".py",
	"cpp":    ".cpp",
	"c":      ".c",
	"rust":   ".rs",
	"java":   ".java",
	"csharp": ".cs",
}

// ExtFor returns the output file extension for a format. The code format
// keeps the course's programming-language extension.
func ExtFor(format, progLang string) string {
	switch format {
	case FormatHTML:
		return ".html"
	case FormatNotebook:
		return ".ipynb"
	default:
		if ext, ok := codeExtensions[progLang]; ok {
			return ext
		}
		return ".py"
	}
}

// OutputSpec is one (language, format, mode) output variant together with
// its derived output directory. Section name and file-relative path are
// appended per file.
type OutputSpec struct {
	Lang   string
	Format string
	Mode   string
	Dir    string
}

func formatDirName(format, progLang string) string {
	if format == FormatCode {
		if name, ok := codeDirNames[progLang]; ok {
			return name
		}
		return "Code"
	}
	return formatDirNames[format]
}

func newOutputSpec(root string, name spec.Text, progLang, lang, format, mode string) OutputSpec {
	return OutputSpec{
		Lang:   lang,
		Format: format,
		Mode:   mode,
		Dir: filepath.Join(
			root,
			langDirNames[lang],
			spec.SanitizeFileName(name.Get(lang)),
			"Slides",
			formatDirName(format, progLang),
			modeDirNames[mode],
		),
	}
}

// OutputSpecs yields the full cross product of output variants for a
// course: two languages by (html, notebook) by (code-along, completed),
// plus the code format which only exists completed. Ten variants total.
func OutputSpecs(courseName spec.Text, progLang, outputRoot string) []OutputSpec {
	specs := make([]OutputSpec, 0, 10)
	for _, lang := range []string{LangDe, LangEn} {
		for _, format := range []string{FormatHTML, FormatNotebook} {
			for _, mode := range []string{ModeCodeAlong, ModeCompleted} {
				specs = append(specs, newOutputSpec(outputRoot, courseName, progLang, lang, format, mode))
			}
		}
	}
	for _, lang := range []string{LangDe, LangEn} {
		specs = append(specs, newOutputSpec(outputRoot, courseName, progLang, lang, FormatCode, ModeCompleted))
	}
	return specs
}
