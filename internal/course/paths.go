package course

import (
	"path/filepath"
	"regexp"
	"strings"
)

// SlidesPrefix marks a source file as a notebook ("slide deck") source.
const SlidesPrefix = "slides_"

var skipDirs = map[string]bool{
	"__pycache__":        true,
	".git":               true,
	".ipynb_checkpoints": true,
	".mypy_cache":        true,
	".pytest_cache":      true,
	".tox":               true,
	".venv":              true,
	".vs":                true,
	".vscode":            true,
	".idea":              true,
	".cargo":             true,
	"build":              true,
	"dist":               true,
	"target":             true,
	"out":                true,
	"CMakeFiles":         true,
}

var ignorePathRegex = regexp.MustCompile(`(.*\.egg-info.*|.*cmake-build-.*)`)

// Diagram source directories stay out of the mirrored output tree; their
// rasterized images are distributed instead.
var skipDirsForOutput = map[string]bool{"pu": true, "drawio": true}

// IsIgnoredDir reports whether any component of the path names a
// build/VCS/cache directory that must not contribute course files.
func IsIgnoredDir(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if skipDirs[part] || ignorePathRegex.MatchString(part) {
			return true
		}
	}
	return false
}

// IsIgnoredDirForOutput reports whether a directory is skipped when
// mirroring static content into the output tree.
func IsIgnoredDirForOutput(path string) bool {
	if IsIgnoredDir(path) {
		return true
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if skipDirsForOutput[part] {
			return true
		}
	}
	return false
}

var plantUmlExtensions = map[string]bool{
	".pu":       true,
	".puml":     true,
	".plantuml": true,
}

var progLangByExtension = map[string]string{
	".py":   "python",
	".cpp":  "cpp",
	".c":    "c",
	".rs":   "rust",
	".rust": "rust",
	".java": "java",
	".cs":   "csharp",
	".md":   "markdown",
}

// ProgLangForExtension maps a slide-source suffix to its programming
// language identifier as understood by the notebook processor.
func ProgLangForExtension(ext string) string {
	return progLangByExtension[ext]
}

// IsSlidesFile reports whether the path names a notebook source: a file
// with the slides_ prefix and a supported slide-source suffix.
func IsSlidesFile(path string) bool {
	name := filepath.Base(path)
	return strings.HasPrefix(name, SlidesPrefix) && progLangByExtension[filepath.Ext(name)] != ""
}

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".svg": true,
}

// IsImageFile reports whether the path names a rasterized or vector image.
func IsImageFile(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsImageSourceFile reports whether the path names a diagram source that a
// worker rasterizes into an image.
func IsImageSourceFile(path string) bool {
	ext := filepath.Ext(path)
	return plantUmlExtensions[ext] || ext == ".drawio"
}

// SimplifyOrderedName strips the ordering prefix from a topic directory or
// file name: "topic_110_intro" becomes "intro". File extensions are dropped
// first so a single-file topic gets the same id as a directory topic.
func SimplifyOrderedName(name string) string {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	parts := strings.Split(name, "_")
	if len(parts) <= 2 {
		return ""
	}
	return strings.Join(parts[2:], "_")
}

// IsInDir reports whether path lies under dir (or equals a file topic's
// own path).
func IsInDir(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
