package course

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/coursegen/coursegen/internal/spec"
)

// Kind is the closed set of course file variants. The variant decides how
// a file is processed and in which execution stage.
type Kind int

const (
	KindData Kind = iota
	KindPlantUml
	KindDrawIo
	KindNotebook
)

func (k Kind) String() string {
	switch k {
	case KindPlantUml:
		return "plantuml"
	case KindDrawIo:
		return "drawio"
	case KindNotebook:
		return "notebook"
	default:
		return "data"
	}
}

// Classify picks the variant for a path from its suffix and name:
// .pu/.puml/.plantuml sources are PlantUML diagrams, .drawio sources are
// DrawIO diagrams, slide sources (slides_ prefix plus a supported language
// suffix) are notebooks, everything else is plain data.
func Classify(path string) Kind {
	ext := filepath.Ext(path)
	switch {
	case plantUmlExtensions[ext]:
		return KindPlantUml
	case ext == ".drawio":
		return KindDrawIo
	case IsSlidesFile(path):
		return KindNotebook
	default:
		return KindData
	}
}

// Execution stages. Diagram sources convert first so their rasterized
// images exist when the notebooks that embed them are processed; plain
// data copies (including the rasterized images added back as generated
// sources) run last.
const (
	StageDiagrams  = 1
	StageNotebooks = 2
	StageData      = 3
)

// Stages returns all execution stages in order.
func Stages() []int {
	return []int{StageDiagrams, StageNotebooks, StageData}
}

// CourseFile is one file owned by a topic.
type CourseFile struct {
	Path  string // absolute
	Kind  Kind
	Topic *Topic

	// Notebook-only fields.
	Title           spec.Text
	NumberInSection int

	// generatedOutputs records every artifact this file has actually
	// produced, keyed by absolute output path. A file's output variants
	// execute concurrently, so the set is only touched through the
	// mutex-guarded accessors below.
	outputsMu        sync.Mutex
	generatedOutputs map[string]bool
}

func newCourseFile(path string, topic *Topic) *CourseFile {
	f := &CourseFile{
		Path:             path,
		Kind:             Classify(path),
		Topic:            topic,
		generatedOutputs: make(map[string]bool),
	}
	if f.Kind == KindNotebook {
		defaultTitle := filepath.Base(path)
		defaultTitle = defaultTitle[:len(defaultTitle)-len(filepath.Ext(defaultTitle))]
		if text, err := os.ReadFile(path); err == nil {
			f.Title = FindNotebookTitles(string(text), defaultTitle)
		} else {
			f.Title = spec.Text{De: defaultTitle, En: defaultTitle}
		}
	}
	return f
}

// RecordOutput marks an artifact as produced by this file.
func (f *CourseFile) RecordOutput(path string) {
	f.outputsMu.Lock()
	defer f.outputsMu.Unlock()
	f.generatedOutputs[path] = true
}

// HasOutput reports whether this file has produced the artifact.
func (f *CourseFile) HasOutput(path string) bool {
	f.outputsMu.Lock()
	defer f.outputsMu.Unlock()
	return f.generatedOutputs[path]
}

// Outputs returns a snapshot of every artifact this file has produced.
func (f *CourseFile) Outputs() []string {
	f.outputsMu.Lock()
	defer f.outputsMu.Unlock()
	outputs := make([]string, 0, len(f.generatedOutputs))
	for output := range f.generatedOutputs {
		outputs = append(outputs, output)
	}
	return outputs
}

// ClearOutputs empties the artifact set and returns what it held,
// transitioning the file back to unprocessed.
func (f *CourseFile) ClearOutputs() []string {
	f.outputsMu.Lock()
	defer f.outputsMu.Unlock()
	outputs := make([]string, 0, len(f.generatedOutputs))
	for output := range f.generatedOutputs {
		outputs = append(outputs, output)
	}
	clear(f.generatedOutputs)
	return outputs
}

// Section returns the section owning this file's topic.
func (f *CourseFile) Section() *Section {
	return f.Topic.Section
}

// Stage returns the execution stage of this file's variant.
func (f *CourseFile) Stage() int {
	switch f.Kind {
	case KindPlantUml, KindDrawIo:
		return StageDiagrams
	case KindNotebook:
		return StageNotebooks
	default:
		return StageData
	}
}

// RelativePath is the file's path relative to its topic directory (or to
// the parent directory for a single-file topic).
func (f *CourseFile) RelativePath() string {
	base := f.Topic.Path
	if f.Topic.IsFileTopic {
		base = filepath.Dir(base)
	}
	rel, err := filepath.Rel(base, f.Path)
	if err != nil {
		return filepath.Base(f.Path)
	}
	return rel
}

// ImagePath is the rasterized output target for a diagram source:
// <topic>/img/<stem>.png two levels above the source (diagram sources
// conventionally live in <topic>/pu or <topic>/drawio).
func (f *CourseFile) ImagePath() string {
	stem := filepath.Base(f.Path)
	stem = stem[:len(stem)-len(filepath.Ext(stem))]
	return filepath.Join(filepath.Dir(filepath.Dir(f.Path)), "img", stem+".png")
}

// GeneratedSources lists paths this file can produce as side artifacts;
// they are added back into the owning topic as first-class files.
func (f *CourseFile) GeneratedSources() []string {
	switch f.Kind {
	case KindPlantUml, KindDrawIo:
		return []string{f.ImagePath()}
	default:
		return nil
	}
}

// ProgLang returns the programming language of a notebook source.
func (f *CourseFile) ProgLang() string {
	return ProgLangForExtension(filepath.Ext(f.Path))
}

// OutputName is the notebook's output file name for a language and
// format: the dense section ordinal followed by the localized title.
func (f *CourseFile) OutputName(lang, ext string) string {
	return fmt.Sprintf("%02d %s%s", f.NumberInSection, f.Title.Get(lang), ext)
}
