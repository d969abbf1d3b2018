// Package course models the content graph of a course build: sections
// owning topics, topics owning classified files, plus the output-variant
// cross product that every file fans out into.
package course

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/coursegen/coursegen/internal/spec"
)

// Course is the root aggregate, built once from a parsed outline plus a
// content root and an output root. It is mutated only through AddFile and
// the OnFile* hooks during incremental rebuilds.
type Course struct {
	Spec       *spec.CourseSpec
	Root       string
	OutputRoot string
	Sections   []*Section
	DictGroups []*DictGroup

	topicMap map[string]string // topic id -> path on disk
}

// FromSpec builds the full content graph. Unknown and duplicate topic ids
// are logged and skipped; a missing slides directory is fatal.
func FromSpec(courseSpec *spec.CourseSpec, root, outputRoot string) (*Course, error) {
	if outputRoot == "" {
		outputRoot = filepath.Join(root, "output")
	}
	c := &Course{
		Spec:       courseSpec,
		Root:       root,
		OutputRoot: outputRoot,
		topicMap:   make(map[string]string),
	}
	if err := c.buildTopicMap(); err != nil {
		return nil, err
	}
	c.buildSections()
	c.addGeneratedSources()
	for _, groupSpec := range courseSpec.DictGroups {
		c.DictGroups = append(c.DictGroups, newDictGroup(groupSpec, c))
	}
	return c, nil
}

// Name returns the bilingual course name.
func (c *Course) Name() spec.Text {
	return c.Spec.Name
}

// Files flattens all sections in order.
func (c *Course) Files() []*CourseFile {
	var files []*CourseFile
	for _, section := range c.Sections {
		files = append(files, section.Files()...)
	}
	return files
}

// Notebooks returns every notebook in the course.
func (c *Course) Notebooks() []*CourseFile {
	var notebooks []*CourseFile
	for _, f := range c.Files() {
		if f.Kind == KindNotebook {
			notebooks = append(notebooks, f)
		}
	}
	return notebooks
}

// OutputSpecs returns the ten output variants for this course.
func (c *Course) OutputSpecs() []OutputSpec {
	return OutputSpecs(c.Spec.Name, c.Spec.ProgLang, c.OutputRoot)
}

// FileForPath resolves an absolute path to its owning CourseFile, or nil
// when the path is not part of the course.
func (c *Course) FileForPath(path string) *CourseFile {
	topic := c.topicForPath(path)
	if topic == nil {
		return nil
	}
	return topic.FileForPath(path)
}

// AddFile classifies a new path and registers it with its owning topic.
// Paths that resolve under no topic are expected during watch sessions
// (editors create temp files all over the tree) and are only logged.
func (c *Course) AddFile(path string) *CourseFile {
	topic := c.topicForPath(path)
	if topic == nil {
		slog.Debug("path outside any topic", "path", path)
		return nil
	}
	f := topic.AddFile(path)
	if f == nil {
		return nil
	}
	if f.Kind == KindNotebook {
		topic.Section.AddNotebookNumbers()
	}
	for _, generated := range f.GeneratedSources() {
		topic.AddFile(generated)
	}
	return f
}

// OnFileDeleted removes a path from the content graph after its recorded
// artifacts have been deleted from disk.
func (c *Course) OnFileDeleted(path string) {
	topic := c.topicForPath(path)
	if topic == nil {
		return
	}
	f := topic.FileForPath(path)
	if f == nil {
		return
	}
	topic.RemoveFile(path)
	if f.Kind == KindNotebook {
		topic.Section.AddNotebookNumbers()
	}
}

func (c *Course) topicForPath(path string) *Topic {
	for _, section := range c.Sections {
		for _, topic := range section.Topics {
			if topic.MatchesPath(path) {
				return topic
			}
		}
	}
	return nil
}

func (c *Course) buildTopicMap() error {
	slidesDir := filepath.Join(c.Root, "slides")
	modules, err := os.ReadDir(slidesDir)
	if err != nil {
		return fmt.Errorf("reading slides directory: %w", err)
	}
	for _, module := range modules {
		if !module.IsDir() {
			continue
		}
		topics, err := os.ReadDir(filepath.Join(slidesDir, module.Name()))
		if err != nil {
			return fmt.Errorf("reading module directory %s: %w", module.Name(), err)
		}
		for _, topic := range topics {
			if IsIgnoredDir(topic.Name()) {
				continue
			}
			id := SimplifyOrderedName(topic.Name())
			if id == "" {
				continue
			}
			if _, exists := c.topicMap[id]; exists {
				slog.Error("duplicate topic id", "id", id, "path", topic.Name())
				continue
			}
			c.topicMap[id] = filepath.Join(slidesDir, module.Name(), topic.Name())
		}
	}
	slog.Debug("built topic map", "topics", len(c.topicMap))
	return nil
}

func (c *Course) buildSections() {
	for _, sectionSpec := range c.Spec.Sections {
		section := &Section{Name: sectionSpec.Name, Course: c}
		for _, topicSpec := range sectionSpec.Topics {
			path, ok := c.topicMap[topicSpec.ID]
			if !ok {
				slog.Error("topic not found", "id", topicSpec.ID)
				continue
			}
			info, err := os.Stat(path)
			if err != nil {
				slog.Error("topic path unreadable", "id", topicSpec.ID, "path", path, "err", err)
				continue
			}
			topic := newTopic(topicSpec.ID, section, path, !info.IsDir())
			topic.BuildFileMap()
			section.Topics = append(section.Topics, topic)
		}
		section.AddNotebookNumbers()
		c.Sections = append(c.Sections, section)
	}
}

// addGeneratedSources registers the side artifacts files can produce
// (rasterized diagram images) as first-class course files, so the late
// copy stage distributes them into the output tree.
func (c *Course) addGeneratedSources() {
	for _, f := range c.Files() {
		for _, generated := range f.GeneratedSources() {
			f.Topic.AddFile(generated)
		}
	}
}
