package course

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// Topic owns the files below one topic directory, or — for a single-file
// topic — a slide source plus the images and modules it references.
type Topic struct {
	ID          string
	Section     *Section
	Path        string // absolute; a directory or a single slide file
	IsFileTopic bool

	fileMap map[string]*CourseFile
	order   []string // insertion order, for stable notebook numbering
}

func newTopic(id string, section *Section, path string, isFile bool) *Topic {
	return &Topic{
		ID:          id,
		Section:     section,
		Path:        path,
		IsFileTopic: isFile,
		fileMap:     make(map[string]*CourseFile),
	}
}

// Files returns the topic's files in the order they were added.
func (t *Topic) Files() []*CourseFile {
	files := make([]*CourseFile, 0, len(t.order))
	for _, path := range t.order {
		files = append(files, t.fileMap[path])
	}
	return files
}

// Notebooks returns the topic's notebook files in order.
func (t *Topic) Notebooks() []*CourseFile {
	var notebooks []*CourseFile
	for _, f := range t.Files() {
		if f.Kind == KindNotebook {
			notebooks = append(notebooks, f)
		}
	}
	return notebooks
}

// FileForPath returns the file registered for an absolute path, or nil.
func (t *Topic) FileForPath(path string) *CourseFile {
	return t.fileMap[path]
}

// MatchesPath reports whether a path belongs to this topic's subtree.
func (t *Topic) MatchesPath(path string) bool {
	if t.IsFileTopic {
		return IsInDir(path, filepath.Dir(t.Path))
	}
	return IsInDir(path, t.Path)
}

// AddFile registers a file with the topic. Paths outside the topic,
// duplicates and directories are rejected; only the directory case is
// worth a warning. The file may not exist yet: generated sources are
// registered before their producing conversion has run.
func (t *Topic) AddFile(path string) *CourseFile {
	if !t.MatchesPath(path) {
		slog.Debug("path not within topic", "topic", t.ID, "path", path)
		return nil
	}
	if existing := t.fileMap[path]; existing != nil {
		slog.Debug("duplicate path when adding file", "topic", t.ID, "path", path)
		return existing
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		slog.Warn("trying to add a directory to topic", "topic", t.ID, "path", path)
		return nil
	}
	f := newCourseFile(path, t)
	t.fileMap[path] = f
	t.order = append(t.order, path)
	return f
}

// RemoveFile drops a file from the topic, typically after its source was
// deleted on disk.
func (t *Topic) RemoveFile(path string) {
	if _, ok := t.fileMap[path]; !ok {
		return
	}
	delete(t.fileMap, path)
	for i, p := range t.order {
		if p == path {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// BuildFileMap populates the topic from disk.
func (t *Topic) BuildFileMap() {
	slog.Debug("building file map", "topic", t.ID, "path", t.Path)
	if t.IsFileTopic {
		t.buildFromFile()
		return
	}
	t.addFilesInDir(t.Path)
}

func (t *Topic) addFilesInDir(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		slog.Error("reading topic directory", "topic", t.ID, "dir", dir, "err", err)
		return
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if !entry.IsDir() {
			t.AddFile(path)
			continue
		}
		if IsIgnoredDir(path) {
			continue
		}
		err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if IsIgnoredDir(p) {
					return filepath.SkipDir
				}
				return nil
			}
			t.AddFile(p)
			return nil
		})
		if err != nil {
			slog.Error("walking topic subdirectory", "topic", t.ID, "dir", path, "err", err)
		}
	}
}

func (t *Topic) buildFromFile() {
	t.AddFile(t.Path)
	text, err := os.ReadFile(t.Path)
	if err != nil {
		slog.Error("reading file topic source", "topic", t.ID, "path", t.Path, "err", err)
		return
	}
	dir := filepath.Dir(t.Path)
	for _, ref := range append(FindImages(string(text)), FindImports(string(text))...) {
		t.AddFile(filepath.Join(dir, ref))
	}
}
