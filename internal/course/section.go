package course

import "github.com/coursegen/coursegen/internal/spec"

// Section is an ordered list of topics.
type Section struct {
	Name   spec.Text
	Course *Course
	Topics []*Topic
}

// Files flattens the section's topics in order.
func (s *Section) Files() []*CourseFile {
	var files []*CourseFile
	for _, topic := range s.Topics {
		files = append(files, topic.Files()...)
	}
	return files
}

// Notebooks returns the section's notebooks in topic-then-file order.
func (s *Section) Notebooks() []*CourseFile {
	var notebooks []*CourseFile
	for _, f := range s.Files() {
		if f.Kind == KindNotebook {
			notebooks = append(notebooks, f)
		}
	}
	return notebooks
}

// AddNotebookNumbers assigns the dense 1..N ordinal every notebook carries
// in its output file name. Must be re-run whenever a notebook is added or
// removed during an incremental rebuild.
func (s *Section) AddNotebookNumbers() {
	for i, nb := range s.Notebooks() {
		nb.NumberInSection = i + 1
	}
}
