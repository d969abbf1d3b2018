// Package spec parses the declarative course outline. The outline is an XML
// document listing the course metadata, its sections with ordered topic ids,
// and the static dictionary groups mirrored into every output variant.
package spec

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
)

// TopicSpec references a topic by its id; the content root decides whether
// the id resolves to a directory or a single slide file.
type TopicSpec struct {
	ID string
}

// SectionSpec is one ordered section of the course outline.
type SectionSpec struct {
	Name   Text
	Topics []TopicSpec
}

// DictGroupSpec names a bundle of static directories copied verbatim into
// the output tree.
type DictGroupSpec struct {
	Name    Text
	Path    string
	Subdirs []string
}

// CourseSpec is the immutable parse of a course outline file.
type CourseSpec struct {
	Name        Text
	ProgLang    string
	Description Text
	Certificate Text
	GithubRepo  Text
	Sections    []SectionSpec
	DictGroups  []DictGroupSpec
}

// Topics returns every topic reference in section order.
func (s *CourseSpec) Topics() []TopicSpec {
	var topics []TopicSpec
	for _, section := range s.Sections {
		topics = append(topics, section.Topics...)
	}
	return topics
}

type xmlCourse struct {
	Name        Text   `xml:"name"`
	ProgLang    string `xml:"prog-lang"`
	Description Text   `xml:"description"`
	Certificate Text   `xml:"certificate"`
	Github      Text   `xml:"github"`
	Sections    []struct {
		Name   Text     `xml:"name"`
		Topics []string `xml:"topics>topic"`
	} `xml:"sections>section"`
	DictGroups []struct {
		Name    Text     `xml:"name"`
		Path    string   `xml:"path"`
		Subdirs []string `xml:"subdirs>subdir"`
	} `xml:"dict-groups>dict-group"`
}

// Parse reads a course outline from r.
func Parse(r io.Reader) (*CourseSpec, error) {
	var doc xmlCourse
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode outline: %w", err)
	}
	courseSpec := &CourseSpec{
		Name:        doc.Name,
		ProgLang:    doc.ProgLang,
		Description: doc.Description,
		Certificate: doc.Certificate,
		GithubRepo:  doc.Github,
	}
	for _, section := range doc.Sections {
		sectionSpec := SectionSpec{Name: section.Name}
		for _, id := range section.Topics {
			sectionSpec.Topics = append(sectionSpec.Topics, TopicSpec{ID: id})
		}
		courseSpec.Sections = append(courseSpec.Sections, sectionSpec)
	}
	for _, group := range doc.DictGroups {
		courseSpec.DictGroups = append(courseSpec.DictGroups, DictGroupSpec{
			Name:    group.Name,
			Path:    group.Path,
			Subdirs: group.Subdirs,
		})
	}
	return courseSpec, nil
}

// ParseFile reads a course outline from disk. A missing or malformed
// outline is a fatal startup condition for the caller.
func ParseFile(path string) (*CourseSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open outline: %w", err)
	}
	defer f.Close()
	return Parse(f)
}
