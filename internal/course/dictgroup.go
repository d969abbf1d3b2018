package course

import (
	"path/filepath"

	"github.com/coursegen/coursegen/internal/spec"
)

// DictGroup is a named, language-tagged bundle of static directories
// mirrored verbatim into every output variant. It is not part of the
// topic graph.
type DictGroup struct {
	Name          spec.Text
	SourceDirs    []string
	RelativePaths []string
	Course        *Course
}

func newDictGroup(groupSpec spec.DictGroupSpec, c *Course) *DictGroup {
	source := filepath.Join(c.Root, groupSpec.Path)
	group := &DictGroup{Name: groupSpec.Name, Course: c}
	if len(groupSpec.Subdirs) == 0 {
		group.SourceDirs = []string{source}
		group.RelativePaths = []string{""}
		return group
	}
	for _, subdir := range groupSpec.Subdirs {
		group.SourceDirs = append(group.SourceDirs, filepath.Join(source, subdir))
		group.RelativePaths = append(group.RelativePaths, subdir)
	}
	return group
}

// OutputPath is the root the group is mirrored into for one language:
// <output root>/<lang dir>/<course name>/<group name>.
func (g *DictGroup) OutputPath(lang string) string {
	return filepath.Join(
		g.Course.OutputRoot,
		langDirNames[lang],
		spec.SanitizeFileName(g.Course.Name().Get(lang)),
		g.Name.Get(lang),
	)
}
