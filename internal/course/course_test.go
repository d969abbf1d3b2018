package course

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursegen/coursegen/internal/spec"
)

// buildCourseTree writes the canonical test course to a temp directory:
// two sections (two and two topics), three notebooks total, one data-only
// topic and one PlantUML diagram.
func buildCourseTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	write := func(path, content string) {
		t.Helper()
		full := filepath.Join(root, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}

	write("slides/module_010_basics/topic_100_intro/slides_100_intro.py",
		`# {{ header("Einführung", "Introduction") }}`+"\nprint('hi')\n")
	write("slides/module_010_basics/topic_100_intro/data/values.csv", "a,b\n1,2\n")
	write("slides/module_010_basics/topic_100_intro/pu/flow.pu", "@startuml\n@enduml\n")
	write("slides/module_010_basics/topic_110_functions/slides_110_functions.py",
		`# {{ header("Funktionen", "Functions") }}`+"\n")
	write("slides/module_020_advanced/topic_200_classes/slides_200_classes.py",
		`# {{ header("Klassen", "Classes") }}`+"\n")
	write("slides/module_020_advanced/topic_210_examples/examples.txt", "plain data\n")

	// Ignored directories must not contribute files.
	write("slides/module_010_basics/topic_100_intro/__pycache__/junk.pyc", "x")
	write("slides/module_010_basics/topic_100_intro/.git/config", "x")

	return root
}

func testSpec() *spec.CourseSpec {
	return &spec.CourseSpec{
		Name:     spec.Text{De: "Python Grundlagen", En: "Python Basics"},
		ProgLang: "python",
		Sections: []spec.SectionSpec{
			{
				Name:   spec.Text{De: "Woche 1", En: "Week 1"},
				Topics: []spec.TopicSpec{{ID: "intro"}, {ID: "functions"}},
			},
			{
				Name:   spec.Text{De: "Woche 2", En: "Week 2"},
				Topics: []spec.TopicSpec{{ID: "classes"}, {ID: "examples"}},
			},
		},
	}
}

func buildCourse(t *testing.T) *Course {
	t.Helper()
	root := buildCourseTree(t)
	c, err := FromSpec(testSpec(), root, filepath.Join(root, "output"))
	require.NoError(t, err)
	return c
}

func TestFromSpecBuildsSectionsAndTopics(t *testing.T) {
	c := buildCourse(t)

	require.Len(t, c.Sections, 2)
	require.Len(t, c.Sections[0].Topics, 2)
	require.Len(t, c.Sections[1].Topics, 2)
	assert.Equal(t, "intro", c.Sections[0].Topics[0].ID)
	assert.Equal(t, "functions", c.Sections[0].Topics[1].ID)
	assert.Equal(t, "classes", c.Sections[1].Topics[0].ID)
	assert.Equal(t, "examples", c.Sections[1].Topics[1].ID)
}

func TestFileClassification(t *testing.T) {
	c := buildCourse(t)

	kinds := make(map[string]Kind)
	for _, f := range c.Files() {
		kinds[filepath.Base(f.Path)] = f.Kind
	}
	assert.Equal(t, KindNotebook, kinds["slides_100_intro.py"])
	assert.Equal(t, KindPlantUml, kinds["flow.pu"])
	assert.Equal(t, KindData, kinds["values.csv"])
	assert.Equal(t, KindData, kinds["examples.txt"])
	assert.NotContains(t, kinds, "junk.pyc", "ignored directories are skipped")
	assert.NotContains(t, kinds, "config")
}

func TestNotebookTitlesAndNumbers(t *testing.T) {
	c := buildCourse(t)

	notebooks := c.Notebooks()
	require.Len(t, notebooks, 3)

	week1 := c.Sections[0].Notebooks()
	require.Len(t, week1, 2)
	assert.Equal(t, 1, week1[0].NumberInSection)
	assert.Equal(t, "Einführung", week1[0].Title.De)
	assert.Equal(t, "Introduction", week1[0].Title.En)
	assert.Equal(t, 2, week1[1].NumberInSection)
	assert.Equal(t, "Functions", week1[1].Title.En)

	week2 := c.Sections[1].Notebooks()
	require.Len(t, week2, 1)
	assert.Equal(t, 1, week2[0].NumberInSection, "ordinals restart per section")
}

func TestGeneratedSourcesAreAddedToTopic(t *testing.T) {
	c := buildCourse(t)

	intro := c.Sections[0].Topics[0]
	imgPath := filepath.Join(intro.Path, "img", "flow.png")
	f := intro.FileForPath(imgPath)
	require.NotNil(t, f, "diagram image should be registered as a course file")
	assert.Equal(t, KindData, f.Kind)
}

func TestUnknownTopicIsSkipped(t *testing.T) {
	root := buildCourseTree(t)
	courseSpec := testSpec()
	courseSpec.Sections[0].Topics = append(courseSpec.Sections[0].Topics,
		spec.TopicSpec{ID: "does-not-exist"})

	c, err := FromSpec(courseSpec, root, "")
	require.NoError(t, err, "unknown topic id is not fatal")
	assert.Len(t, c.Sections[0].Topics, 2, "the unknown topic is dropped")
}

func TestMissingSlidesDirIsFatal(t *testing.T) {
	_, err := FromSpec(testSpec(), t.TempDir(), "")
	assert.Error(t, err)
}

func TestFileForPathResolution(t *testing.T) {
	c := buildCourse(t)

	csv := filepath.Join(c.Root, "slides/module_010_basics/topic_100_intro/data/values.csv")
	f := c.FileForPath(csv)
	require.NotNil(t, f)
	assert.Equal(t, filepath.Join("data", "values.csv"), f.RelativePath())

	assert.Nil(t, c.FileForPath(filepath.Join(c.Root, "unrelated.txt")))
}

func TestAddFileUpdatesNotebookNumbers(t *testing.T) {
	c := buildCourse(t)
	intro := c.Sections[0].Topics[0]

	path := filepath.Join(intro.Path, "slides_050_warmup.py")
	require.NoError(t, os.WriteFile(path, []byte(`# {{ header("Aufwärmen", "Warmup") }}`), 0o644))

	f := c.AddFile(path)
	require.NotNil(t, f)
	assert.Equal(t, KindNotebook, f.Kind)

	numbers := make(map[string]int)
	for _, nb := range c.Sections[0].Notebooks() {
		numbers[nb.Title.En] = nb.NumberInSection
	}
	// Dense 1..N; files added during a build keep existing ordinals
	// stable and take the next slot within their topic.
	assert.Equal(t, map[string]int{"Introduction": 1, "Warmup": 2, "Functions": 3}, numbers)
}

func TestAddFileOutsideCourseIsRejected(t *testing.T) {
	c := buildCourse(t)
	assert.Nil(t, c.AddFile(filepath.Join(c.Root, "stray.txt")))
}

func TestOnFileDeletedRenumbers(t *testing.T) {
	c := buildCourse(t)
	week1 := c.Sections[0]
	first := week1.Notebooks()[0]

	c.OnFileDeleted(first.Path)

	notebooks := week1.Notebooks()
	require.Len(t, notebooks, 1)
	assert.Equal(t, 1, notebooks[0].NumberInSection)
	assert.Equal(t, "Functions", notebooks[0].Title.En)
}

func TestDuplicateTopicIdFirstWins(t *testing.T) {
	root := buildCourseTree(t)
	// Same topic id "intro" under a second module.
	dup := filepath.Join(root, "slides/module_030_dup/topic_900_intro")
	require.NoError(t, os.MkdirAll(dup, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dup, "other.txt"), []byte("x"), 0o644))

	c, err := FromSpec(testSpec(), root, "")
	require.NoError(t, err)

	intro := c.Sections[0].Topics[0]
	assert.Contains(t, intro.Path, "module_010_basics", "first occurrence wins")
}
