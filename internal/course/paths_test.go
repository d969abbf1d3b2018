package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		want Kind
	}{
		{"diagrams/arch.pu", KindPlantUml},
		{"diagrams/arch.puml", KindPlantUml},
		{"diagrams/arch.plantuml", KindPlantUml},
		{"diagrams/arch.drawio", KindDrawIo},
		{"topic/slides_100_intro.py", KindNotebook},
		{"topic/slides_intro.cpp", KindNotebook},
		{"topic/slides_intro.md", KindNotebook},
		{"topic/intro.py", KindData},       // no slides_ prefix
		{"topic/slides_notes.txt", KindData}, // unsupported suffix
		{"topic/data.csv", KindData},
		{"topic/img/arch.png", KindData},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Classify(c.path), "path %q", c.path)
	}
}

func TestStagesByKind(t *testing.T) {
	assert.Equal(t, StageDiagrams, (&CourseFile{Kind: KindPlantUml}).Stage())
	assert.Equal(t, StageDiagrams, (&CourseFile{Kind: KindDrawIo}).Stage())
	assert.Equal(t, StageNotebooks, (&CourseFile{Kind: KindNotebook}).Stage())
	assert.Equal(t, StageData, (&CourseFile{Kind: KindData}).Stage())
	assert.Equal(t, []int{1, 2, 3}, Stages())
}

func TestSimplifyOrderedName(t *testing.T) {
	assert.Equal(t, "intro", SimplifyOrderedName("topic_100_intro"))
	assert.Equal(t, "data_types", SimplifyOrderedName("topic_110_data_types"))
	assert.Equal(t, "intro", SimplifyOrderedName("slides_310_intro.py"))
	assert.Equal(t, "", SimplifyOrderedName("no_prefix"))
}

func TestIsIgnoredDir(t *testing.T) {
	assert.True(t, IsIgnoredDir("topic/__pycache__"))
	assert.True(t, IsIgnoredDir("topic/.git/objects"))
	assert.True(t, IsIgnoredDir("topic/foo.egg-info/sub"))
	assert.True(t, IsIgnoredDir("topic/cmake-build-debug"))
	assert.False(t, IsIgnoredDir("topic/data"))
}

func TestIsIgnoredDirForOutput(t *testing.T) {
	assert.True(t, IsIgnoredDirForOutput("topic/pu"))
	assert.True(t, IsIgnoredDirForOutput("topic/drawio"))
	assert.True(t, IsIgnoredDirForOutput("topic/__pycache__"))
	assert.False(t, IsIgnoredDirForOutput("topic/img"))
}

func TestIsSlidesFile(t *testing.T) {
	assert.True(t, IsSlidesFile("a/slides_intro.py"))
	assert.False(t, IsSlidesFile("a/intro.py"))
	assert.False(t, IsSlidesFile("a/slides_intro.txt"))
}

func TestIsInDir(t *testing.T) {
	assert.True(t, IsInDir("/a/b/c.txt", "/a/b"))
	assert.True(t, IsInDir("/a/b/sub/c.txt", "/a/b"))
	assert.False(t, IsInDir("/a/other/c.txt", "/a/b"))
	assert.False(t, IsInDir("/a", "/a/b"))
}
