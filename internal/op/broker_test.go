package op

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coursegen/coursegen/internal/broker"
	"github.com/coursegen/coursegen/internal/course"
	"github.com/coursegen/coursegen/internal/spec"
)

// fakeBroker scripts request/reply round trips without a server. Replies
// are consumed work-queue style: each queued reply is delivered to at
// most one requester.
type fakeBroker struct {
	mu       sync.Mutex
	handler  func(broker.RequestSpec) (string, error)
	requests []broker.RequestSpec
	queued   map[string][]string // reply subject -> pending canned replies
}

var errFakeNoReply = errors.New("no reply queued")

func newFakeBroker(handler func(broker.RequestSpec) (string, error)) *fakeBroker {
	return &fakeBroker{handler: handler, queued: make(map[string][]string)}
}

func (f *fakeBroker) queue(replySubject, result string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued[replySubject] = append(f.queued[replySubject], result)
}

func (f *fakeBroker) Request(_ context.Context, rs broker.RequestSpec) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, rs)
	if pending, ok := f.queued[rs.ReplySubject]; ok {
		if len(pending) == 0 {
			f.mu.Unlock()
			return "", errFakeNoReply
		}
		reply := pending[0]
		f.queued[rs.ReplySubject] = pending[1:]
		f.mu.Unlock()
		return reply, nil
	}
	f.mu.Unlock()
	if f.handler == nil {
		return "", errFakeNoReply
	}
	return f.handler(rs)
}

// buildTestCourse creates one section with a single topic holding a
// notebook, a PlantUML source and a data file.
func buildTestCourse(t *testing.T) *course.Course {
	t.Helper()
	root := t.TempDir()
	topicDir := filepath.Join(root, "slides", "module_010_basics", "topic_100_intro")

	write := func(rel, content string) {
		t.Helper()
		full := filepath.Join(topicDir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	write("slides_100_intro.py", `# {{ header("Einführung", "Introduction") }}`+"\n")
	write("pu/flow.pu", "@startuml\nA -> B\n@enduml\n")
	write("data/values.csv", "a,b\n1,2\n")

	courseSpec := &spec.CourseSpec{
		Name:     spec.Text{De: "Python Grundlagen", En: "Python Basics"},
		ProgLang: "python",
		Sections: []spec.SectionSpec{{
			Name:   spec.Text{De: "Woche 1", En: "Week 1"},
			Topics: []spec.TopicSpec{{ID: "intro"}},
		}},
	}
	c, err := course.FromSpec(courseSpec, root, filepath.Join(root, "output"))
	require.NoError(t, err)
	return c
}

func findFile(t *testing.T, c *course.Course, base string) *course.CourseFile {
	t.Helper()
	for _, f := range c.Files() {
		if filepath.Base(f.Path) == base {
			return f
		}
	}
	t.Fatalf("file %s not found in course", base)
	return nil
}
