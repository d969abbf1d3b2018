package op

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/coursegen/coursegen/internal/broker"
	"github.com/coursegen/coursegen/internal/course"
	"github.com/coursegen/coursegen/internal/report"
)

// Env carries the shared collaborators every leaf operation needs: the
// broker client, the filesystem artifacts are written to, and the
// optional build report. The filesystem indirection lets tests assert on
// produced artifacts in memory.
type Env struct {
	Broker broker.Requester
	Out    billy.Filesystem
	Report *report.Writer
}

// NewEnv builds an Env writing to the host filesystem.
func NewEnv(requester broker.Requester, rep *report.Writer) *Env {
	return &Env{Broker: requester, Out: osfs.New("/"), Report: rep}
}

func (e *Env) writeFile(path string, data []byte) error {
	if err := e.Out.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory for %s: %w", path, err)
	}
	if err := util.WriteFile(e.Out, path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func (e *Env) record(entry report.Entry) {
	if e.Report == nil {
		return
	}
	if err := e.Report.Record(entry); err != nil {
		slog.Warn("recording build report entry", "path", entry.Path, "err", err)
	}
}

func reportEntry(input *course.CourseFile, output string, err error) report.Entry {
	return report.Entry{
		Path:   input.RelativePath(),
		Kind:   input.Kind.String(),
		Output: output,
		Err:    err,
	}
}
