package op

import (
	"context"
	"log/slog"
	"os"

	"github.com/coursegen/coursegen/internal/course"
)

// DeleteFile removes every artifact a file has produced and clears its
// provenance set, transitioning the file back to unprocessed. Artifacts
// that are themselves course files (a diagram's rasterized image) are
// also dropped from the content graph.
type DeleteFile struct {
	Env  *Env
	File *course.CourseFile
}

func (o DeleteFile) Exec(ctx context.Context) error {
	c := o.File.Section().Course
	for _, output := range o.File.ClearOutputs() {
		slog.Info("deleting generated output", "path", output)
		if err := o.Env.Out.Remove(output); err != nil && !os.IsNotExist(err) {
			slog.Error("deleting generated output", "path", output, "err", err)
		}
		c.OnFileDeleted(output)
	}
	return nil
}
