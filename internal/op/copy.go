package op

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/coursegen/coursegen/internal/course"
	"github.com/coursegen/coursegen/internal/report"
)

// CopyFile mirrors one data file into a single output variant.
type CopyFile struct {
	Env    *Env
	Input  *course.CourseFile
	Output string
	Lang   string
	Format string
	Mode   string
}

func (o CopyFile) Exec(ctx context.Context) error {
	rel := o.Input.RelativePath()
	err := func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := os.ReadFile(o.Input.Path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", rel, err)
		}
		if err := o.Env.writeFile(o.Output, data); err != nil {
			return err
		}
		o.Input.RecordOutput(o.Output)
		return nil
	}()
	o.Env.record(report.Entry{
		Path: rel, Kind: "copy",
		Lang: o.Lang, Format: o.Format, Mode: o.Mode,
		Output: o.Output, Err: err,
	})
	if err != nil {
		slog.Error("copy failed", "path", rel, "output", o.Output, "err", err)
		return fmt.Errorf("copying %s: %w", rel, err)
	}
	slog.Debug("copied", "path", rel, "output", o.Output)
	return nil
}

// CopyDictGroup mirrors a dictionary group's source directories into the
// output tree for one language.
type CopyDictGroup struct {
	Env   *Env
	Group *course.DictGroup
	Lang  string
}

func (o CopyDictGroup) Exec(ctx context.Context) error {
	name := o.Group.Name.Get(o.Lang)
	slog.Debug("copying dict group", "group", name, "lang", o.Lang)
	outputRoot := o.Group.OutputPath(o.Lang)
	var firstErr error
	for i, sourceDir := range o.Group.SourceDirs {
		if _, err := os.Stat(sourceDir); err != nil {
			slog.Error("dict group source missing", "group", name, "dir", sourceDir)
			continue
		}
		target := filepath.Join(outputRoot, o.Group.RelativePaths[i])
		if err := o.copyTree(ctx, sourceDir, target); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	o.Env.record(report.Entry{
		Path: name, Kind: "dict-group", Lang: o.Lang,
		Output: outputRoot, Err: firstErr,
	})
	if firstErr != nil {
		return fmt.Errorf("copying dict group %s: %w", name, firstErr)
	}
	return nil
}

func (o CopyDictGroup) copyTree(ctx context.Context, sourceDir, target string) error {
	return filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if course.IsIgnoredDirForOutput(path) {
				return filepath.SkipDir
			}
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		return o.Env.writeFile(filepath.Join(target, rel), data)
	})
}
