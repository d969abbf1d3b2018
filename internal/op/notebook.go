package op

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/coursegen/coursegen/api"
	"github.com/coursegen/coursegen/internal/broker"
	"github.com/coursegen/coursegen/internal/course"
	"github.com/coursegen/coursegen/internal/report"
)

// ProcessNotebook renders one notebook source into a single output
// variant through the notebook processor service.
type ProcessNotebook struct {
	Env      *Env
	Input    *course.CourseFile
	Output   string
	Lang     string
	Format   string
	Mode     string
	ProgLang string
}

func (o ProcessNotebook) Exec(ctx context.Context) error {
	rel := o.Input.RelativePath()
	slog.Info("processing notebook", "path", rel, "output", o.Output,
		"lang", o.Lang, "format", o.Format, "mode", o.Mode)
	err := o.process(ctx)
	o.Env.record(report.Entry{
		Path:   rel,
		Kind:   "notebook",
		Lang:   o.Lang,
		Format: o.Format,
		Mode:   o.Mode,
		Output: o.Output,
		Err:    err,
	})
	if err != nil {
		slog.Error("notebook processing failed", "path", rel,
			"lang", o.Lang, "format", o.Format, "mode", o.Mode, "err", err)
		return fmt.Errorf("processing notebook %s (%s/%s/%s): %w",
			rel, o.Lang, o.Format, o.Mode, err)
	}
	return nil
}

func (o ProcessNotebook) process(ctx context.Context) error {
	text, err := os.ReadFile(o.Input.Path)
	if err != nil {
		return fmt.Errorf("reading notebook source: %w", err)
	}
	otherFiles, err := o.siblingFiles()
	if err != nil {
		return err
	}
	hint := fmt.Sprintf("%s_%d_%s_%s_%s",
		o.Input.Topic.ID, o.Input.NumberInSection, o.Lang, o.Format, o.Mode)
	reply := broker.ReplySubject(api.NotebookResultSubject, hint)
	result, err := o.Env.Broker.Request(ctx, broker.RequestSpec{
		Subject:      api.NotebookProcessSubject,
		Stream:       api.NotebookProcessStream,
		ReplySubject: reply,
		ReplyStream:  api.NotebookResultStream,
		Payload: api.NotebookRequest{
			NotebookText:   string(text),
			NotebookPath:   filepath.Base(o.Input.Path),
			ReplySubject:   reply,
			ProgLang:       o.ProgLang,
			Language:       o.Lang,
			NotebookFormat: o.Format,
			OutputType:     o.Mode,
			OtherFiles:     otherFiles,
		},
	})
	if err != nil {
		return err
	}
	if err := o.Env.writeFile(o.Output, []byte(result)); err != nil {
		return err
	}
	o.Input.RecordOutput(o.Output)
	return nil
}

// siblingFiles collects the topic's non-image source files the processor
// needs to execute the notebook, keyed by topic-relative path.
func (o ProcessNotebook) siblingFiles() (map[string]string, error) {
	files := make(map[string]string)
	for _, sibling := range o.Input.Topic.Files() {
		if sibling == o.Input ||
			course.IsImageFile(sibling.Path) ||
			course.IsImageSourceFile(sibling.Path) {
			continue
		}
		text, err := os.ReadFile(sibling.Path)
		if err != nil {
			if os.IsNotExist(err) {
				// Generated sources may not have been produced yet.
				continue
			}
			return nil, fmt.Errorf("reading sibling %s: %w", sibling.RelativePath(), err)
		}
		files[filepath.ToSlash(sibling.RelativePath())] = string(text)
	}
	return files, nil
}
