// Package scheduler walks the content graph in dependency stages and
// executes each file's operation tree with bounded concurrency. Failures
// are per-operation: a failed conversion never aborts its siblings or the
// stages that follow.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/coursegen/coursegen/internal/course"
	"github.com/coursegen/coursegen/internal/op"
)

const (
	// ChunkSize caps the number of simultaneously outstanding requests
	// against the worker pool.
	ChunkSize = 10
	// chunkCooldown gives the workers a moment to drain between chunks.
	chunkCooldown = 100 * time.Millisecond
)

// Scheduler drives a course build.
type Scheduler struct {
	Course *course.Course
	Env    *op.Env
}

func New(c *course.Course, env *op.Env) *Scheduler {
	return &Scheduler{Course: c, Env: env}
}

// ProcessAll builds every file of every section, stage by stage, then
// mirrors the dictionary groups. Within a stage, operations run in chunks
// of ChunkSize; each chunk runs concurrently and chunks run one after
// another. Stage N is fully awaited before stage N+1 begins, so side
// artifacts (rasterized diagrams) exist before their dependents run.
func (s *Scheduler) ProcessAll(ctx context.Context) {
	start := time.Now()
	for _, section := range s.Course.Sections {
		for _, stage := range course.Stages() {
			var operations []op.Operation
			for _, f := range section.Files() {
				if f.Stage() == stage {
					operations = append(operations, op.ForFile(s.Env, f))
				}
			}
			s.runChunked(ctx, operations)
			slog.Debug("stage complete", "section", section.Name.En,
				"stage", stage, "operations", len(operations))
		}
	}
	s.processDictGroups(ctx)
	slog.Info("course processed", "root", s.Course.Root, "took", time.Since(start))
}

// ProcessFile is the incremental path: rebuild the operation tree for a
// single changed file. Paths outside the course are ignored.
func (s *Scheduler) ProcessFile(ctx context.Context, path string) {
	f := s.Course.FileForPath(path)
	if f == nil {
		slog.Debug("path not part of the course, ignoring", "path", path)
		return
	}
	if err := op.ForFile(s.Env, f).Exec(ctx); err != nil {
		slog.Error("processing file", "path", path, "err", err)
	}
}

// DeleteFile removes a tracked file's generated artifacts and drops it
// from the content graph.
func (s *Scheduler) DeleteFile(ctx context.Context, path string) {
	f := s.Course.FileForPath(path)
	if f == nil {
		slog.Debug("deleted path not part of the course, ignoring", "path", path)
		return
	}
	if err := (op.DeleteFile{Env: s.Env, File: f}).Exec(ctx); err != nil {
		slog.Error("deleting file outputs", "path", path, "err", err)
	}
	s.Course.OnFileDeleted(path)
}

func (s *Scheduler) processDictGroups(ctx context.Context) {
	operations := make([]op.Operation, 0, len(s.Course.DictGroups))
	for _, group := range s.Course.DictGroups {
		operations = append(operations, op.ForDictGroup(s.Env, group))
	}
	if err := op.Concurrently(operations).Exec(ctx); err != nil {
		slog.Error("copying dict groups", "err", err)
	}
}

// runChunked executes operations in chunks of ChunkSize with a short
// cooldown pause in between. Errors are already logged at the leaves;
// the aggregate is logged once per chunk for visibility.
func (s *Scheduler) runChunked(ctx context.Context, operations []op.Operation) {
	for offset := 0; offset < len(operations); offset += ChunkSize {
		end := min(offset+ChunkSize, len(operations))
		chunk := op.Concurrently(operations[offset:end])
		if err := chunk.Exec(ctx); err != nil {
			slog.Debug("chunk finished with failures", "err", err)
		}
		if end < len(operations) {
			select {
			case <-ctx.Done():
				return
			case <-time.After(chunkCooldown):
			}
		}
	}
}
