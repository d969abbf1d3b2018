// Package op is the composable unit-of-work abstraction. An Operation is
// an immutable value holding everything it needs to execute exactly once;
// trees of operations are built with Sequential and Concurrently and
// executed by the scheduler.
package op

import (
	"context"
	"errors"
	"sync"
)

// Operation is a unit of work. Exec either completes, recording any
// produced artifact on the owning file, or returns a typed failure. It
// never partially records outputs.
type Operation interface {
	Exec(ctx context.Context) error
}

// NoOp executes as a successful trivial action.
type NoOp struct{}

func (NoOp) Exec(context.Context) error { return nil }

// Sequential runs its operations in order; the first failure aborts the
// remaining ones.
type Sequential []Operation

func (s Sequential) Exec(ctx context.Context) error {
	for _, operation := range s {
		if err := operation.Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Concurrently runs all operations in parallel and collects every
// outcome; one operation's failure does not cancel its siblings.
type Concurrently []Operation

func (c Concurrently) Exec(ctx context.Context) error {
	errs := make([]error, len(c))
	var wg sync.WaitGroup
	for i, operation := range c {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = operation.Exec(ctx)
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}
