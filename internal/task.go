package internal

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Timer runs the runnable immediately and then on every tick till context canceled (or Stop).
// Failures are logged and do not stop the task.
func Timer(ctx context.Context, interval time.Duration, runnable func(ctx context.Context) error) *Task {
	return Spawn(ctx, func(ctx context.Context) error {
		logger := LoggerFromContext(ctx)
		run := func() {
			if err := runnable(ctx); err != nil {
				logger.Warn("failed task", zap.Error(err))
			}
		}

		run()
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.C:
				run()
			}
		}
	})
}

// Spawn runs the runnable in background. The child context is canceled when the parent finishes,
// the runnable returns, or Stop is invoked.
func Spawn(ctx context.Context, runnable func(ctx context.Context) error) *Task {
	child, cancel := context.WithCancel(ctx)
	task := &Task{
		done:   make(chan struct{}),
		cancel: cancel,
	}

	go func() {
		defer task.cancel()
		defer close(task.done)
		task.err = runnable(child)
	}()

	return task
}

type Task struct {
	done   chan struct{}
	err    error
	cancel func()
}

// Done is closed when the runnable returned.
func (task *Task) Done() <-chan struct{} {
	if task == nil {
		return nil
	}
	return task.done
}

// Stop cancels the task, waits till the end and returns its error.
func (task *Task) Stop() error {
	if task == nil {
		return nil
	}
	task.cancel()
	<-task.done
	return task.err
}
