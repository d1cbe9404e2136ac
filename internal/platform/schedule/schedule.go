// Package schedule runs named recurring jobs. Ticker drives them from wall
// clock intervals; Manual lets callers fire them explicitly.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Job func(ctx context.Context) error

type Task interface {
	Name() string
	Stop()
}

type Scheduler interface {
	Every(name string, interval time.Duration, job Job) Task
}

type Ticker struct {
	ctx    context.Context
	logger *zap.Logger

	mu    sync.Mutex
	tasks map[*tickerTask]struct{}
	wg    sync.WaitGroup
}

func NewTicker(ctx context.Context, logger *zap.Logger) *Ticker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ticker{ctx: ctx, logger: logger, tasks: map[*tickerTask]struct{}{}}
}

type tickerTask struct {
	name string
	stop chan struct{}
	once sync.Once
	done chan struct{}
}

func (t *tickerTask) Name() string { return t.name }

// Stop cancels the task and waits for an in-flight run to return.
func (t *tickerTask) Stop() {
	t.once.Do(func() { close(t.stop) })
	<-t.done
}

func (s *Ticker) Every(name string, interval time.Duration, job Job) Task {
	task := &tickerTask{name: name, stop: make(chan struct{}), done: make(chan struct{})}
	s.mu.Lock()
	s.tasks[task] = struct{}{}
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(task.done)
		defer func() {
			s.mu.Lock()
			delete(s.tasks, task)
			s.mu.Unlock()
		}()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.ctx.Done():
				return
			case <-task.stop:
				return
			case <-ticker.C:
				if err := run(s.ctx, name, job); err != nil {
					s.logger.Warn("scheduled job failed", zap.String("job", name), zap.Error(err))
				} else {
					s.logger.Debug("scheduled job ran", zap.String("job", name))
				}
			}
		}
	}()
	return task
}

// Close stops every task and waits for them to exit.
func (s *Ticker) Close() {
	s.mu.Lock()
	tasks := make([]*tickerTask, 0, len(s.tasks))
	for t := range s.tasks {
		tasks = append(tasks, t)
	}
	s.mu.Unlock()
	for _, t := range tasks {
		t.once.Do(func() { close(t.stop) })
	}
	s.wg.Wait()
}

func run(ctx context.Context, name string, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", name, r)
		}
	}()
	return job(ctx)
}

// Manual never fires on its own.
type Manual struct {
	mu    sync.Mutex
	tasks []*manualTask
}

func NewManual() *Manual {
	return &Manual{}
}

type manualTask struct {
	name     string
	interval time.Duration
	job      Job
	mu       sync.Mutex
	stopped  bool
}

func (t *manualTask) Name() string { return t.name }

func (t *manualTask) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

func (t *manualTask) active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.stopped
}

func (m *Manual) Every(name string, interval time.Duration, job Job) Task {
	task := &manualTask{name: name, interval: interval, job: job}
	m.mu.Lock()
	m.tasks = append(m.tasks, task)
	m.mu.Unlock()
	return task
}

// Tick runs every live task once, in registration order.
func (m *Manual) Tick(ctx context.Context) error {
	var errs []error
	for _, t := range m.snapshot() {
		if !t.active() {
			continue
		}
		if err := run(ctx, t.name, t.job); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Fire runs the live tasks registered under name.
func (m *Manual) Fire(ctx context.Context, name string) error {
	found := false
	var errs []error
	for _, t := range m.snapshot() {
		if t.name != name || !t.active() {
			continue
		}
		found = true
		if err := run(ctx, t.name, t.job); err != nil {
			errs = append(errs, err)
		}
	}
	if !found {
		return fmt.Errorf("no live task named %q", name)
	}
	return errors.Join(errs...)
}

func (m *Manual) Active(name string) bool {
	for _, t := range m.snapshot() {
		if t.name == name && t.active() {
			return true
		}
	}
	return false
}

func (m *Manual) snapshot() []*manualTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*manualTask(nil), m.tasks...)
}
