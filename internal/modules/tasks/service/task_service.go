package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"studydesk/internal/modules/tasks/domain"
	tasksout "studydesk/internal/modules/tasks/port/out"
	"studydesk/internal/platform/clock"
	apperrors "studydesk/internal/platform/errors"
	"studydesk/internal/platform/id"
)

type TaskService struct {
	clock  clock.Clock
	idGen  id.Generator
	store  tasksout.Store
	logger *zap.Logger
}

func NewTaskService(clock clock.Clock, idGen id.Generator, store tasksout.Store, logger *zap.Logger) *TaskService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskService{clock: clock, idGen: idGen, store: store, logger: logger}
}

func (s *TaskService) Add(ctx context.Context, text, subject string) (domain.Task, error) {
	task, err := domain.NewTask(s.idGen.New(), text, subject, s.clock.Now())
	if err != nil {
		return domain.Task{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	err = s.store.Update(ctx, func(l domain.List) (domain.List, error) {
		return append(l, task), nil
	})
	if err != nil {
		return domain.Task{}, fmt.Errorf("save task: %w", err)
	}
	s.logger.Debug("task added", zap.String("task", task.ID), zap.String("subject", task.Subject))
	return task, nil
}

// Complete marks the task ref resolves to as done. Completing a finished
// task again keeps its original completion time.
func (s *TaskService) Complete(ctx context.Context, ref string) (domain.Task, error) {
	now := s.clock.Now()
	var (
		done    domain.Task
		findErr error
	)
	err := s.store.Update(ctx, func(l domain.List) (domain.List, error) {
		n, err := l.Find(ref)
		if err != nil {
			findErr = err
			return nil, err
		}
		if !l[n].Completed {
			l[n].Completed = true
			l[n].CompletedAt = now
		}
		done = l[n]
		return l, nil
	})
	switch {
	case errors.Is(findErr, domain.ErrNoTask):
		return domain.Task{}, fmt.Errorf("%w: task %s", apperrors.ErrNotFound, ref)
	case findErr != nil:
		return domain.Task{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, findErr)
	case err != nil:
		return domain.Task{}, fmt.Errorf("save task: %w", err)
	}
	s.logger.Debug("task completed", zap.String("task", done.ID))
	return done, nil
}

func (s *TaskService) List(ctx context.Context, all bool) (domain.List, error) {
	l, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if all {
		return l, nil
	}
	return l.Open(), nil
}

func (s *TaskService) ClearCompleted(ctx context.Context) (int, error) {
	var removed int
	err := s.store.Update(ctx, func(l domain.List) (domain.List, error) {
		var open domain.List
		open, removed = l.WithoutCompleted()
		return open, nil
	})
	if err != nil {
		return 0, fmt.Errorf("clear completed tasks: %w", err)
	}
	return removed, nil
}
