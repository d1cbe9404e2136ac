package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tasksout "studydesk/internal/modules/tasks/adapter/out"
	"studydesk/internal/modules/tasks/dto"
	tasksin "studydesk/internal/modules/tasks/port/in"
	"studydesk/internal/modules/tasks/service"
	"studydesk/internal/modules/tasks/usecase"
	"studydesk/internal/platform/clock"
	apperrors "studydesk/internal/platform/errors"
	"studydesk/internal/platform/kv"
)

type seqIDs struct{ n int }

func (s *seqIDs) New() string {
	s.n++
	return fmt.Sprintf("task-%04d-0000", s.n)
}

var now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newTasks(t *testing.T) tasksin.Usecase {
	t.Helper()
	store := kv.New(kv.NewMemoryBackend(), "test")
	svc := service.NewTaskService(clock.Fixed{At: now}, &seqIDs{}, tasksout.NewKVTaskStore(store), nil)
	return usecase.NewInteractor(svc)
}

func TestAddCompleteAndListOpenTasks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc := newTasks(t)

	first, err := uc.Add(ctx, dto.AddInput{Text: " outline essay ", Subject: "hist"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if first.Text != "outline essay" || first.ShortID != "task-000" {
		t.Fatalf("unexpected task: %+v", first)
	}
	if _, err := uc.Add(ctx, dto.AddInput{Text: "flashcards"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	done, err := uc.Complete(ctx, first.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !done.Completed || !done.CompletedAt.Equal(now) {
		t.Fatalf("unexpected completed task: %+v", done)
	}

	open, err := uc.List(ctx, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(open) != 1 || open[0].Text != "flashcards" {
		t.Fatalf("expected only the open task, got %+v", open)
	}
	all, err := uc.List(ctx, true)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 || all[0].ID != first.ID {
		t.Fatalf("expected both tasks in creation order, got %+v", all)
	}

	removed, err := uc.ClearCompleted(ctx)
	if err != nil || removed != 1 {
		t.Fatalf("clear completed = %d, %v", removed, err)
	}
	all, _ = uc.List(ctx, true)
	if len(all) != 1 {
		t.Fatalf("expected one task left, got %+v", all)
	}
}

func TestTaskErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc := newTasks(t)

	if _, err := uc.Add(ctx, dto.AddInput{Text: "   "}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("blank task: expected invalid input, got %v", err)
	}
	if _, err := uc.Complete(ctx, "task-0042"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("unknown task: expected not found, got %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := uc.Add(ctx, dto.AddInput{Text: fmt.Sprintf("t%d", i)}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	if _, err := uc.Complete(ctx, "task-000"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("ambiguous prefix: expected invalid input, got %v", err)
	}
	if got, err := uc.Complete(ctx, "task-0002"); err != nil || got.Text != "t1" {
		t.Fatalf("unique prefix: got %+v, %v", got, err)
	}
}
