package usecase

import (
	"context"

	"studydesk/internal/modules/tasks/domain"
	tasksdto "studydesk/internal/modules/tasks/dto"
	tasksin "studydesk/internal/modules/tasks/port/in"
	"studydesk/internal/modules/tasks/service"
)

const shortIDLength = 8

type Interactor struct {
	svc *service.TaskService
}

func NewInteractor(svc *service.TaskService) tasksin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Add(ctx context.Context, input tasksdto.AddInput) (tasksdto.TaskOutput, error) {
	t, err := i.svc.Add(ctx, input.Text, input.Subject)
	if err != nil {
		return tasksdto.TaskOutput{}, err
	}
	return toOutput(t), nil
}

func (i *Interactor) Complete(ctx context.Context, ref string) (tasksdto.TaskOutput, error) {
	t, err := i.svc.Complete(ctx, ref)
	if err != nil {
		return tasksdto.TaskOutput{}, err
	}
	return toOutput(t), nil
}

func (i *Interactor) List(ctx context.Context, all bool) ([]tasksdto.TaskOutput, error) {
	l, err := i.svc.List(ctx, all)
	if err != nil {
		return nil, err
	}
	out := make([]tasksdto.TaskOutput, 0, len(l))
	for _, t := range l {
		out = append(out, toOutput(t))
	}
	return out, nil
}

func (i *Interactor) ClearCompleted(ctx context.Context) (int, error) {
	return i.svc.ClearCompleted(ctx)
}

func toOutput(t domain.Task) tasksdto.TaskOutput {
	short := t.ID
	if len(short) > shortIDLength {
		short = short[:shortIDLength]
	}
	return tasksdto.TaskOutput{
		ID:          t.ID,
		ShortID:     short,
		Text:        t.Text,
		Subject:     t.Subject,
		Completed:   t.Completed,
		Created:     t.Created,
		CompletedAt: t.CompletedAt,
	}
}
