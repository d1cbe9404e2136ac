package in

import (
	"context"

	"studydesk/internal/modules/tasks/dto"
)

type Usecase interface {
	Add(ctx context.Context, input dto.AddInput) (dto.TaskOutput, error)
	Complete(ctx context.Context, ref string) (dto.TaskOutput, error)
	List(ctx context.Context, all bool) ([]dto.TaskOutput, error)
	ClearCompleted(ctx context.Context) (int, error)
}
