package in

import (
	"context"

	tasksdto "studydesk/internal/modules/tasks/dto"
	tasksin "studydesk/internal/modules/tasks/port/in"
)

type CLIHandler struct {
	usecase tasksin.Usecase
}

func NewCLIHandler(usecase tasksin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Add(ctx context.Context, text, subject string) (tasksdto.TaskOutput, error) {
	return h.usecase.Add(ctx, tasksdto.AddInput{Text: text, Subject: subject})
}

// Done completes the task whose id, or unique id prefix, is ref.
func (h CLIHandler) Done(ctx context.Context, ref string) (tasksdto.TaskOutput, error) {
	return h.usecase.Complete(ctx, ref)
}

func (h CLIHandler) Tasks(ctx context.Context, all bool) ([]tasksdto.TaskOutput, error) {
	return h.usecase.List(ctx, all)
}

func (h CLIHandler) ClearCompleted(ctx context.Context) (int, error) {
	return h.usecase.ClearCompleted(ctx)
}
