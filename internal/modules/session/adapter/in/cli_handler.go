package in

import (
	"context"

	sessiondto "studydesk/internal/modules/session/dto"
	sessionin "studydesk/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Touch(ctx context.Context, kind, subjectID, title, url string, progress float64) (sessiondto.SessionOutput, error) {
	return h.usecase.Touch(ctx, sessiondto.TouchInput{Kind: kind, SubjectID: subjectID, Title: title, URL: url, Progress: progress})
}

func (h CLIHandler) Activity(ctx context.Context) (sessiondto.SessionOutput, error) {
	return h.usecase.RecordActivity(ctx)
}

func (h CLIHandler) Current(ctx context.Context) (sessiondto.SessionOutput, error) {
	return h.usecase.Current(ctx)
}

func (h CLIHandler) Clear(ctx context.Context) error {
	return h.usecase.Clear(ctx)
}

func (h CLIHandler) History(ctx context.Context) ([]sessiondto.HistoryEntryOutput, error) {
	return h.usecase.History(ctx)
}

func (h CLIHandler) Summary(ctx context.Context) (sessiondto.ActivityOutput, error) {
	return h.usecase.Activity(ctx)
}

func (h CLIHandler) Sweep(ctx context.Context) (bool, error) {
	return h.usecase.Sweep(ctx)
}
