package in

import (
	"context"

	"studydesk/internal/modules/session/dto"
)

type Usecase interface {
	Touch(ctx context.Context, input dto.TouchInput) (dto.SessionOutput, error)
	RecordActivity(ctx context.Context) (dto.SessionOutput, error)
	Current(ctx context.Context) (dto.SessionOutput, error)
	Clear(ctx context.Context) error
	History(ctx context.Context) ([]dto.HistoryEntryOutput, error)
	Activity(ctx context.Context) (dto.ActivityOutput, error)
	Sweep(ctx context.Context) (bool, error)
}
