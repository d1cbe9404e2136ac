package in

import (
	"context"

	"studydesk/internal/modules/achievement/dto"
)

type Usecase interface {
	Check(ctx context.Context) ([]dto.AchievementOutput, error)
	History(ctx context.Context, limit int) ([]dto.AchievementOutput, error)
	Has(ctx context.Context, id string) (bool, error)
	Rules(ctx context.Context) ([]dto.RuleOutput, error)
}
