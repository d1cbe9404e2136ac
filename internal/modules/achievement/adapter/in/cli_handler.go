package in

import (
	"context"

	achievementdto "studydesk/internal/modules/achievement/dto"
	achievementin "studydesk/internal/modules/achievement/port/in"
)

type CLIHandler struct {
	usecase achievementin.Usecase
}

func NewCLIHandler(usecase achievementin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Check(ctx context.Context) ([]achievementdto.AchievementOutput, error) {
	return h.usecase.Check(ctx)
}

func (h CLIHandler) Recent(ctx context.Context, limit int) ([]achievementdto.AchievementOutput, error) {
	return h.usecase.History(ctx, limit)
}

func (h CLIHandler) Has(ctx context.Context, id string) (bool, error) {
	return h.usecase.Has(ctx, id)
}

func (h CLIHandler) Rules(ctx context.Context) ([]achievementdto.RuleOutput, error) {
	return h.usecase.Rules(ctx)
}
