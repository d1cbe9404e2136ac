package usecase

import (
	"context"

	"studydesk/internal/modules/achievement/domain"
	achievementdto "studydesk/internal/modules/achievement/dto"
	achievementin "studydesk/internal/modules/achievement/port/in"
	"studydesk/internal/modules/achievement/service"
)

type Interactor struct {
	svc *service.EvaluatorService
}

func NewInteractor(svc *service.EvaluatorService) achievementin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Check(ctx context.Context) ([]achievementdto.AchievementOutput, error) {
	earned, err := i.svc.Evaluate(ctx)
	return toOutputs(earned), err
}

func (i *Interactor) History(ctx context.Context, limit int) ([]achievementdto.AchievementOutput, error) {
	h, err := i.svc.History(ctx)
	if err != nil {
		return nil, err
	}
	return toOutputs(h.Recent(limit)), nil
}

func (i *Interactor) Has(ctx context.Context, id string) (bool, error) {
	return i.svc.Has(ctx, id)
}

func (i *Interactor) Rules(ctx context.Context) ([]achievementdto.RuleOutput, error) {
	rules, counts, err := i.svc.Rules(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]achievementdto.RuleOutput, 0, len(rules))
	for _, r := range rules {
		out = append(out, achievementdto.RuleOutput{ID: r.ID, Title: r.Title, Icon: r.Icon, Earned: counts[r.ID]})
	}
	return out, nil
}

func toOutputs(in []domain.Achievement) []achievementdto.AchievementOutput {
	out := make([]achievementdto.AchievementOutput, 0, len(in))
	for _, a := range in {
		out = append(out, achievementdto.AchievementOutput{
			ID:       a.ID,
			Rule:     a.Rule,
			Title:    a.Title,
			Message:  a.Message,
			Icon:     a.Icon,
			EarnedAt: a.EarnedAt,
		})
	}
	return out
}
